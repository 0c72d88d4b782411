package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"voter-registration/anonymizer"
	"voter-registration/models"
)

const (
	DefaultGasLimit = 1000000

	bootstrapErrorMessage = "Failed to load web3, accounts, or contract. Check console for details."
	duplicateMessage      = "Aadhar card number is already registered."

	bootstrapErrorDuration = 10 * time.Second
	submitNoticeDuration   = 5 * time.Second
)

type Options struct {
	GasLimit    uint64
	SyncTimeout time.Duration
	Logger      *slog.Logger
	Notifier    *Notifier
	Metrics     *MetricsCollector
}

// RegistrationService owns the portal's view of the ledger: bootstrap, the
// synchronization pass and the registration submission flow.
type RegistrationService struct {
	connector   Connector
	logger      *slog.Logger
	notifier    *Notifier
	metrics     *MetricsCollector
	gasLimit    uint64
	syncTimeout time.Duration

	mu        sync.RWMutex
	conn      *Connection
	state     models.ViewState
	published uint64

	generation atomic.Uint64
	inFlight   atomic.Int32
}

type SubmitResult struct {
	TxHash       common.Hash         `json:"tx_hash"`
	Added        bool                `json:"added"`
	Notification models.Notification `json:"notification"`
}

func NewRegistrationService(connector Connector, opts Options) *RegistrationService {
	if opts.GasLimit == 0 {
		opts.GasLimit = DefaultGasLimit
	}
	if opts.Notifier == nil {
		opts.Notifier = NewNotifier(0)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetricsCollector()
	}

	return &RegistrationService{
		connector:   connector,
		logger:      ResolveLogger(opts.Logger),
		notifier:    opts.Notifier,
		metrics:     opts.Metrics,
		gasLimit:    opts.GasLimit,
		syncTimeout: opts.SyncTimeout,
	}
}

func (s *RegistrationService) Notifier() *Notifier {
	return s.notifier
}

func (s *RegistrationService) Metrics() *MetricsCollector {
	return s.metrics
}

// State returns a copy of the current view state.
func (s *RegistrationService) State() models.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := s.state.Clone()
	state.Syncing = s.inFlight.Load() > 0
	return state
}

// UpdateForm stores pending form values without touching the ledger.
func (s *RegistrationService) UpdateForm(form models.RegistrationForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Form = form
}

func (s *RegistrationService) connection() (*Connection, common.Address) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.conn == nil {
		return nil, common.Address{}
	}
	return s.conn, s.conn.Account
}

// Close releases the provider connection.
func (s *RegistrationService) Close() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.state.Connected = false
	s.mu.Unlock()

	if conn != nil && conn.Close != nil {
		conn.Close()
	}
}

// Bootstrap connects to the provider, reads the admin and phase flags and
// runs a first synchronization pass. Any failure is logged and surfaced as a
// single generic error notification.
func (s *RegistrationService) Bootstrap(ctx context.Context) error {
	if err := s.bootstrap(ctx); err != nil {
		s.logger.Error("bootstrap failed", "error", err)
		s.notifier.Error(bootstrapErrorMessage, "error", bootstrapErrorDuration)
		return err
	}
	return nil
}

func (s *RegistrationService) bootstrap(ctx context.Context) error {
	conn, err := s.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect provider: %w", err)
	}
	if conn.Account == (common.Address{}) {
		if conn.Close != nil {
			conn.Close()
		}
		return ErrNoAccount
	}

	admin, started, ended, err := readPhase(ctx, conn.Ledger)
	if err != nil {
		return s.abandon(conn, err)
	}

	s.mu.Lock()
	// A canceled bootstrap never installs its connection.
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return s.abandon(conn, err)
	}
	previous := s.conn
	s.conn = conn
	s.state.Connected = true
	s.state.Account = conn.Account
	s.state.IsAdmin = conn.Account == admin
	s.state.Started = started
	s.state.Ended = ended
	s.mu.Unlock()

	if previous != nil && previous != conn && previous.Close != nil {
		previous.Close()
	}

	s.logger.Info("provider connected",
		"account", conn.Account.Hex(),
		"network_id", conn.NetworkID,
		"admin", conn.Account == admin,
		"started", started,
		"ended", ended,
	)

	return s.Sync(ctx)
}

// RefreshPhase re-reads the admin and the election phase flags without
// reconnecting.
func (s *RegistrationService) RefreshPhase(ctx context.Context) error {
	conn, account := s.connection()
	if conn == nil {
		return ErrNotConnected
	}

	admin, started, ended, err := readPhase(ctx, conn.Ledger)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state.IsAdmin = account == admin
	s.state.Started = started
	s.state.Ended = ended
	s.mu.Unlock()

	s.logger.Info("election phase refreshed", "started", started, "ended", ended)
	return nil
}

func readPhase(ctx context.Context, ledger Ledger) (admin common.Address, started, ended bool, err error) {
	if admin, err = ledger.Admin(ctx); err != nil {
		return admin, false, false, fmt.Errorf("read admin: %w", err)
	}
	if started, err = ledger.Started(ctx); err != nil {
		return admin, false, false, fmt.Errorf("read election start: %w", err)
	}
	if ended, err = ledger.Ended(ctx); err != nil {
		return admin, false, false, fmt.Errorf("read election end: %w", err)
	}
	return admin, started, ended, nil
}

func (s *RegistrationService) abandon(conn *Connection, err error) error {
	if conn.Close != nil {
		conn.Close()
	}
	return err
}

type snapshot struct {
	count   uint64
	voters  []models.VoterRecord
	current models.VoterRecord
}

// Sync re-reads the voter count, every voter record and the caller's own
// record, then publishes them as a new snapshot. A failed read leaves the
// previous snapshot in place.
func (s *RegistrationService) Sync(ctx context.Context) error {
	conn, account := s.connection()
	if conn == nil {
		return ErrNotConnected
	}

	if s.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.syncTimeout)
		defer cancel()
	}

	gen := s.generation.Add(1)
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	start := time.Now()
	snap, err := fetchSnapshot(ctx, conn.Ledger, account)
	duration := time.Since(start)
	s.metrics.RecordSync(duration, err)
	if err != nil {
		return fmt.Errorf("synchronize voters: %w", err)
	}

	s.mu.Lock()
	// A newer pass may have finished first; never publish older data over it.
	if gen > s.published {
		s.published = gen
		s.state.VoterCount = snap.count
		s.state.Voters = snap.voters
		s.state.CurrentVoter = snap.current
		s.state.SyncedAt = time.Now()
	}
	s.mu.Unlock()

	s.logger.Debug("synchronization pass complete", "voters", snap.count, "duration_ms", duration.Milliseconds())
	return nil
}

func fetchSnapshot(ctx context.Context, ledger Ledger, account common.Address) (snapshot, error) {
	count, err := ledger.TotalVoters(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("read total voters: %w", err)
	}

	var voters []models.VoterRecord
	if batch, ok := ledger.(BatchLedger); ok {
		voters, err = fetchBatched(ctx, batch, count)
	} else {
		voters, err = fetchSequential(ctx, ledger, count)
	}
	if err != nil {
		return snapshot{}, err
	}

	current, err := ledger.VoterDetails(ctx, account)
	if err != nil {
		return snapshot{}, fmt.Errorf("read own record: %w", err)
	}

	return snapshot{count: count, voters: voters, current: current}, nil
}

func fetchSequential(ctx context.Context, ledger Ledger, count uint64) ([]models.VoterRecord, error) {
	voters := make([]models.VoterRecord, 0, count)
	for i := uint64(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		addr, err := ledger.VoterAddress(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("read voter %d: %w", i, err)
		}
		record, err := ledger.VoterDetails(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("read voter %s: %w", addr.Hex(), err)
		}
		voters = append(voters, record)
	}
	return voters, nil
}

func fetchBatched(ctx context.Context, ledger BatchLedger, count uint64) ([]models.VoterRecord, error) {
	addresses, err := ledger.VoterAddresses(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("read voter addresses: %w", err)
	}
	if uint64(len(addresses)) != count {
		return nil, fmt.Errorf("read voter addresses: got %d, want %d", len(addresses), count)
	}

	voters, err := ledger.VoterDetailsBatch(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("read voter records: %w", err)
	}
	if len(voters) != len(addresses) {
		return nil, fmt.Errorf("read voter records: got %d, want %d", len(voters), len(addresses))
	}
	return voters, nil
}

// Submit registers (or updates) the caller as a voter. The document number
// must be unique on the ledger; a duplicate is reported without sending any
// transaction.
func (s *RegistrationService) Submit(ctx context.Context, form models.RegistrationForm) (result *SubmitResult, err error) {
	conn, account := s.connection()
	if conn == nil {
		return nil, ErrNotConnected
	}

	s.UpdateForm(form)
	if err := ValidateForm(form); err != nil {
		return nil, err
	}
	state := s.State()
	if state.Phase() != models.PhaseOpen {
		return nil, ErrRegistrationClosed
	}
	if state.CurrentVoter.IsVerified {
		return nil, ErrAlreadyVerified
	}

	start := time.Now()
	defer func() {
		if errors.Is(err, ErrDuplicateDocument) {
			return
		}
		s.metrics.RecordSubmission(time.Since(start), err)
	}()

	logger := s.logger.With(
		"account", account.Hex(),
		"document", anonymizer.Fingerprint(form.DocumentNumber),
		"phone", anonymizer.Mask(form.Phone, 4),
	)

	registered, err := conn.Ledger.IsDocumentRegistered(ctx, form.DocumentNumber)
	if err != nil {
		return nil, fmt.Errorf("check document number: %w", err)
	}
	if registered {
		s.metrics.RecordDuplicate()
		logger.Warn("document number already registered")
		s.notifier.Error(duplicateMessage, "Alert", submitNoticeDuration)
		return nil, ErrDuplicateDocument
	}

	before, err := conn.Ledger.VoterDetails(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("read own record: %w", err)
	}

	txHash, err := conn.Ledger.RegisterAsVoter(ctx, account, form, s.gasLimit)
	if err != nil {
		logger.Error("registration transaction failed", "error", err)
		return nil, fmt.Errorf("register voter: %w", err)
	}
	logger.Info("registration transaction mined", "tx", txHash.Hex())

	if err := s.Sync(ctx); err != nil {
		return nil, err
	}

	after := s.State().CurrentVoter
	if !after.IsRegistered {
		return nil, ErrNotReflected
	}

	result = &SubmitResult{TxHash: txHash, Added: !before.IsRegistered}
	if result.Added {
		result.Notification = s.notifier.Success("Voter Detail Added", "Register", submitNoticeDuration)
	} else {
		result.Notification = s.notifier.Success("Voter Detail Updated", "Updated", submitNoticeDuration)
	}
	return result, nil
}
