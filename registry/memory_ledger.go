// Package registry holds an in-process Election ledger used for local runs
// and tests when no Ethereum node is available.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"voter-registration/models"
)

var (
	ErrDocumentTaken   = errors.New("document number belongs to another voter")
	ErrVoterVerified   = errors.New("verified voter cannot change details")
	ErrUnknownVoter    = errors.New("voter is not registered")
	ErrIndexOutOfRange = errors.New("voter index out of range")
	ErrNotAdmin        = errors.New("caller is not the election admin")
)

// MemoryLedger follows the Election contract rules in memory.
type MemoryLedger struct {
	mu        sync.RWMutex
	admin     common.Address
	started   bool
	ended     bool
	voters    []common.Address
	details   map[common.Address]models.VoterRecord
	documents map[string]common.Address
	txCount   uint64
}

func NewMemoryLedger(admin common.Address) *MemoryLedger {
	return &MemoryLedger{
		admin:     admin,
		details:   make(map[common.Address]models.VoterRecord),
		documents: make(map[string]common.Address),
	}
}

func (m *MemoryLedger) Admin(ctx context.Context) (common.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.admin, ctx.Err()
}

func (m *MemoryLedger) Started(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.started, ctx.Err()
}

func (m *MemoryLedger) Ended(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ended, ctx.Err()
}

func (m *MemoryLedger) TotalVoters(ctx context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.voters)), ctx.Err()
}

func (m *MemoryLedger) VoterAddress(ctx context.Context, index uint64) (common.Address, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if index >= uint64(len(m.voters)) {
		return common.Address{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return m.voters[index], nil
}

// VoterDetails returns the zero record for an unknown address, as the
// contract's mapping does.
func (m *MemoryLedger) VoterDetails(ctx context.Context, voter common.Address) (models.VoterRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.VoterRecord{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.details[voter], nil
}

func (m *MemoryLedger) IsDocumentRegistered(ctx context.Context, documentNumber string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.documents[documentNumber]
	return ok, nil
}

func (m *MemoryLedger) VoterAddresses(ctx context.Context, count uint64) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if count > uint64(len(m.voters)) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, count-1)
	}
	out := make([]common.Address, count)
	copy(out, m.voters[:count])
	return out, nil
}

func (m *MemoryLedger) VoterDetailsBatch(ctx context.Context, voters []common.Address) ([]models.VoterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.VoterRecord, len(voters))
	for i, addr := range voters {
		out[i] = m.details[addr]
	}
	return out, nil
}

// RegisterAsVoter stores or replaces the caller's details. A new caller is
// appended to the voter list; a returning one keeps its index.
func (m *MemoryLedger) RegisterAsVoter(ctx context.Context, from common.Address, form models.RegistrationForm, gasLimit uint64) (common.Hash, error) {
	if err := ctx.Err(); err != nil {
		return common.Hash{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if owner, ok := m.documents[form.DocumentNumber]; ok && owner != from {
		return common.Hash{}, ErrDocumentTaken
	}

	record, exists := m.details[from]
	if record.IsVerified {
		return common.Hash{}, ErrVoterVerified
	}
	if !exists || !record.IsRegistered {
		m.voters = append(m.voters, from)
	}
	if record.DocumentNumber != "" && record.DocumentNumber != form.DocumentNumber {
		delete(m.documents, record.DocumentNumber)
	}

	record.Address = from
	record.Name = form.Name
	record.Phone = form.Phone
	record.DocumentNumber = form.DocumentNumber
	record.IsRegistered = true
	m.details[from] = record
	m.documents[form.DocumentNumber] = from

	m.txCount++
	return m.txHash(from), nil
}

func (m *MemoryLedger) txHash(from common.Address) common.Hash {
	var nonce [8]byte
	for i := 0; i < 8; i++ {
		nonce[i] = byte(m.txCount >> (56 - 8*i))
	}
	return crypto.Keccak256Hash(from.Bytes(), nonce[:])
}

func (m *MemoryLedger) StartElection(caller common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if caller != m.admin {
		return ErrNotAdmin
	}
	m.started = true
	m.ended = false
	return nil
}

func (m *MemoryLedger) EndElection(caller common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if caller != m.admin {
		return ErrNotAdmin
	}
	m.ended = true
	return nil
}

func (m *MemoryLedger) VerifyVoter(caller, voter common.Address, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if caller != m.admin {
		return ErrNotAdmin
	}
	record, ok := m.details[voter]
	if !ok || !record.IsRegistered {
		return fmt.Errorf("%w: %s", ErrUnknownVoter, voter.Hex())
	}
	record.IsVerified = verified
	m.details[voter] = record
	return nil
}

// SeedFile is the on-disk layout read by LoadSeed.
type SeedFile struct {
	Admin   common.Address       `json:"admin"`
	Started bool                 `json:"started"`
	Ended   bool                 `json:"ended"`
	Voters  []models.VoterRecord `json:"voters"`
}

// LoadSeed replaces the ledger contents with the seed at path. A missing file
// is created with an open election and no voters.
func (m *MemoryLedger) LoadSeed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m.createDefaultSeed(path)
		}
		return fmt.Errorf("failed to read seed file: %v", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to unmarshal seed file: %v", err)
	}
	return m.apply(seed)
}

func (m *MemoryLedger) createDefaultSeed(path string) error {
	m.mu.RLock()
	seed := SeedFile{Admin: m.admin, Started: true, Voters: []models.VoterRecord{}}
	m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default seed: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save default seed file: %v", err)
	}

	return m.apply(seed)
}

func (m *MemoryLedger) apply(seed SeedFile) error {
	details := make(map[common.Address]models.VoterRecord, len(seed.Voters))
	documents := make(map[string]common.Address, len(seed.Voters))
	voters := make([]common.Address, 0, len(seed.Voters))

	for _, v := range seed.Voters {
		if err := validateSeedVoter(v); err != nil {
			return fmt.Errorf("invalid voter %s: %v", v.Address.Hex(), err)
		}
		if _, dup := details[v.Address]; dup {
			return fmt.Errorf("invalid voter %s: listed twice", v.Address.Hex())
		}
		if owner, dup := documents[v.DocumentNumber]; dup {
			return fmt.Errorf("invalid voter %s: document number already used by %s", v.Address.Hex(), owner.Hex())
		}
		v.IsRegistered = true
		details[v.Address] = v
		documents[v.DocumentNumber] = v.Address
		voters = append(voters, v.Address)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if seed.Admin != (common.Address{}) {
		m.admin = seed.Admin
	}
	m.started = seed.Started
	m.ended = seed.Ended
	m.voters = voters
	m.details = details
	m.documents = documents
	return nil
}

func validateSeedVoter(v models.VoterRecord) error {
	if v.Address == (common.Address{}) {
		return fmt.Errorf("address is required")
	}
	if v.Name == "" {
		return fmt.Errorf("name is required")
	}
	if v.DocumentNumber == "" {
		return fmt.Errorf("document number is required")
	}
	return nil
}
