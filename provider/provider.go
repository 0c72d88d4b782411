// Package provider connects the portal to an Ethereum node and the deployed
// Election contract.
package provider

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"voter-registration/blockchain/election"
	"voter-registration/service"
)

const (
	defaultReadyTimeout = 2 * time.Minute
	defaultPollInterval = 500 * time.Millisecond
	maxPollInterval     = 5 * time.Second
)

var (
	ErrNoKey    = errors.New("no signing key configured")
	ErrNotReady = errors.New("provider did not become ready")
)

// ChainIDReader is the readiness probe. *ethclient.Client satisfies it.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// EthereumConnector dials a JSON-RPC endpoint, waits for it to answer and
// binds the Election contract from its truffle artifact.
type EthereumConnector struct {
	RPCURL       string
	ArtifactPath string
	Key          *ecdsa.PrivateKey
	ReadyTimeout time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

func (c *EthereumConnector) Connect(ctx context.Context) (*service.Connection, error) {
	if c.Key == nil {
		return nil, ErrNoKey
	}
	logger := service.ResolveLogger(c.Logger).With("rpc", c.RPCURL)

	rpcClient, err := rpc.DialContext(ctx, c.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.RPCURL, err)
	}
	client := ethclient.NewClient(rpcClient)

	conn, err := c.bind(ctx, logger, rpcClient, client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return conn, nil
}

func (c *EthereumConnector) bind(ctx context.Context, logger *slog.Logger, rpcClient *rpc.Client, client *ethclient.Client) (*service.Connection, error) {
	chainID, err := WaitReady(ctx, client, c.ReadyTimeout, c.PollInterval, logger)
	if err != nil {
		return nil, err
	}

	networkID, err := client.NetworkID(ctx)
	if err != nil {
		return nil, fmt.Errorf("read network id: %w", err)
	}

	artifact, err := election.LoadArtifact(c.ArtifactPath)
	if err != nil {
		return nil, err
	}
	parsed, err := artifact.ParsedABI()
	if err != nil {
		return nil, err
	}

	address, ok := artifact.Address(networkID.String())
	if !ok {
		// Calls against the zero address return empty data and fail on
		// first use, which bootstrap reports.
		logger.Warn("contract has no deployment on network, using zero address",
			"network_id", networkID.String(),
			"artifact", c.ArtifactPath,
		)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(c.Key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	account := crypto.PubkeyToAddress(c.Key.PublicKey)
	binding := election.NewBinding(address, parsed, client, rpcClient, opts)

	logger.Info("contract bound",
		"chain_id", chainID.String(),
		"network_id", networkID.String(),
		"contract", binding.Address().Hex(),
		"account", account.Hex(),
	)

	return &service.Connection{
		Ledger:    binding,
		Account:   account,
		NetworkID: networkID.String(),
		Close:     client.Close,
	}, nil
}

// WaitReady polls the provider until it reports a chain id, backing off
// between attempts, and returns that chain id.
func WaitReady(ctx context.Context, probe ChainIDReader, timeout, interval time.Duration, logger *slog.Logger) (*big.Int, error) {
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger = service.ResolveLogger(logger)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lastErr error
	for attempt := 1; ; attempt++ {
		chainID, err := probe.ChainID(ctx)
		if err == nil && chainID != nil {
			return chainID, nil
		}
		if err == nil {
			err = errors.New("empty chain id")
		}
		lastErr = err
		logger.Debug("provider not ready", "attempt", attempt, "error", err)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w after %d attempts: %v", ErrNotReady, attempt, lastErr)
		case <-timer.C:
		}

		interval *= 2
		if interval > maxPollInterval {
			interval = maxPollInterval
		}
	}
}
