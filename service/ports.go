package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"voter-registration/models"
)

//go:generate mockgen -destination=mock_ledger_test.go -package=service_test voter-registration/service Ledger

// Ledger is the Election contract as seen by the portal. Every call may
// block on the provider and must honour ctx.
type Ledger interface {
	Admin(ctx context.Context) (common.Address, error)
	Started(ctx context.Context) (bool, error)
	Ended(ctx context.Context) (bool, error)
	TotalVoters(ctx context.Context) (uint64, error)
	VoterAddress(ctx context.Context, index uint64) (common.Address, error)
	VoterDetails(ctx context.Context, voter common.Address) (models.VoterRecord, error)
	IsDocumentRegistered(ctx context.Context, documentNumber string) (bool, error)
	// RegisterAsVoter returns once the transaction is mined.
	RegisterAsVoter(ctx context.Context, from common.Address, form models.RegistrationForm, gasLimit uint64) (common.Hash, error)
}

// BatchLedger is implemented by ledgers that can read many records per round
// trip. Sync prefers it over per-index reads.
type BatchLedger interface {
	Ledger
	VoterAddresses(ctx context.Context, count uint64) ([]common.Address, error)
	VoterDetailsBatch(ctx context.Context, voters []common.Address) ([]models.VoterRecord, error)
}

// Connection is a ready provider: a ledger binding and the account acting on it.
type Connection struct {
	Ledger    Ledger
	Account   common.Address
	NetworkID string
	Close     func()
}

// Connector acquires a provider. Connect blocks until the provider is ready
// or ctx ends.
type Connector interface {
	Connect(ctx context.Context) (*Connection, error)
}
