package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"voter-registration/service"
)

// Connector hands out an in-process connection to a MemoryLedger.
type Connector struct {
	Ledger  *MemoryLedger
	Account common.Address
}

func (c *Connector) Connect(ctx context.Context) (*service.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &service.Connection{
		Ledger:    c.Ledger,
		Account:   c.Account,
		NetworkID: "memory",
	}, nil
}
