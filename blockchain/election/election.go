package election

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	"voter-registration/models"
)

var (
	ErrNoTransactor      = errors.New("binding has no transactor")
	ErrSignerMismatch    = errors.New("transactor does not sign for account")
	ErrTransactionFailed = errors.New("transaction reverted")
	ErrUnexpectedOutput  = errors.New("unexpected contract output")
)

// Backend is what an ethclient.Client provides: contract calls, transaction
// submission and receipt lookups.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// BatchCaller sends several JSON-RPC requests in one round trip.
// *rpc.Client satisfies it.
type BatchCaller interface {
	BatchCallContext(ctx context.Context, b []rpc.BatchElem) error
}

// Binding talks to a deployed Election contract.
type Binding struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	backend  Backend
	batch    BatchCaller
	opts     *bind.TransactOpts
}

// NewBinding builds a binding for the contract at address. batch and opts may
// be nil: without batch, batched reads fall back to one call per record, and
// without opts the binding is read-only.
func NewBinding(address common.Address, parsed abi.ABI, backend Backend, batch BatchCaller, opts *bind.TransactOpts) *Binding {
	return &Binding{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		batch:    batch,
		opts:     opts,
	}
}

func (b *Binding) Address() common.Address {
	return b.address
}

func (b *Binding) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}
	if b.opts != nil {
		opts.From = b.opts.From
	}
	if err := b.contract.Call(opts, &out, method, args...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("call %s: %w", method, ErrUnexpectedOutput)
	}
	return out, nil
}

func (b *Binding) Admin(ctx context.Context) (common.Address, error) {
	out, err := b.call(ctx, methodGetAdmin)
	if err != nil {
		return common.Address{}, err
	}
	return outputAs[common.Address](methodGetAdmin, out)
}

func (b *Binding) Started(ctx context.Context) (bool, error) {
	return b.callBool(ctx, methodGetStart)
}

func (b *Binding) Ended(ctx context.Context) (bool, error) {
	return b.callBool(ctx, methodGetEnd)
}

func (b *Binding) callBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	out, err := b.call(ctx, method, args...)
	if err != nil {
		return false, err
	}
	return outputAs[bool](method, out)
}

func (b *Binding) TotalVoters(ctx context.Context) (uint64, error) {
	out, err := b.call(ctx, methodGetTotalVoter)
	if err != nil {
		return 0, err
	}

	total, err := outputAs[*big.Int](methodGetTotalVoter, out)
	if err != nil {
		return 0, err
	}
	if total == nil || !total.IsUint64() {
		return 0, fmt.Errorf("call %s: %w: total %v", methodGetTotalVoter, ErrUnexpectedOutput, total)
	}
	return total.Uint64(), nil
}

func (b *Binding) VoterAddress(ctx context.Context, index uint64) (common.Address, error) {
	out, err := b.call(ctx, methodVoters, new(big.Int).SetUint64(index))
	if err != nil {
		return common.Address{}, err
	}
	return outputAs[common.Address](methodVoters, out)
}

func (b *Binding) VoterDetails(ctx context.Context, voter common.Address) (models.VoterRecord, error) {
	out, err := b.call(ctx, methodVoterDetails, voter)
	if err != nil {
		return models.VoterRecord{}, err
	}
	return recordFromOutputs(b.abi.Methods[methodVoterDetails].Outputs, out)
}

func (b *Binding) IsDocumentRegistered(ctx context.Context, documentNumber string) (bool, error) {
	return b.callBool(ctx, methodIsAadharRegistered, documentNumber)
}

// RegisterAsVoter submits registerAsVoter from the account and blocks until
// the transaction is mined.
func (b *Binding) RegisterAsVoter(ctx context.Context, from common.Address, form models.RegistrationForm, gasLimit uint64) (common.Hash, error) {
	if b.opts == nil {
		return common.Hash{}, ErrNoTransactor
	}
	if b.opts.From != from {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrSignerMismatch, from.Hex())
	}

	opts := *b.opts
	opts.Context = ctx
	opts.GasLimit = gasLimit

	tx, err := b.contract.Transact(&opts, methodRegisterAsVoter, form.Name, form.Phone, form.DocumentNumber)
	if err != nil {
		return common.Hash{}, fmt.Errorf("send %s: %w", methodRegisterAsVoter, err)
	}

	receipt, err := bind.WaitMined(ctx, b.backend, tx)
	if err != nil {
		return tx.Hash(), fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash(), fmt.Errorf("%w: %s", ErrTransactionFailed, tx.Hash().Hex())
	}

	return tx.Hash(), nil
}

// voterOutputs receives the voterDetails getter outputs by name, so the
// artifact may list the Voter fields in any order.
type voterOutputs struct {
	VoterAddress common.Address `abi:"voterAddress"`
	Name         string         `abi:"name"`
	Phone        string         `abi:"phone"`
	Aadhar       string         `abi:"aadhar"`
	IsVerified   bool           `abi:"isVerified"`
	HasVoted     bool           `abi:"hasVoted"`
	IsRegistered bool           `abi:"isRegistered"`
}

// recordFromOutputs converts unpacked voterDetails outputs into a
// VoterRecord, matching them to fields by their ABI names.
func recordFromOutputs(args abi.Arguments, out []interface{}) (models.VoterRecord, error) {
	if len(args.NonIndexed()) != 7 || len(out) != len(args.NonIndexed()) {
		return models.VoterRecord{}, fmt.Errorf("%s: %w: %d values for %d outputs", methodVoterDetails, ErrUnexpectedOutput, len(out), len(args.NonIndexed()))
	}

	var v voterOutputs
	if err := args.Copy(&v, out); err != nil {
		return models.VoterRecord{}, fmt.Errorf("%s: %w: %v", methodVoterDetails, ErrUnexpectedOutput, err)
	}

	return models.VoterRecord{
		Address:        v.VoterAddress,
		Name:           v.Name,
		Phone:          v.Phone,
		DocumentNumber: v.Aadhar,
		IsVerified:     v.IsVerified,
		HasVoted:       v.HasVoted,
		IsRegistered:   v.IsRegistered,
	}, nil
}

// outputAs returns the first output of a single-value getter as T.
func outputAs[T any](method string, out []interface{}) (T, error) {
	var zero T
	if len(out) == 0 {
		return zero, fmt.Errorf("%s: %w: no values", method, ErrUnexpectedOutput)
	}
	v, ok := out[0].(T)
	if !ok {
		return zero, fmt.Errorf("%s: %w: got %T, want %T", method, ErrUnexpectedOutput, out[0], zero)
	}
	return v, nil
}
