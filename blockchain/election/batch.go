package election

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"voter-registration/models"
)

// maxBatchSize caps the number of eth_call requests per JSON-RPC batch.
const maxBatchSize = 100

// VoterAddresses reads voters(0..count-1) with batched eth_call requests.
func (b *Binding) VoterAddresses(ctx context.Context, count uint64) ([]common.Address, error) {
	if b.batch == nil {
		addresses := make([]common.Address, 0, count)
		for i := uint64(0); i < count; i++ {
			addr, err := b.VoterAddress(ctx, i)
			if err != nil {
				return nil, err
			}
			addresses = append(addresses, addr)
		}
		return addresses, nil
	}

	calldata := make([][]byte, count)
	for i := uint64(0); i < count; i++ {
		data, err := b.abi.Pack(methodVoters, new(big.Int).SetUint64(i))
		if err != nil {
			return nil, fmt.Errorf("pack %s(%d): %w", methodVoters, i, err)
		}
		calldata[i] = data
	}

	outputs, err := b.batchCall(ctx, methodVoters, calldata)
	if err != nil {
		return nil, err
	}

	addresses := make([]common.Address, len(outputs))
	for i, out := range outputs {
		addr, err := outputAs[common.Address](methodVoters, out)
		if err != nil {
			return nil, fmt.Errorf("voter %d: %w", i, err)
		}
		addresses[i] = addr
	}
	return addresses, nil
}

// VoterDetailsBatch reads voterDetails for every address, keeping order.
func (b *Binding) VoterDetailsBatch(ctx context.Context, voters []common.Address) ([]models.VoterRecord, error) {
	if b.batch == nil {
		records := make([]models.VoterRecord, 0, len(voters))
		for _, voter := range voters {
			record, err := b.VoterDetails(ctx, voter)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		return records, nil
	}

	calldata := make([][]byte, len(voters))
	for i, voter := range voters {
		data, err := b.abi.Pack(methodVoterDetails, voter)
		if err != nil {
			return nil, fmt.Errorf("pack %s(%s): %w", methodVoterDetails, voter.Hex(), err)
		}
		calldata[i] = data
	}

	outputs, err := b.batchCall(ctx, methodVoterDetails, calldata)
	if err != nil {
		return nil, err
	}

	records := make([]models.VoterRecord, len(outputs))
	for i, out := range outputs {
		record, err := recordFromOutputs(b.abi.Methods[methodVoterDetails].Outputs, out)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records[i] = record
	}
	return records, nil
}

func (b *Binding) batchCall(ctx context.Context, method string, calldata [][]byte) ([][]interface{}, error) {
	outputs := make([][]interface{}, 0, len(calldata))

	for start := 0; start < len(calldata); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(calldata) {
			end = len(calldata)
		}

		elems := make([]rpc.BatchElem, end-start)
		for i := range elems {
			elems[i] = rpc.BatchElem{
				Method: "eth_call",
				Args:   []interface{}{b.callArg(calldata[start+i]), "latest"},
				Result: new(hexutil.Bytes),
			}
		}

		if err := b.batch.BatchCallContext(ctx, elems); err != nil {
			return nil, fmt.Errorf("batch %s: %w", method, err)
		}

		for i, elem := range elems {
			if elem.Error != nil {
				return nil, fmt.Errorf("batch %s[%d]: %w", method, start+i, elem.Error)
			}
			raw := *elem.Result.(*hexutil.Bytes)
			out, err := b.abi.Unpack(method, raw)
			if err != nil {
				return nil, fmt.Errorf("unpack %s[%d]: %w", method, start+i, err)
			}
			outputs = append(outputs, out)
		}
	}

	return outputs, nil
}

func (b *Binding) callArg(data []byte) map[string]interface{} {
	arg := map[string]interface{}{
		"to":   b.address,
		"data": hexutil.Bytes(data),
	}
	if b.opts != nil {
		arg["from"] = b.opts.From
	}
	return arg
}
