package election

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Artifact is the build output truffle writes for a contract (Election.json).
type Artifact struct {
	ContractName string                `json:"contractName"`
	ABI          json.RawMessage       `json:"abi"`
	Networks     map[string]Deployment `json:"networks"`
}

type Deployment struct {
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash"`
}

func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	return ParseArtifact(data)
}

func ParseArtifact(data []byte) (*Artifact, error) {
	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}
	return &artifact, nil
}

// ParsedABI returns the artifact's ABI, falling back to ElectionABI.
func (a *Artifact) ParsedABI() (abi.ABI, error) {
	raw := bytes.TrimSpace(a.ABI)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return abi.JSON(strings.NewReader(ElectionABI))
	}

	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse contract ABI: %w", err)
	}
	return parsed, nil
}

// Address resolves the deployed contract address for a network id. The
// second result is false when the contract has no deployment there, in which
// case the zero address is returned.
func (a *Artifact) Address(networkID string) (common.Address, bool) {
	deployment, ok := a.Networks[networkID]
	if !ok || !common.IsHexAddress(deployment.Address) {
		return common.Address{}, false
	}
	return common.HexToAddress(deployment.Address), true
}
