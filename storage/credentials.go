// Package storage keeps the portal's signing key on disk.
package storage

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Credentials is the JSON layout of the key file.
type Credentials struct {
	Address    string `json:"address"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

type CredentialStore struct {
	path string
	mu   sync.Mutex
}

func NewCredentialStore(path string) (*CredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %v", err)
	}
	return &CredentialStore{path: path}, nil
}

func (s *CredentialStore) Path() string {
	return s.path
}

// LoadOrGenerate returns the stored key, creating and saving a fresh one when
// the file does not exist yet. The boolean reports whether a key was created.
func (s *CredentialStore) LoadOrGenerate() (*ecdsa.PrivateKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err == nil {
		var creds Credentials
		if err := json.Unmarshal(data, &creds); err != nil {
			return nil, false, fmt.Errorf("failed to parse credentials: %v", err)
		}
		key, err := ParsePrivateKey(creds.PrivateKey)
		if err != nil {
			return nil, false, fmt.Errorf("failed to restore private key: %w", err)
		}
		return key, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("failed to read credentials: %v", err)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate key: %v", err)
	}
	if err := s.save(key); err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func (s *CredentialStore) save(key *ecdsa.PrivateKey) error {
	creds := Credentials{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PublicKey:  hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %v", err)
	}

	// Write to temporary file first
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %v", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save credentials file: %v", err)
	}
	return nil
}

// ParsePrivateKey accepts a hex secp256k1 key with or without the 0x prefix.
func ParsePrivateKey(value string) (*ecdsa.PrivateKey, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "0x")
	if value == "" {
		return nil, fmt.Errorf("empty private key")
	}
	return crypto.HexToECDSA(value)
}
