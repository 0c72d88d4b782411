// Package config reads the portal's settings from flags, the environment and
// an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	LedgerEthereum = "ethereum"
	LedgerMemory   = "memory"
)

type Config struct {
	Port           int
	Ledger         string
	RPCURL         string
	ArtifactPath   string
	PrivateKey     string
	CredentialPath string
	SeedPath       string
	GasLimit       uint64
	SyncTimeout    time.Duration
	ReadyTimeout   time.Duration
	Debug          bool
}

// ParseFlags parses args, falling back to environment variables for every
// flag that was not given. Values from a .env file in the working directory
// never override the real environment.
func ParseFlags(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	fs := flag.NewFlagSet("voter-registration", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", 8080, "HTTP listen port")
	fs.StringVar(&cfg.Ledger, "ledger", LedgerEthereum, "Ledger backend (ethereum or memory)")
	fs.StringVar(&cfg.RPCURL, "rpc", "http://127.0.0.1:7545", "Ethereum JSON-RPC endpoint")
	fs.StringVar(&cfg.ArtifactPath, "artifact", "build/contracts/Election.json", "Election contract artifact")
	fs.StringVar(&cfg.PrivateKey, "key", "", "Hex private key of the acting account (prefer env)")
	fs.StringVar(&cfg.CredentialPath, "credentials", "data/credentials.json", "Credentials file, created when missing")
	fs.StringVar(&cfg.SeedPath, "seed", "data/election.json", "Seed file for the memory ledger")
	fs.Uint64Var(&cfg.GasLimit, "gas-limit", 1000000, "Gas limit for registration transactions")
	fs.DurationVar(&cfg.SyncTimeout, "sync-timeout", 30*time.Second, "Timeout of one synchronization pass")
	fs.DurationVar(&cfg.ReadyTimeout, "ready-timeout", 2*time.Minute, "How long to wait for the provider")
	fs.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	if !set["port"] {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		}
	}
	envString(set, "ledger", "ELECTION_LEDGER", &cfg.Ledger)
	envString(set, "rpc", "ELECTION_RPC_URL", &cfg.RPCURL)
	envString(set, "artifact", "ELECTION_ARTIFACT", &cfg.ArtifactPath)
	envString(set, "key", "ELECTION_PRIVATE_KEY", &cfg.PrivateKey)
	envString(set, "credentials", "ELECTION_CREDENTIALS", &cfg.CredentialPath)
	envString(set, "seed", "ELECTION_SEED", &cfg.SeedPath)
	if !set["debug"] && os.Getenv("ELECTION_DEBUG") != "" {
		debug, err := strconv.ParseBool(os.Getenv("ELECTION_DEBUG"))
		if err != nil {
			return Config{}, errors.New("invalid ELECTION_DEBUG env variable")
		}
		cfg.Debug = debug
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.Ledger != LedgerEthereum && cfg.Ledger != LedgerMemory {
		return Config{}, fmt.Errorf("unknown ledger %q (use %s or %s)", cfg.Ledger, LedgerEthereum, LedgerMemory)
	}
	if cfg.GasLimit == 0 {
		return Config{}, errors.New("gas limit must be positive")
	}
	if cfg.SyncTimeout <= 0 || cfg.ReadyTimeout <= 0 {
		return Config{}, errors.New("timeouts must be positive")
	}

	return cfg, nil
}

func envString(set map[string]bool, flagName, envName string, dst *string) {
	if set[flagName] {
		return
	}
	if v := os.Getenv(envName); v != "" {
		*dst = v
	}
}
