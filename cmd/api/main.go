package main

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"

	"voter-registration/api"
	"voter-registration/config"
	"voter-registration/provider"
	"voter-registration/registry"
	"voter-registration/service"
	"voter-registration/storage"
)

func main() {
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	key, err := loadKey(cfg, logger)
	if err != nil {
		return err
	}

	connector, admin, err := newConnector(cfg, key, logger)
	if err != nil {
		return err
	}

	svc := service.NewRegistrationService(connector, service.Options{
		GasLimit:    cfg.GasLimit,
		SyncTimeout: cfg.SyncTimeout,
		Logger:      logger,
	})
	defer svc.Close()

	worker := service.NewSyncWorker(svc.Sync, logger)
	worker.Start()
	defer worker.Stop()

	// Bootstrap must finish before svc.Close runs, so it is waited on after
	// stop cancels it.
	var bootstrap sync.WaitGroup
	defer bootstrap.Wait()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The page shows the loading placeholder until this finishes.
	bootstrap.Add(1)
	go func() {
		defer bootstrap.Done()
		if err := svc.Bootstrap(ctx); err != nil {
			return
		}
		logger.Info("portal ready", "phase", svc.State().Phase())
	}()

	handler := api.NewServer(svc, worker, logger)
	if admin != nil {
		handler.EnableAdmin(admin)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "ledger", cfg.Ledger)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server shutdown completed")
	return nil
}

func loadKey(cfg config.Config, logger *slog.Logger) (*ecdsa.PrivateKey, error) {
	if cfg.PrivateKey != "" {
		key, err := storage.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		return key, nil
	}

	store, err := storage.NewCredentialStore(cfg.CredentialPath)
	if err != nil {
		return nil, err
	}
	key, created, err := store.LoadOrGenerate()
	if err != nil {
		return nil, err
	}

	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	if created {
		logger.Warn("generated new account, fund it before registering", "account", address, "path", store.Path())
	} else {
		logger.Info("loaded account", "account", address, "path", store.Path())
	}
	return key, nil
}

// newConnector returns the election admin surface only for the memory
// ledger. Against a real node the admin acts through its own wallet.
func newConnector(cfg config.Config, key *ecdsa.PrivateKey, logger *slog.Logger) (service.Connector, api.ElectionAdmin, error) {
	account := crypto.PubkeyToAddress(key.PublicKey)

	switch cfg.Ledger {
	case config.LedgerMemory:
		ledger := registry.NewMemoryLedger(account)
		if err := ledger.LoadSeed(cfg.SeedPath); err != nil {
			return nil, nil, fmt.Errorf("load seed: %w", err)
		}
		return &registry.Connector{Ledger: ledger, Account: account}, ledger, nil
	default:
		return &provider.EthereumConnector{
			RPCURL:       cfg.RPCURL,
			ArtifactPath: cfg.ArtifactPath,
			Key:          key,
			ReadyTimeout: cfg.ReadyTimeout,
			Logger:       logger,
		}, nil, nil
	}
}
