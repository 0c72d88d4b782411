package provider

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"
)

type flakyProbe struct {
	failures int32
	calls    atomic.Int32
}

func (p *flakyProbe) ChainID(ctx context.Context) (*big.Int, error) {
	n := p.calls.Add(1)
	if n <= p.failures {
		return nil, errors.New("connection refused")
	}
	return big.NewInt(1337), nil
}

func TestWaitReadyRetriesUntilAnswer(t *testing.T) {
	probe := &flakyProbe{failures: 3}

	chainID, err := WaitReady(context.Background(), probe, time.Second, time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	if chainID.Int64() != 1337 {
		t.Errorf("expected chain id 1337, got %s", chainID)
	}
	if got := probe.calls.Load(); got != 4 {
		t.Errorf("expected 4 probes, got %d", got)
	}
}

func TestWaitReadyTimesOut(t *testing.T) {
	probe := &flakyProbe{failures: 1 << 30}

	_, err := WaitReady(context.Background(), probe, 20*time.Millisecond, time.Millisecond, nil)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestWaitReadyHonoursCancel(t *testing.T) {
	probe := &flakyProbe{failures: 1 << 30}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitReady(ctx, probe, time.Minute, time.Millisecond, nil)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestConnectWithoutKey(t *testing.T) {
	c := &EthereumConnector{RPCURL: "http://127.0.0.1:1"}

	if _, err := c.Connect(context.Background()); !errors.Is(err, ErrNoKey) {
		t.Fatalf("expected ErrNoKey, got %v", err)
	}
}
