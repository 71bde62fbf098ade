package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"maraisroos.co.za/formgate/internal/pkg/logger"
)

func init() {
	// Initialize logger for tests
	_ = logger.Init("error", "json")
}

func TestNewPools(t *testing.T) {
	ctx := context.Background()
	pools, err := NewPools(ctx, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("NewPools() error = %v", err)
	}
	defer pools.Shutdown()

	if pools.General == nil {
		t.Error("General pool is nil")
	}
	if pools.Audit == nil {
		t.Error("Audit pool is nil")
	}
}

func TestPool_Submit(t *testing.T) {
	ctx := context.Background()
	pools, err := NewPools(ctx, PoolConfig{
		GeneralPoolSize: 10,
		AuditPoolSize:   5,
	})
	if err != nil {
		t.Fatalf("NewPools() error = %v", err)
	}
	defer pools.Shutdown()

	var executed atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)

	err = pools.General.Submit(ctx, func(ctx context.Context) {
		executed.Store(true)
		wg.Done()
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	wg.Wait()
	if !executed.Load() {
		t.Error("Task was not executed")
	}
}

func TestPool_Submit_CancelledContext(t *testing.T) {
	ctx := context.Background()
	pools, err := NewPools(ctx, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("NewPools() error = %v", err)
	}
	defer pools.Shutdown()

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancel() // Cancel immediately

	err = pools.General.Submit(cancelledCtx, func(ctx context.Context) {
		t.Error("Task should not execute with cancelled context")
	})
	if err != context.Canceled {
		t.Errorf("Submit() error = %v, want context.Canceled", err)
	}
}

func TestPools_SubmitDetached(t *testing.T) {
	tests := []struct {
		name     string
		poolName string
	}{
		{"audit pool", "audit"},
		{"general pool", "general"},
		{"default fallback", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pools, err := NewPools(ctx, DefaultPoolConfig())
			if err != nil {
				t.Fatalf("NewPools() error = %v", err)
			}
			defer pools.Shutdown()

			var wg sync.WaitGroup
			wg.Add(1)
			var executed atomic.Bool

			err = pools.SubmitDetached(tt.poolName, func(ctx context.Context) {
				executed.Store(true)
				wg.Done()
			})
			if err != nil {
				t.Fatalf("SubmitDetached() error = %v", err)
			}

			wg.Wait()
			if !executed.Load() {
				t.Error("Detached task was not executed")
			}
		})
	}
}

func TestPools_SubmitDetached_AfterShutdown(t *testing.T) {
	ctx := context.Background()
	pools, err := NewPools(ctx, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("NewPools() error = %v", err)
	}

	pools.Shutdown()

	// After shutdown the ants pool rejects submissions; either an error or a
	// skipped task is acceptable, but the task body must not run.
	_ = pools.SubmitDetached("audit", func(ctx context.Context) {
		t.Error("Task should not execute after shutdown")
	})
	time.Sleep(50 * time.Millisecond)
}

func TestPools_Metrics(t *testing.T) {
	ctx := context.Background()
	pools, err := NewPools(ctx, PoolConfig{GeneralPoolSize: 7, AuditPoolSize: 3})
	if err != nil {
		t.Fatalf("NewPools() error = %v", err)
	}
	defer pools.Shutdown()

	m := pools.Metrics()
	general, ok := m["general"].(map[string]int)
	if !ok {
		t.Fatal("metrics missing general pool")
	}
	if general["cap"] != 7 {
		t.Errorf("general cap = %d, want 7", general["cap"])
	}
	audit, ok := m["audit"].(map[string]int)
	if !ok {
		t.Fatal("metrics missing audit pool")
	}
	if audit["cap"] != 3 {
		t.Errorf("audit cap = %d, want 3", audit["cap"])
	}
}
