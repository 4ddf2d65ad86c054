package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTracker(t *testing.T) *StateTracker {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	rdc, err := tcredis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(wait.ForListeningPort(nat.Port("6379/tcp"))),
	)
	testcontainers.CleanupContainer(t, rdc)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}

	url, err := rdc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	opt, err := goredis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}

	client := goredis.NewClient(opt)
	t.Cleanup(func() { client.Close() })

	return New(client)
}

func TestExec(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	t.Run("runs once and reports completed after", func(t *testing.T) {
		calls := 0
		fn := func(context.Context) error {
			calls++
			return nil
		}

		if err := tracker.Exec(ctx, "greeting:1:2025-05-20", fn); err != nil {
			t.Fatalf("first exec: %v", err)
		}

		err := tracker.Exec(ctx, "greeting:1:2025-05-20", fn)
		if !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
		}
		if calls != 1 {
			t.Fatalf("expected fn to run once, ran %d times", calls)
		}
	})

	t.Run("different keys run independently", func(t *testing.T) {
		calls := 0
		fn := func(context.Context) error {
			calls++
			return nil
		}

		if err := tracker.Exec(ctx, "greeting:2:2025-05-20", fn); err != nil {
			t.Fatalf("exec: %v", err)
		}
		if err := tracker.Exec(ctx, "greeting:2:2026-05-20", fn); err != nil {
			t.Fatalf("exec: %v", err)
		}
		if calls != 2 {
			t.Fatalf("expected 2 runs, got %d", calls)
		}
	})

	t.Run("failure is remembered until the state expires", func(t *testing.T) {
		fnErr := errors.New("boom")
		err := tracker.Exec(ctx, "greeting:3:2025-05-20", func(context.Context) error { return fnErr })
		if !errors.Is(err, fnErr) {
			t.Fatalf("expected fn error, got %v", err)
		}

		err = tracker.Exec(ctx, "greeting:3:2025-05-20", func(context.Context) error { return nil })
		if !errors.Is(err, ErrAlreadyFailed) {
			t.Fatalf("expected ErrAlreadyFailed, got %v", err)
		}
	})

	t.Run("state ttl expires and allows a rerun", func(t *testing.T) {
		calls := 0
		fn := func(context.Context) error {
			calls++
			return nil
		}

		if err := tracker.Exec(ctx, "greeting:4:2025-05-20", fn, WithStateTTL(time.Second)); err != nil {
			t.Fatalf("first exec: %v", err)
		}

		time.Sleep(1500 * time.Millisecond)

		if err := tracker.Exec(ctx, "greeting:4:2025-05-20", fn, WithStateTTL(time.Second)); err != nil {
			t.Fatalf("exec after ttl: %v", err)
		}
		if calls != 2 {
			t.Fatalf("expected rerun after ttl, got %d calls", calls)
		}
	})
}
