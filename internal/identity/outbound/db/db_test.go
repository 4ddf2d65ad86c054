package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wishbox/wishbox/internal/identity/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
)

const schema = `
CREATE TABLE users (
	id    BIGINT PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE
);

CREATE TABLE otps (
	email       TEXT PRIMARY KEY,
	otp         TEXT NOT NULL,
	created_for TEXT NOT NULL,
	used        BOOLEAN NOT NULL DEFAULT false,
	sent        BOOLEAN NOT NULL DEFAULT false,
	expires_at  TIMESTAMPTZ NOT NULL
);
`

func setupDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgc, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("wishbox"),
		postgres.WithUsername("wishbox"),
		postgres.WithPassword("wishbox"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	testcontainers.CleanupContainer(t, pgc)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := pgc.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return NewDB(pool, instrument.NewNoop())
}

func TestUserStore(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	user := entity.User{ID: 1, Name: "Jane", Email: "jane@example.com"}
	if err := db.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := db.GetUserByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != user.ID || got.Name != user.Name {
		t.Fatalf("unexpected user %+v", got)
	}

	err = db.CreateUser(ctx, entity.User{ID: 2, Name: "Other", Email: "jane@example.com"})
	if !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}

	_, err = db.GetUserByEmail(ctx, "missing@example.com")
	if !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestIssueOTP(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	expires := time.Now().Add(10 * time.Minute).UTC()
	rec := entity.OTPRecord{
		Email:     "jane@example.com",
		Code:      "4321",
		Purpose:   entity.OTPPurposeSignup,
		ExpiresAt: expires,
	}

	t.Run("commits record after dispatch succeeds", func(t *testing.T) {
		err := db.IssueOTP(ctx, rec, func(context.Context) error { return nil })
		if err != nil {
			t.Fatalf("issue: %v", err)
		}

		got, err := db.GetOTPByEmail(ctx, rec.Email)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Code != "4321" {
			t.Fatalf("unexpected code %s", got.Code)
		}
		if !got.Sent {
			t.Fatal("expected record marked sent")
		}
		if got.Purpose != entity.OTPPurposeSignup {
			t.Fatalf("unexpected purpose %s", got.Purpose)
		}
	})

	t.Run("replaces a pending record for the same email", func(t *testing.T) {
		fresh := rec
		fresh.Code = "8765"
		fresh.Purpose = entity.OTPPurposeLogin

		if err := db.IssueOTP(ctx, fresh, func(context.Context) error { return nil }); err != nil {
			t.Fatalf("issue: %v", err)
		}

		got, err := db.GetOTPByEmail(ctx, rec.Email)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Code != "8765" {
			t.Fatalf("expected replaced code, got %s", got.Code)
		}
		if got.Purpose != entity.OTPPurposeLogin {
			t.Fatalf("expected replaced purpose, got %s", got.Purpose)
		}
	})

	t.Run("rolls back when dispatch fails", func(t *testing.T) {
		failed := entity.OTPRecord{
			Email:     "ghost@example.com",
			Code:      "1111",
			Purpose:   entity.OTPPurposeLogin,
			ExpiresAt: expires,
		}

		sendErr := errors.New("smtp down")
		err := db.IssueOTP(ctx, failed, func(context.Context) error { return sendErr })
		if !errors.Is(err, sendErr) {
			t.Fatalf("expected dispatch error, got %v", err)
		}

		_, err = db.GetOTPByEmail(ctx, failed.Email)
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected rollback to remove record, got %v", err)
		}
	})

	t.Run("consume deletes the record", func(t *testing.T) {
		if err := db.ConsumeOTP(ctx, rec.Email); err != nil {
			t.Fatalf("consume: %v", err)
		}

		_, err := db.GetOTPByEmail(ctx, rec.Email)
		if !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected not found after consume, got %v", err)
		}
	})
}
