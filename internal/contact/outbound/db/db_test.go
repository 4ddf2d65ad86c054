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
	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
)

const schema = `
CREATE TABLE friend (
	id    BIGINT PRIMARY KEY,
	name  TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	dob   DATE NOT NULL
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

func TestContactStore(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	c := entity.Contact{ID: 1, Name: "John", Email: "john@example.com", DateOfBirth: dob}

	if err := db.CreateContact(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := db.CreateContact(ctx, entity.Contact{ID: 2, Name: "Dup", Email: "john@example.com", DateOfBirth: dob})
	if !errors.Is(err, goerror.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}

	got, err := db.GetContactByID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "John" || !got.DateOfBirth.Equal(dob) {
		t.Fatalf("unexpected contact %+v", got)
	}

	list, err := db.ListContacts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(list))
	}

	if err := db.DeleteContact(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteContact(ctx, 1); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := db.GetContactByID(ctx, 1); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestListBirthdays(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	seed := []entity.Contact{
		{ID: 1, Name: "Match A", Email: "a@example.com", DateOfBirth: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "Match B", Email: "b@example.com", DateOfBirth: time.Date(1971, 5, 20, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "Other Month", Email: "c@example.com", DateOfBirth: time.Date(1990, 6, 20, 0, 0, 0, 0, time.UTC)},
		{ID: 4, Name: "Other Day", Email: "d@example.com", DateOfBirth: time.Date(1990, 5, 21, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range seed {
		if err := db.CreateContact(ctx, c); err != nil {
			t.Fatalf("create %s: %v", c.Email, err)
		}
	}

	got, err := db.ListBirthdays(ctx, time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("list birthdays: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, c := range got {
		if c.DateOfBirth.Month() != time.May || c.DateOfBirth.Day() != 20 {
			t.Fatalf("unexpected match %+v", c)
		}
	}
}
