package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/idempotency"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/mail"
	"github.com/wishbox/wishbox/internal/pkg/validator"
)

const testConfigYAML = `
mail:
  send_timeout_seconds: 2
modules:
  greeting:
    sender_name: Wishbox
`

type fakeMailer struct {
	sent     []mail.Message
	failures int
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeIdempotency struct {
	states map[string]idempotency.State
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{states: map[string]idempotency.State{}}
}

func (f *fakeIdempotency) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	state, ok := f.states[key]
	if !ok {
		f.states[key] = idempotency.StateInProgress
		return idempotency.StateNone, nil
	}
	return state, nil
}

func (f *fakeIdempotency) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	f.states[key] = idempotency.StateCompleted
	return nil
}

func (f *fakeIdempotency) MarkFailed(_ context.Context, key string, _ time.Duration) error {
	f.states[key] = idempotency.StateFailed
	return nil
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	state, err := f.Acquire(ctx, key, time.Minute)
	if err != nil {
		return err
	}
	switch state {
	case idempotency.StateInProgress:
		return idempotency.ErrAlreadyInProgress
	case idempotency.StateCompleted:
		return idempotency.ErrAlreadyCompleted
	case idempotency.StateFailed:
		return idempotency.ErrAlreadyFailed
	}
	if err := fn(ctx); err != nil {
		if markErr := f.MarkFailed(ctx, key, time.Minute); markErr != nil {
			return markErr
		}
		return err
	}
	return f.MarkCompleted(ctx, key, time.Minute)
}

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func newFixture(t *testing.T, mailer *fakeMailer, idemp idempotency.Idempotency) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}

	return New(Dependency{
		RepoMail:    mailer,
		Idempotency: idemp,
		Validator:   v,
		Config:      cfg,
		Clock:       fixedClock{now: time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)},
		Instrument:  instrument.NewNoop(),
	})
}

func TestConsumeContactBirthday(t *testing.T) {
	ctx := context.Background()

	input := ConsumeContactBirthdayInput{
		ContactID: 7,
		Name:      "Jane",
		Email:     "jane@example.com",
		Date:      "2025-05-20",
	}

	t.Run("sends one greeting email", func(t *testing.T) {
		mailer := &fakeMailer{}
		uc := newFixture(t, mailer, newFakeIdempotency())

		if err := uc.ConsumeContactBirthday(ctx, input); err != nil {
			t.Fatalf("consume: %v", err)
		}

		if len(mailer.sent) != 1 {
			t.Fatalf("expected 1 email, got %d", len(mailer.sent))
		}
		msg := mailer.sent[0]
		if msg.To[0] != "jane@example.com" {
			t.Fatalf("unexpected recipient %s", msg.To[0])
		}
		if !strings.Contains(msg.Subject, "Jane") {
			t.Fatalf("expected subject to greet by name, got %q", msg.Subject)
		}
		if !strings.Contains(msg.HTMLBody, "Jane") {
			t.Fatal("expected body to greet by name")
		}
	})

	t.Run("same contact and day is delivered once", func(t *testing.T) {
		mailer := &fakeMailer{}
		uc := newFixture(t, mailer, newFakeIdempotency())

		if err := uc.ConsumeContactBirthday(ctx, input); err != nil {
			t.Fatalf("first consume: %v", err)
		}
		if err := uc.ConsumeContactBirthday(ctx, input); err != nil {
			t.Fatalf("second consume: %v", err)
		}

		if len(mailer.sent) != 1 {
			t.Fatalf("expected 1 email after duplicate delivery, got %d", len(mailer.sent))
		}
	})

	t.Run("next year sends again", func(t *testing.T) {
		mailer := &fakeMailer{}
		uc := newFixture(t, mailer, newFakeIdempotency())

		if err := uc.ConsumeContactBirthday(ctx, input); err != nil {
			t.Fatalf("first consume: %v", err)
		}

		nextYear := input
		nextYear.Date = "2026-05-20"
		if err := uc.ConsumeContactBirthday(ctx, nextYear); err != nil {
			t.Fatalf("next year consume: %v", err)
		}

		if len(mailer.sent) != 2 {
			t.Fatalf("expected 2 emails, got %d", len(mailer.sent))
		}
	})

	t.Run("transient mail failure is retried", func(t *testing.T) {
		mailer := &fakeMailer{failures: 1}
		uc := newFixture(t, mailer, newFakeIdempotency())

		if err := uc.ConsumeContactBirthday(ctx, input); err != nil {
			t.Fatalf("consume: %v", err)
		}

		if len(mailer.sent) != 1 {
			t.Fatalf("expected 1 email after retry, got %d", len(mailer.sent))
		}
	})

	t.Run("invalid payload is dropped", func(t *testing.T) {
		mailer := &fakeMailer{}
		uc := newFixture(t, mailer, newFakeIdempotency())

		bad := input
		bad.Email = "not-an-email"
		if err := uc.ConsumeContactBirthday(ctx, bad); err != nil {
			t.Fatalf("expected nil for invalid payload, got %v", err)
		}

		if len(mailer.sent) != 0 {
			t.Fatal("expected no email for invalid payload")
		}
	})
}
