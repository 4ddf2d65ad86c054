package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wishbox/wishbox/internal/identity/entity"
	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/jwt"
	"github.com/wishbox/wishbox/internal/pkg/mail"
	"github.com/wishbox/wishbox/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  identity:
    otp_ttl_minutes: 10
mail:
  send_timeout_seconds: 5
`

type fakeRepoDB struct {
	users map[string]entity.User
	otps  map[string]entity.OTPRecord
}

func newFakeRepoDB() *fakeRepoDB {
	return &fakeRepoDB{
		users: map[string]entity.User{},
		otps:  map[string]entity.OTPRecord{},
	}
}

func (f *fakeRepoDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &u, nil
}

func (f *fakeRepoDB) CreateUser(_ context.Context, user entity.User) error {
	if _, ok := f.users[user.Email]; ok {
		return goerror.ErrConflict
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeRepoDB) IssueOTP(ctx context.Context, rec entity.OTPRecord, dispatch func(ctx context.Context) error) error {
	if err := dispatch(ctx); err != nil {
		return err
	}
	rec.Sent = true
	f.otps[rec.Email] = rec
	return nil
}

func (f *fakeRepoDB) GetOTPByEmail(_ context.Context, email string) (*entity.OTPRecord, error) {
	rec, ok := f.otps[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeRepoDB) ConsumeOTP(_ context.Context, email string) error {
	delete(f.otps, email)
	return nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fixedOTP struct{ code string }

func (f fixedOTP) Generate() (string, error) { return f.code, nil }

type seqID struct{ next int64 }

func (s *seqID) Generate() int64 {
	s.next++
	return s.next
}

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type stubJWT struct{}

func (stubJWT) Generate(uid int64, email string) (string, error) { return "token-" + email, nil }
func (stubJWT) Verify(string) (jwt.Claims, error)                { return jwt.Claims{}, nil }

type fixture struct {
	uc     *Usecase
	repo   *fakeRepoDB
	mailer *fakeMailer
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("new config: %v", err)
	}

	repo := newFakeRepoDB()
	mailer := &fakeMailer{}
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	uc := New(Dependency{
		RepoDB:     repo,
		RepoMail:   mailer,
		Validator:  v,
		Config:     cfg,
		OTP:        fixedOTP{code: "4321"},
		UID:        &seqID{},
		Clock:      fixedClock{now: now},
		JWT:        stubJWT{},
		Instrument: instrument.NewNoop(),
	})

	return &fixture{uc: uc, repo: repo, mailer: mailer, now: now}
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if ge.Code() != want {
		t.Fatalf("expected code %v, got %v (%v)", want, ge.Code(), err)
	}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and emails passcode", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.Signup(ctx, SignupInput{Name: "Jane Doe", Email: "Jane@Example.com"})
		if err != nil {
			t.Fatalf("signup: %v", err)
		}

		if _, ok := f.repo.users["jane@example.com"]; !ok {
			t.Fatal("expected user stored under normalized email")
		}

		rec, ok := f.repo.otps["jane@example.com"]
		if !ok {
			t.Fatal("expected passcode record stored")
		}
		if rec.Code != "4321" {
			t.Fatalf("expected code 4321, got %s", rec.Code)
		}
		if !rec.Sent {
			t.Fatal("expected record marked sent")
		}
		if rec.Purpose != entity.OTPPurposeSignup {
			t.Fatalf("expected signup purpose, got %s", rec.Purpose)
		}
		if want := f.now.Add(10 * time.Minute); !rec.ExpiresAt.Equal(want) {
			t.Fatalf("expected expiry %v, got %v", want, rec.ExpiresAt)
		}

		if len(f.mailer.sent) != 1 {
			t.Fatalf("expected 1 email, got %d", len(f.mailer.sent))
		}
		if got := f.mailer.sent[0].To[0]; got != "jane@example.com" {
			t.Fatalf("expected email to jane@example.com, got %s", got)
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		f := newFixture(t)
		f.repo.users["jane@example.com"] = entity.User{ID: 1, Name: "Jane", Email: "jane@example.com"}

		err := f.uc.Signup(ctx, SignupInput{Name: "Jane Doe", Email: "jane@example.com"})
		assertCode(t, err, goerror.CodeConflict)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.Signup(ctx, SignupInput{Name: "Jane Doe", Email: "not-an-email"})
		if err == nil {
			t.Fatal("expected validation error")
		}
		if len(f.mailer.sent) != 0 {
			t.Fatal("expected no email sent")
		}
	})

	t.Run("stores nothing when the email fails", func(t *testing.T) {
		f := newFixture(t)
		f.mailer.err = errors.New("smtp down")

		err := f.uc.Signup(ctx, SignupInput{Name: "Jane Doe", Email: "jane@example.com"})
		if err == nil {
			t.Fatal("expected error when mail delivery fails")
		}
		if _, ok := f.repo.otps["jane@example.com"]; ok {
			t.Fatal("expected no passcode record after failed delivery")
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("emails passcode to existing account", func(t *testing.T) {
		f := newFixture(t)
		f.repo.users["jane@example.com"] = entity.User{ID: 1, Name: "Jane", Email: "jane@example.com"}

		if err := f.uc.Login(ctx, LoginInput{Email: "jane@example.com"}); err != nil {
			t.Fatalf("login: %v", err)
		}

		rec, ok := f.repo.otps["jane@example.com"]
		if !ok {
			t.Fatal("expected passcode record stored")
		}
		if rec.Purpose != entity.OTPPurposeLogin {
			t.Fatalf("expected login purpose, got %s", rec.Purpose)
		}
		if len(f.mailer.sent) != 1 {
			t.Fatalf("expected 1 email, got %d", len(f.mailer.sent))
		}
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.Login(ctx, LoginInput{Email: "ghost@example.com"})
		assertCode(t, err, goerror.CodeNotFound)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	seed := func(f *fixture) {
		f.repo.users["jane@example.com"] = entity.User{ID: 7, Name: "Jane", Email: "jane@example.com"}
		f.repo.otps["jane@example.com"] = entity.OTPRecord{
			Email:     "jane@example.com",
			Code:      "4321",
			Purpose:   entity.OTPPurposeLogin,
			Sent:      true,
			ExpiresAt: f.now.Add(10 * time.Minute),
		}
	}

	t.Run("consumes code and returns token", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		out, err := f.uc.Verify(ctx, VerifyInput{Email: "jane@example.com", Code: "4321"})
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if out.AccessToken != "token-jane@example.com" {
			t.Fatalf("unexpected token %s", out.AccessToken)
		}
		if out.Name != "Jane" {
			t.Fatalf("unexpected name %s", out.Name)
		}

		if _, ok := f.repo.otps["jane@example.com"]; ok {
			t.Fatal("expected passcode consumed")
		}

		// a second attempt with the same code must fail
		_, err = f.uc.Verify(ctx, VerifyInput{Email: "jane@example.com", Code: "4321"})
		assertCode(t, err, goerror.CodeNotFound)
	})

	t.Run("wrong code keeps the record", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		_, err := f.uc.Verify(ctx, VerifyInput{Email: "jane@example.com", Code: "9999"})
		assertCode(t, err, goerror.CodeUnauthorized)

		if _, ok := f.repo.otps["jane@example.com"]; !ok {
			t.Fatal("expected record to survive a failed attempt")
		}
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		f := newFixture(t)
		seed(f)
		rec := f.repo.otps["jane@example.com"]
		rec.ExpiresAt = f.now.Add(-time.Minute)
		f.repo.otps["jane@example.com"] = rec

		_, err := f.uc.Verify(ctx, VerifyInput{Email: "jane@example.com", Code: "4321"})
		assertCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("no pending code", func(t *testing.T) {
		f := newFixture(t)
		f.repo.users["jane@example.com"] = entity.User{ID: 7, Name: "Jane", Email: "jane@example.com"}

		_, err := f.uc.Verify(ctx, VerifyInput{Email: "jane@example.com", Code: "4321"})
		assertCode(t, err, goerror.CodeNotFound)
	})
}
