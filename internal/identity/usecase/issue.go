package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/wishbox/wishbox/internal/identity/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
	"github.com/wishbox/wishbox/internal/pkg/mail"
)

const (
	defaultOTPTTL      = 10 * time.Minute
	defaultMailTimeout = 15 * time.Second
)

// issuePasscode generates a fresh passcode for the user and hands it to the
// repository together with the mail dispatch step, so the stored record and
// the delivered email stay consistent: a stored record implies the send
// succeeded, and a failed send leaves nothing behind.
func (s *Usecase) issuePasscode(ctx context.Context, user entity.User, purpose entity.OTPPurpose) error {
	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "email", user.Email, "error", err)
		return goerror.NewServer(err)
	}

	ttl := s.cfg.GetMinute("modules.identity.otp_ttl_minutes")
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}

	rec := entity.OTPRecord{
		Email:     user.Email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.clock.Now().Add(ttl),
	}

	subject, body, err := s.renderPasscodeEmail(user.Name, purpose, code, ttl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render passcode email", "email", user.Email, "error", err)
		return goerror.NewServer(err)
	}

	timeout := s.cfg.GetSecond("mail.send_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultMailTimeout
	}

	dispatch := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return s.repoMail.Send(ctx, mail.Message{
			To:       []string{user.Email},
			Subject:  subject,
			HTMLBody: body,
		})
	}

	if err := s.repoDB.IssueOTP(ctx, rec, dispatch); err != nil {
		slog.ErrorContext(ctx, "failed to issue passcode", "email", user.Email, "purpose", purpose.String(), "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
