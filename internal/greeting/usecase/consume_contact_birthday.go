package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/wishbox/wishbox/internal/pkg/idempotency"
	"github.com/wishbox/wishbox/internal/pkg/mail"
)

const (
	defaultMailTimeout = 15 * time.Second

	// dedupTTL keeps the idempotency marker alive until well past the
	// birthday, so rerunning the scan on the same day never re-sends.
	dedupTTL = 48 * time.Hour
)

type ConsumeContactBirthdayInput struct {
	ContactID int64  `validate:"required,gt=0"`
	Name      string `validate:"required"`
	Email     string `validate:"required,email"`
	Date      string `validate:"required,datetime=2006-01-02"`
}

func (s *Usecase) ConsumeContactBirthday(ctx context.Context, in ConsumeContactBirthdayInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeContactBirthday")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	key := fmt.Sprintf("greeting:%d:%s", in.ContactID, in.Date)

	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		return s.sendGreeting(ctx, in)
	}, idempotency.WithStateTTL(dedupTTL))

	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "birthday greeting already handled", "contact_id", in.ContactID, "date", in.Date)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to send birthday greeting", "contact_id", in.ContactID, "error", err)
		return err
	}

	return nil
}

func (s *Usecase) sendGreeting(ctx context.Context, in ConsumeContactBirthdayInput) error {
	subject, body, err := s.renderBirthdayEmail(in.Name)
	if err != nil {
		return err
	}

	timeout := s.cfg.GetSecond("mail.send_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultMailTimeout
	}

	b := retry.NewFibonacci(500 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(3, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.repoMail.Send(sendCtx, mail.Message{
			To:       []string{in.Email},
			Subject:  subject,
			HTMLBody: body,
		}); err != nil {
			slog.WarnContext(ctx, "birthday greeting send attempt failed", "contact_id", in.ContactID, "error", err)
			return retry.RetryableError(err)
		}

		return nil
	})
}
