package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/wishbox/wishbox/internal/identity/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type LoginInput struct {
	Email string `validate:"required,email"`
}

// Login emails a sign-in passcode to an existing account.
func (s *Usecase) Login(ctx context.Context, in LoginInput) error {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("No account found for that email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return s.issuePasscode(ctx, *user, entity.OTPPurposeLogin)
}
