package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/wishbox/wishbox/internal/identity/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type SignupInput struct {
	Name  string `validate:"required,min=2,max=100,alphaspace"`
	Email string `validate:"required,email"`
}

// Signup creates an account and emails a confirmation passcode.
func (s *Usecase) Signup(ctx context.Context, in SignupInput) error {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user := entity.User{
		ID:    s.uid.Generate(),
		Name:  in.Name,
		Email: in.Email,
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return s.issuePasscode(ctx, user, entity.OTPPurposeSignup)
}
