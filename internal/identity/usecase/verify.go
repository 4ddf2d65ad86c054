package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type VerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,numeric,len=4"`
}

type VerifyOutput struct {
	Name        string
	Email       string
	AccessToken string
}

// Verify consumes a pending passcode and returns an access token.
//
// A matching code is deleted before the token is issued, so it cannot be
// replayed. A mismatching code leaves the record in place.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	rec, err := s.repoDB.GetOTPByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("No pending code for that email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get passcode by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.clock.Now().After(rec.ExpiresAt) {
		return nil, goerror.NewBusiness("Code has expired, request a new one", goerror.CodeUnauthorized)
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(in.Code)) != 1 {
		return nil, goerror.NewBusiness("Invalid code", goerror.CodeUnauthorized)
	}

	if err := s.repoDB.ConsumeOTP(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to repo consume passcode", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("No account found for that email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOutput{
		Name:        user.Name,
		Email:       user.Email,
		AccessToken: token,
	}, nil
}
