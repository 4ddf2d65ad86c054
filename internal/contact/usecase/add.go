package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type AddInput struct {
	Name        string    `validate:"required,min=2,max=100,alphaspace"`
	Email       string    `validate:"required,email"`
	DateOfBirth time.Time `validate:"required"`
}

type AddOutput struct {
	ID int64
}

// Add stores a new contact. Contact emails are unique.
func (s *Usecase) Add(ctx context.Context, in AddInput) (*AddOutput, error) {
	ctx, span := s.startSpan(ctx, "Add")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.DateOfBirth.After(s.clock.Now()) {
		return nil, goerror.NewInvalidInput(nil, "date_of_birth", "date of birth cannot be in the future")
	}

	c := entity.Contact{
		ID:          s.uid.Generate(),
		Name:        in.Name,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
	}

	if err := s.repoDB.CreateContact(ctx, c); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("A contact with that email already exists", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo create contact", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AddOutput{ID: c.ID}, nil
}
