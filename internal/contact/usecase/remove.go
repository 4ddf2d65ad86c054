package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type RemoveInput struct {
	ID int64 `validate:"required,gt=0"`
}

func (s *Usecase) Remove(ctx context.Context, in RemoveInput) error {
	ctx, span := s.startSpan(ctx, "Remove")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	err := s.repoDB.DeleteContact(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Contact not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete contact", "contact_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
