package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type DetailInput struct {
	ID int64 `validate:"required,gt=0"`
}

type DetailOutput struct {
	Contact entity.Contact
}

func (s *Usecase) Detail(ctx context.Context, in DetailInput) (*DetailOutput, error) {
	ctx, span := s.startSpan(ctx, "Detail")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	c, err := s.repoDB.GetContactByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Contact not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get contact by id", "contact_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &DetailOutput{Contact: *c}, nil
}
