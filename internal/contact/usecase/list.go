package usecase

import (
	"context"
	"log/slog"

	"github.com/wishbox/wishbox/internal/contact/entity"
	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type ListOutput struct {
	Contacts []entity.Contact
}

func (s *Usecase) List(ctx context.Context) (*ListOutput, error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	contacts, err := s.repoDB.ListContacts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list contacts", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListOutput{Contacts: contacts}, nil
}
