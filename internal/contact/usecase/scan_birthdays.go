package usecase

import (
	"context"
	"log/slog"

	"github.com/wishbox/wishbox/internal/pkg/goerror"
)

type ScanBirthdaysOutput struct {
	Matched   int
	Published int
}

// ScanBirthdays finds contacts whose birthday is today and publishes one
// greeting event per contact. It is driven by the scheduler, not by HTTP.
//
// Publishing is best effort per contact: one failed publish is logged and
// skipped so the rest of the batch still goes out. The greeting consumer
// deduplicates per contact and day, so a rerun of the scan is safe.
func (s *Usecase) ScanBirthdays(ctx context.Context) (*ScanBirthdaysOutput, error) {
	ctx, span := s.startSpan(ctx, "ScanBirthdays")
	defer span.End()

	today := s.clock.Now()

	contacts, err := s.repoDB.ListBirthdays(ctx, today)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list birthdays", "error", err)
		return nil, goerror.NewServer(err)
	}

	published := 0
	for _, c := range contacts {
		if err := s.repoMessaging.PublishContactBirthday(ctx, ContactBirthdayEvent{
			ContactID: c.ID,
			Name:      c.Name,
			Email:     c.Email,
			Date:      today,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to publish contact birthday", "contact_id", c.ID, "error", err)
			continue
		}
		published++
	}

	return &ScanBirthdaysOutput{
		Matched:   len(contacts),
		Published: published,
	}, nil
}
