package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wishbox/wishbox/internal/contact/usecase"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/messaging"
	"github.com/wishbox/wishbox/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishContactBirthday(ctx context.Context, msg usecase.ContactBirthdayEvent) error {
	ctx, span := m.ins.Tracer("contact.outbound.mq").Start(ctx, "PublishContactBirthday")
	defer span.End()

	body, err := json.Marshal(event.ContactBirthdayMessage{
		ContactID: msg.ContactID,
		Name:      msg.Name,
		Email:     msg.Email,
		Date:      msg.Date.Format(time.DateOnly),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.ContactBirthdayDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
