package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/wishbox/wishbox/internal/greeting/usecase"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/messaging"
	"github.com/wishbox/wishbox/internal/pkg/uid"
	"github.com/wishbox/wishbox/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) ContactBirthdayGreeting(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("greeting.inbound.mq").Start(ctx, "ContactBirthdayGreeting")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: contact birthday greeting", "msg_body", string(body))

	var payload event.ContactBirthdayMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of contact birthday greeting", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeContactBirthday(ctx, usecase.ConsumeContactBirthdayInput{
		ContactID: payload.ContactID,
		Name:      payload.Name,
		Email:     payload.Email,
		Date:      payload.Date,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume contact birthday", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
