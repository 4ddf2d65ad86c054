package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/wishbox/wishbox/internal/greeting/usecase"
	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/goroutine"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/messaging"
	"github.com/wishbox/wishbox/internal/pkg/uid"
	"github.com/wishbox/wishbox/internal/shared/event"
)

type uc interface {
	ConsumeContactBirthday(ctx context.Context, in usecase.ConsumeContactBirthdayInput) error
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.greeting.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubusb
		handler            messaging.Handler
	}{
		{
			name:               event.ContactBirthdayConsumerGreeting,
			topic:              event.ContactBirthdayDestination,
			nsqConsumerName:    event.ContactBirthdayConsumerGreeting,
			natsConsumerName:   event.ContactBirthdayConsumerGreeting,
			kafkaConsumerName:  event.ContactBirthdayConsumerGreeting,
			pubsubConsumerName: event.ContactBirthdayConsumerGreeting,
			handler:            mqHandler.ContactBirthdayGreeting,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
