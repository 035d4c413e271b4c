package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/lorenagil/storefront-backend/pkg/enums"
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/outbox"
)

type consumer interface {
	Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error
}

// Service pumps order events from the Pub/Sub subscription into the receipt
// consumer. A processing error nacks the message so it redelivers.
type Service struct {
	subscription *gcppubsub.Subscriber
	consumer     consumer
	logg         *logger.Logger
}

func NewService(subscription *gcppubsub.Subscriber, c consumer, logg *logger.Logger) (*Service, error) {
	if subscription == nil {
		return nil, errors.New("orders subscription is required")
	}
	if c == nil {
		return nil, errors.New("receipt consumer is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		subscription: subscription,
		consumer:     c,
		logg:         logg,
	}, nil
}

// Run consumes messages until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if s.process(innerCtx, msg) {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// process reports whether the message should be nacked.
func (s *Service) process(ctx context.Context, msg *gcppubsub.Message) bool {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["event_type"],
	})

	rawType := strings.TrimSpace(msg.Attributes["event_type"])
	eventType, err := enums.ParseOutboxEventType(rawType)
	if err != nil {
		// A malformed attribute never becomes valid on redelivery.
		s.logg.Warn(logCtx, "unknown event type, dropping message")
		return false
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		s.logg.Warn(logCtx, "undecodable envelope, dropping message")
		return false
	}

	if err := s.consumer.Process(logCtx, eventType, envelope); err != nil {
		s.logg.Error(logCtx, "receipt processing failed", err)
		return true
	}
	return false
}
