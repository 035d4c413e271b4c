package receipts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	"github.com/lorenagil/storefront-backend/pkg/logger"
	"github.com/lorenagil/storefront-backend/pkg/outbox"
	"github.com/lorenagil/storefront-backend/pkg/outbox/payloads"
)

const receiptConsumerName = "receipt-worker"

type receiptWriter interface {
	Write(ctx context.Context, event payloads.OrderPlacedEvent) error
}

type idempotencyChecker interface {
	CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error)
	Delete(ctx context.Context, consumer string, eventID uuid.UUID) error
}

// Consumer archives a receipt for every order_placed event, guarded by the
// Redis idempotency mark so queue redeliveries archive at most once.
type Consumer struct {
	archive receiptWriter
	manager idempotencyChecker
	logg    *logger.Logger
}

// NewConsumer builds the receipt consumer.
func NewConsumer(archive receiptWriter, manager idempotencyChecker, logg *logger.Logger) (*Consumer, error) {
	if archive == nil {
		return nil, fmt.Errorf("receipt archive required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{archive: archive, manager: manager, logg: logg}, nil
}

// Process archives the receipt carried by the envelope. Events other than
// order_placed are acknowledged without work.
func (c *Consumer) Process(ctx context.Context, eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) error {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_type": eventType,
	})

	if eventType != enums.EventOrderPlaced {
		c.logg.Info(logCtx, "event not handled by receipt consumer")
		return nil
	}

	if envelope.EventID == "" {
		return fmt.Errorf("event id missing")
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		return fmt.Errorf("parse event id: %w", err)
	}

	already, err := c.manager.CheckAndMarkProcessed(ctx, receiptConsumerName, eventID)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return nil
	}

	var event payloads.OrderPlacedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode order payload", err)
		_ = c.manager.Delete(ctx, receiptConsumerName, eventID)
		return fmt.Errorf("decode payload: %w", err)
	}

	if err := c.archive.Write(ctx, event); err != nil {
		c.logg.Error(logCtx, "failed to archive receipt", err)
		_ = c.manager.Delete(ctx, receiptConsumerName, eventID)
		return err
	}

	c.logg.Info(c.logg.WithCustomerEmail(logCtx, event.CustomerEmail), "receipt archived")
	return nil
}
