package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lorenagil/storefront-backend/internal/cart"
	"github.com/lorenagil/storefront-backend/pkg/db/models"
	"github.com/lorenagil/storefront-backend/pkg/enums"
	pkgerrors "github.com/lorenagil/storefront-backend/pkg/errors"
	"github.com/lorenagil/storefront-backend/pkg/outbox"
	"github.com/lorenagil/storefront-backend/pkg/outbox/payloads"
	"gorm.io/gorm"
)

// Service runs the order pipeline: cart to durable order plus queued
// notification in one transaction, then the one-way Processing to Sent
// transition for the back office.
type Service interface {
	Submit(ctx context.Context, customerEmail string, items []cart.LineItem) (*OrderDTO, error)
	MarkSent(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListByCustomer(ctx context.Context, email string) ([]OrderDTO, error)
}

type orderRepository interface {
	CreateTx(tx *gorm.DB, order *models.Order) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*models.Order, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status enums.OrderStatus) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, email string) ([]models.Order, error)
}

type profileReader interface {
	FindByEmail(ctx context.Context, email string) (*models.CustomerProfile, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     orderRepository
	profiles profileReader
	events   eventEmitter
	runner   txRunner
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo     orderRepository
	Profiles profileReader
	Events   eventEmitter
	TxRunner txRunner
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile reader is required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event emitter is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:     params.Repo,
		profiles: params.Profiles,
		events:   params.Events,
		runner:   params.TxRunner,
	}, nil
}

func (s *service) Submit(ctx context.Context, customerEmail string, items []cart.LineItem) (*OrderDTO, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	profile, err := s.profiles.FindByEmail(ctx, customerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer profile")
	}

	order := &models.Order{
		ID:            uuid.New(),
		CustomerEmail: profile.Email,
		CustomerName:  fmt.Sprintf("%s %s", profile.Name, profile.Surname),
		CustomerPhone: profile.Phone,
		TotalAmount:   cart.ComputeTotal(items),
		Status:        enums.OrderStatusProcessing,
		PlacedAt:      time.Now().UTC(),
	}

	order.Items = make([]models.OrderLineItem, 0, len(items))
	snapshots := make([]payloads.OrderLineItemSnapshot, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, models.OrderLineItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			ImageURL:    item.ImageURL,
		})
		snapshots = append(snapshots, payloads.OrderLineItemSnapshot{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}

	var phone string
	if profile.Phone != nil {
		phone = *profile.Phone
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{Email: profile.Email, Role: profile.Role.String()},
		Version:       1,
		OccurredAt:    order.PlacedAt,
		Data: payloads.OrderPlacedEvent{
			OrderID:       order.ID,
			CustomerEmail: order.CustomerEmail,
			CustomerName:  order.CustomerName,
			CustomerPhone: phone,
			TotalAmount:   order.TotalAmount,
			PlacedAt:      order.PlacedAt,
			Items:         snapshots,
		},
	}

	err = s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, order); err != nil {
			return fmt.Errorf("inserting order: %w", err)
		}
		if err := s.events.Emit(ctx, tx, event); err != nil {
			return fmt.Errorf("queueing order notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submitting order")
	}

	return FromModel(order), nil
}

// MarkSent transitions the order to Sent. Re-marking an order that is
// already Sent is a no-op, and the dispatch event is emitted exactly once.
func (s *service) MarkSent(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	var result *models.Order

	err := s.runner.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDTx(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusSent {
			result = order
			return nil
		}

		if err := s.repo.UpdateStatusTx(tx, orderID, enums.OrderStatusSent); err != nil {
			return fmt.Errorf("updating order status: %w", err)
		}

		sentAt := time.Now().UTC()
		event := outbox.DomainEvent{
			EventType:     enums.EventOrderSent,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			OccurredAt:    sentAt,
			Data: payloads.OrderSentEvent{
				OrderID:       order.ID,
				CustomerEmail: order.CustomerEmail,
				SentAt:        sentAt,
			},
		}
		if err := s.events.EmitIfNotExists(ctx, tx, event); err != nil {
			return fmt.Errorf("queueing dispatch notification: %w", err)
		}

		order.Status = enums.OrderStatusSent
		result = order
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking order sent")
	}

	return FromModel(result), nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order")
	}
	return FromModel(order), nil
}

func (s *service) ListByCustomer(ctx context.Context, email string) ([]OrderDTO, error) {
	orders, err := s.repo.ListByCustomer(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing orders")
	}
	return FromModels(orders), nil
}
