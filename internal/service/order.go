package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxAddressLen = 256

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Now defaults to time.Now.
	Now func() time.Time
}

type PlaceOrderInput struct {
	Address    string
	DeliveryAt time.Time
}

// UpdateOrderInput holds the fields to change; nil means keep.
type UpdateOrderInput struct {
	Status     *models.OrderStatus
	Address    *string
	DeliveryAt *time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func checkAddress(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return newValidationError("address", "this field may not be blank")
	}
	if utf8.RuneCountInString(addr) > maxAddressLen {
		return newValidationError("address", fmt.Sprintf("ensure this field has no more than %d characters", maxAddressLen))
	}
	return nil
}

func (s *OrderService) checkDeliveryAt(at time.Time) error {
	if !at.After(s.now()) {
		return fmt.Errorf("%w: delivery_at must be in the future", ErrInvalidDeliveryTime)
	}
	return nil
}

// PlaceOrder turns the user's open cart into an order. The emptiness check,
// the total snapshot, the insert and the cart attachment share one
// transaction; a cart lost to a concurrent checkout yields ErrConflict.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, in PlaceOrderInput) (*models.Order, error) {
	if err := checkAddress(in.Address); err != nil {
		return nil, err
	}
	if in.DeliveryAt.IsZero() {
		return nil, newValidationError("delivery_at", "this field is required")
	}

	cart, err := s.Repo.GetOrCreateOpenCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := s.Repo.CheckoutCart(ctx, cart.ID, func(locked *models.Cart) (*models.Order, error) {
		if len(locked.Lines) == 0 {
			return nil, fmt.Errorf("%w: add items before placing an order", ErrEmptyCart)
		}
		if err := s.checkDeliveryAt(in.DeliveryAt); err != nil {
			return nil, err
		}
		total := locked.TotalCost()
		if total.GreaterThan(models.MaxOrderTotal) {
			return nil, newValidationError("total_cost", fmt.Sprintf("ensure the cart total is at most %s", models.MaxOrderTotal.StringFixed(2)))
		}
		return &models.Order{
			CreatedAt:   s.now(),
			DeliveryAt:  in.DeliveryAt.UTC(),
			RecipientID: userID,
			Address:     in.Address,
			Status:      models.StatusCreated,
			TotalCost:   total,
		}, nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrCartClosed) {
			return nil, fmt.Errorf("%w: cart %s was already checked out", ErrConflict, cart.ID)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrder, userID.String(), events.Event{
		Type:   "order_placed",
		UserID: userID.String(),
		Data: map[string]any{
			"order_id":    order.ID.String(),
			"cart_id":     order.CartID.String(),
			"total_cost":  order.TotalCost.StringFixed(2),
			"delivery_at": order.DeliveryAt,
		},
	})
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return order, err
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, limit, offset)
}

// UpdateOrder applies a partial update to an order still in created. Any
// call against another status fails, even one that changes nothing.
func (s *OrderService) UpdateOrder(ctx context.Context, userID, orderID uuid.UUID, in UpdateOrderInput) (*models.Order, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, newValidationError("status", fmt.Sprintf("%q is not a valid choice", *in.Status))
	}
	if in.Address != nil {
		if err := checkAddress(*in.Address); err != nil {
			return nil, err
		}
	}

	var from models.OrderStatus
	order, err := s.Repo.UpdateOrder(ctx, userID, orderID, func(o *models.Order) ([]string, error) {
		from = o.Status
		if o.Status.IsTerminal() {
			return nil, fmt.Errorf("%w: order is %s", ErrOrderNotEditable, o.Status)
		}

		var cols []string
		if in.Status != nil && *in.Status != o.Status {
			if !o.Status.CanTransition(*in.Status) {
				return nil, fmt.Errorf("%w: status can only be set to %s", ErrIllegalTransition, models.StatusCancelled)
			}
			o.Status = *in.Status
			cols = append(cols, "status")
		}
		if in.DeliveryAt != nil {
			if err := s.checkDeliveryAt(*in.DeliveryAt); err != nil {
				return nil, err
			}
			o.DeliveryAt = in.DeliveryAt.UTC()
			cols = append(cols, "delivery_at")
		}
		if in.Address != nil {
			o.Address = *in.Address
			cols = append(cols, "address")
		}
		return cols, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrder, userID.String(), events.Event{
		Type:   "order_updated",
		UserID: userID.String(),
		Data: map[string]any{
			"order_id":    order.ID.String(),
			"from_status": string(from),
			"status":      string(order.Status),
		},
	})
	return order, nil
}
