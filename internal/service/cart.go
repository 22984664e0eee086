package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemLookup is the catalog as seen by carts: a point in time price source.
type ItemLookup interface {
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type CartService struct {
	Repo   *repo.GormRepo
	Items  ItemLookup
	Events events.Publisher
}

type AddLineInput struct {
	ItemID   uuid.UUID
	Quantity int
}

// UpdateLineInput holds the fields to change; nil means keep.
type UpdateLineInput struct {
	ItemID   *uuid.UUID
	Quantity *int
}

func (s *CartService) items() ItemLookup {
	if s.Items != nil {
		return s.Items
	}
	return s.Repo
}

// OpenCart returns the user's open cart, creating an empty one when the user
// has none.
func (s *CartService) OpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.Repo.GetOrCreateOpenCart(ctx, userID)
}

func (s *CartService) TotalCost(cart *models.Cart) decimal.Decimal {
	return cart.TotalCost()
}

func (s *CartService) lookupItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if id == uuid.Nil {
		return nil, newValidationError("item_id", "this field is required")
	}
	item, err := s.items().GetItem(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return nil, newValidationError("item_id", fmt.Sprintf("item %s does not exist", id))
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// MaxQuantity bounds a single line.
const MaxQuantity = 1000

func checkQuantity(q int) error {
	if q < 1 {
		return newValidationError("quantity", "ensure this value is greater than or equal to 1")
	}
	if q > MaxQuantity {
		return newValidationError("quantity", fmt.Sprintf("ensure this value is less than or equal to %d", MaxQuantity))
	}
	return nil
}

// AddLine appends a new line to the open cart, capturing the item's current
// price. Lines for the same item are never merged.
func (s *CartService) AddLine(ctx context.Context, userID uuid.UUID, in AddLineInput) (*models.CartLine, error) {
	if err := checkQuantity(in.Quantity); err != nil {
		return nil, err
	}
	item, err := s.lookupItem(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateOpenCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		CartID:   cart.ID,
		ItemID:   item.ID,
		Quantity: in.Quantity,
		Price:    item.Price,
	}
	if err := s.Repo.CreateLine(ctx, line); err != nil {
		if errors.Is(err, repo.ErrCartClosed) {
			return nil, fmt.Errorf("%w: cart %s was checked out", ErrConflict, cart.ID)
		}
		return nil, err
	}
	line.Item = *item

	publish(ctx, s.Events, events.TopicCart, userID.String(), events.Event{
		Type:   "cart_line_added",
		UserID: userID.String(),
		Data: map[string]any{
			"cart_id":  cart.ID.String(),
			"line_id":  line.ID.String(),
			"item_id":  item.ID.String(),
			"quantity": line.Quantity,
			"price":    line.Price.StringFixed(2),
		},
	})
	return line, nil
}

func (s *CartService) GetLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	line, err := s.Repo.GetOpenLine(ctx, userID, lineID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: cart line %s", ErrNotFound, lineID)
	}
	return line, err
}

func (s *CartService) ListLines(ctx context.Context, userID uuid.UUID, limit, offset int) (int64, []models.CartLine, error) {
	return s.Repo.ListOpenLines(ctx, userID, limit, offset)
}

// UpdateLine changes quantity and/or item of a line. The price is taken from
// the catalog again only when the item changes.
func (s *CartService) UpdateLine(ctx context.Context, userID, lineID uuid.UUID, in UpdateLineInput) (*models.CartLine, error) {
	line, err := s.GetLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}

	if in.Quantity != nil {
		line.Quantity = *in.Quantity
	}
	if err := checkQuantity(line.Quantity); err != nil {
		return nil, err
	}

	if in.ItemID != nil && *in.ItemID != line.ItemID {
		item, err := s.lookupItem(ctx, *in.ItemID)
		if err != nil {
			return nil, err
		}
		line.ItemID = item.ID
		line.Item = *item
		line.Price = item.Price
	}

	if err := s.Repo.SaveLine(ctx, userID, line); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart line %s", ErrNotFound, lineID)
		}
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), events.Event{
		Type:   "cart_line_updated",
		UserID: userID.String(),
		Data: map[string]any{
			"line_id":  line.ID.String(),
			"item_id":  line.ItemID.String(),
			"quantity": line.Quantity,
			"price":    line.Price.StringFixed(2),
		},
	})
	return line, nil
}

func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error {
	if err := s.Repo.DeleteOpenLine(ctx, userID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart line %s", ErrNotFound, lineID)
		}
		return err
	}

	publish(ctx, s.Events, events.TopicCart, userID.String(), events.Event{
		Type:   "cart_line_removed",
		UserID: userID.String(),
		Data:   map[string]any{"line_id": lineID.String()},
	})
	return nil
}
