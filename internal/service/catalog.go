package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxTitleLen = 100

var maxPrice = decimal.New(1, 6)

// ItemIndexer mirrors the catalog into a full text index.
type ItemIndexer interface {
	IndexItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SearchItems(ctx context.Context, q string, limit, offset int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search ItemIndexer
	Events events.Publisher
}

type CreateItemInput struct {
	Title       string
	Description string
	Image       string
	Weight      int
	Price       decimal.Decimal
}

type PatchItemInput struct {
	Title       *string
	Description *string
	Image       *string
	Weight      *int
	Price       *decimal.Decimal
}

func validateItem(item *models.Item) error {
	fields := map[string]string{}
	if strings.TrimSpace(item.Title) == "" {
		fields["title"] = "this field may not be blank"
	} else if utf8.RuneCountInString(item.Title) > maxTitleLen {
		fields["title"] = fmt.Sprintf("ensure this field has no more than %d characters", maxTitleLen)
	}
	if item.Weight < 0 {
		fields["weight"] = "ensure this value is greater than or equal to 0"
	}
	switch {
	case item.Price.IsNegative():
		fields["price"] = "ensure this value is greater than or equal to 0"
	case !item.Price.Equal(item.Price.Round(2)):
		fields["price"] = "ensure that there are no more than 2 decimal places"
	case item.Price.GreaterThanOrEqual(maxPrice):
		fields["price"] = "ensure that there are no more than 8 digits in total"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.Repo.GetItem(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	return item, err
}

func (s *CatalogService) ListItems(ctx context.Context, f repo.ItemFilter, limit, offset int) (int64, []models.Item, error) {
	return s.Repo.ListItems(ctx, f, limit, offset)
}

// SearchItems asks the index for ids and loads the rows from the database.
// Without an index, or when it fails, the database answers directly.
func (s *CatalogService) SearchItems(ctx context.Context, q string, limit, offset int) (int64, []models.Item, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []models.Item{}, nil
	}

	if s.Search != nil {
		total, ids, err := s.Search.SearchItems(ctx, q, limit, offset)
		if err == nil {
			items, err := s.Repo.GetItemsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "reason", "falling back to database", "error", err)
	}
	return s.Repo.SearchItems(ctx, q, limit, offset)
}

func (s *CatalogService) CreateItem(ctx context.Context, in CreateItemInput) (*models.Item, error) {
	item := &models.Item{
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
		Weight:      in.Weight,
		Price:       in.Price,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.mirror(ctx, "item_created", item)
	return item, nil
}

// PatchItem changes the catalog entry only. Lines already in carts keep the
// price they captured.
func (s *CatalogService) PatchItem(ctx context.Context, id uuid.UUID, in PatchItemInput) (*models.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		item.Title = *in.Title
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Image != nil {
		item.Image = *in.Image
	}
	if in.Weight != nil {
		item.Weight = *in.Weight
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveItem(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, id)
		}
		return nil, err
	}

	s.mirror(ctx, "item_updated", item)
	return item, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: item %s", ErrNotFound, id)
		}
		return err
	}

	l := logging.FromContext(ctx).With("svc", "catalog")
	if s.Search != nil {
		if err := s.Search.DeleteItem(ctx, id); err != nil {
			l.Error("search_delete_error", "item_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicItem, id.String(), events.Event{
		Type: "item_deleted",
		Data: map[string]any{"item_id": id.String()},
	})
	return nil
}

func (s *CatalogService) mirror(ctx context.Context, eventType string, item *models.Item) {
	l := logging.FromContext(ctx).With("svc", "catalog")
	if s.Search != nil {
		if err := s.Search.IndexItem(ctx, item); err != nil {
			l.Error("search_index_error", "item_id", item.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicItem, item.ID.String(), events.Event{
		Type: eventType,
		Data: map[string]any{
			"item_id": item.ID.String(),
			"title":   item.Title,
			"price":   item.Price.StringFixed(2),
		},
	})
}
