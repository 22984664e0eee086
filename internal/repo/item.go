package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemFilter struct {
	PriceGTE  *decimal.Decimal
	PriceLTE  *decimal.Decimal
	PriceGT   *decimal.Decimal
	PriceLT   *decimal.Decimal
	WeightGTE *int
	WeightLTE *int
	WeightGT  *int
	WeightLT  *int
}

func (f ItemFilter) apply(q *gorm.DB) *gorm.DB {
	if f.PriceGTE != nil {
		q = q.Where("price >= ?", *f.PriceGTE)
	}
	if f.PriceLTE != nil {
		q = q.Where("price <= ?", *f.PriceLTE)
	}
	if f.PriceGT != nil {
		q = q.Where("price > ?", *f.PriceGT)
	}
	if f.PriceLT != nil {
		q = q.Where("price < ?", *f.PriceLT)
	}
	if f.WeightGTE != nil {
		q = q.Where("weight >= ?", *f.WeightGTE)
	}
	if f.WeightLTE != nil {
		q = q.Where("weight <= ?", *f.WeightLTE)
	}
	if f.WeightGT != nil {
		q = q.Where("weight > ?", *f.WeightGT)
	}
	if f.WeightLT != nil {
		q = q.Where("weight < ?", *f.WeightLT)
	}
	return q
}

func (r *GormRepo) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) ListItems(ctx context.Context, f ItemFilter, limit, offset int) (int64, []models.Item, error) {
	var total int64
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Item{})).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, 0, limit)
	if err := f.apply(r.DB.WithContext(ctx).Model(&models.Item{})).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// GetItemsByIDs returns the items in the order of ids, skipping unknown ones.
func (r *GormRepo) GetItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return []models.Item{}, nil
	}
	var found []models.Item
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Item, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	out := make([]models.Item, 0, len(found))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveItem(ctx context.Context, item *models.Item) error {
	res := r.DB.WithContext(ctx).Model(item).
		Select("title", "description", "image", "weight", "price").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchItems matches q against title and description. It backs item search
// when no search index is configured.
func (r *GormRepo) SearchItems(ctx context.Context, q string, limit, offset int) (int64, []models.Item, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	where := "LOWER(title) LIKE ? OR LOWER(description) LIKE ?"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Where(where, pattern, pattern).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Item, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where(where, pattern, pattern).
		Order("title ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
