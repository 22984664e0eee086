package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/storefront/internal/models"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func openCartIDs(tx *gorm.DB, userID uuid.UUID) *gorm.DB {
	return tx.Model(&models.Cart{}).Select("id").Where("user_id = ? AND order_id IS NULL", userID)
}

func (r *GormRepo) findOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("cart_lines.id ASC") }).
		Preload("Lines.Item").
		Where("user_id = ? AND order_id IS NULL", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) insertOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := models.Cart{UserID: userID, Lines: []models.CartLine{}}
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateOpenCart returns the cart of userID that no order references,
// creating it on first access. A racing insert loses on the partial unique
// index and falls back to reading the winner's row.
func (r *GormRepo) GetOrCreateOpenCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.findOpenCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart, err = r.insertOpenCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !pkgdb.IsUniqueViolation(err) {
		return nil, err
	}
	return r.findOpenCart(ctx, userID)
}

func (r *GormRepo) GetCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("cart_lines.id ASC") }).
		Preload("Lines.Item").
		Where("id = ?", id).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateLine inserts line while its cart is still open. The cart row is
// locked so a concurrent checkout either sees the line or closes the cart
// first, in which case ErrCartClosed is returned.
func (r *GormRepo) CreateLine(ctx context.Context, line *models.CartLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := forUpdate(tx).Where("id = ? AND order_id IS NULL", line.CartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartClosed
			}
			return err
		}
		return tx.Omit(clause.Associations).Create(line).Error
	})
}

// GetOpenLine finds a line of the user's open cart.
func (r *GormRepo) GetOpenLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB.WithContext(ctx).
		Preload("Item").
		Where("id = ? AND cart_id IN (?)", lineID, openCartIDs(r.DB, userID)).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GormRepo) ListOpenLines(ctx context.Context, userID uuid.UUID, limit, offset int) (int64, []models.CartLine, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.CartLine{}).
		Where("cart_id IN (?)", openCartIDs(r.DB, userID)).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	lines := make([]models.CartLine, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("Item").
		Where("cart_id IN (?)", openCartIDs(r.DB, userID)).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&lines).Error; err != nil {
		return 0, nil, err
	}
	return total, lines, nil
}

// SaveLine writes item, quantity and price of a line that still belongs to
// an open cart.
func (r *GormRepo) SaveLine(ctx context.Context, userID uuid.UUID, line *models.CartLine) error {
	res := r.DB.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND cart_id IN (?)", line.ID, openCartIDs(r.DB, userID)).
		Updates(map[string]any{
			"item_id":  line.ItemID,
			"quantity": line.Quantity,
			"price":    line.Price,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteOpenLine(ctx context.Context, userID, lineID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND cart_id IN (?)", lineID, openCartIDs(r.DB, userID)).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
