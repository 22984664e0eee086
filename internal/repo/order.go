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

// BuildOrder turns a locked open cart, lines loaded, into the order to insert.
type BuildOrder func(cart *models.Cart) (*models.Order, error)

// ApplyOrderUpdate mutates a locked order and returns the columns to write.
type ApplyOrderUpdate func(order *models.Order) ([]string, error)

func preloadOrderCart(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Cart").
		Preload("Cart.Lines", func(db *gorm.DB) *gorm.DB { return db.Order("cart_lines.id ASC") }).
		Preload("Cart.Lines.Item")
}

// CheckoutCart inserts the order built from the cart and attaches the cart to
// it in one transaction. Only tx is used inside so a single connection pool
// never waits on itself.
func (r *GormRepo) CheckoutCart(ctx context.Context, cartID uuid.UUID, build BuildOrder) (*models.Order, error) {
	var order *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := forUpdate(tx).Where("id = ? AND order_id IS NULL", cartID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartClosed
			}
			return err
		}
		if err := tx.Preload("Item").Where("cart_id = ?", cart.ID).Order("id ASC").Find(&cart.Lines).Error; err != nil {
			return err
		}

		built, err := build(&cart)
		if err != nil {
			return err
		}
		built.CartID = cart.ID

		if err := tx.Omit(clause.Associations).Create(built).Error; err != nil {
			if pkgdb.IsUniqueViolation(err) {
				return ErrCartClosed
			}
			return err
		}

		res := tx.Model(&models.Cart{}).
			Where("id = ? AND order_id IS NULL", cart.ID).
			Update("order_id", built.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartClosed
		}

		cart.OrderID = &built.ID
		built.Cart = cart
		order = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, recipientID, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := preloadOrderCart(r.DB.WithContext(ctx)).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, recipientID uuid.UUID, limit, offset int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	if err := preloadOrderCart(r.DB.WithContext(ctx)).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// UpdateOrder locks the order, lets apply validate and change it, then writes
// only the columns apply returned.
func (r *GormRepo) UpdateOrder(ctx context.Context, recipientID, id uuid.UUID, apply ApplyOrderUpdate) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("id = ? AND recipient_id = ?", id, recipientID).First(&order).Error; err != nil {
			return err
		}

		cols, err := apply(&order)
		if err != nil {
			return err
		}
		if len(cols) > 0 {
			if err := tx.Model(&order).Omit(clause.Associations).Select(cols).Updates(&order).Error; err != nil {
				return err
			}
		}

		return preloadOrderCart(tx).Where("id = ?", id).First(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
