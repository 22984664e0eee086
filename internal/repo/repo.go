package repo

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCartClosed is returned when a cart was attached to an order by a
// concurrent checkout.
var ErrCartClosed = errors.New("cart already attached to an order")

type GormRepo struct {
	DB *gorm.DB
}

const openCartIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_open_user ON carts (user_id) WHERE order_id IS NULL`

// Migrate creates the tables and the partial unique index that allows a
// single open cart per user.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Item{}, &models.Cart{}, &models.CartLine{}, &models.Order{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := db.Exec(openCartIndex).Error; err != nil {
		return fmt.Errorf("create open cart index: %w", err)
	}
	return nil
}

// forUpdate adds a row lock where the dialect has one.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
