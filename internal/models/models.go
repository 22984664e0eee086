package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Item struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"           json:"id"`
	Title       string          `gorm:"size:100;not null"              json:"title"`
	Description string          `gorm:"not null;default:''"            json:"description"`
	Image       string          `gorm:"not null;default:''"            json:"image"`
	Weight      int             `gorm:"not null;default:0"             json:"weight"`
	Price       decimal.Decimal `gorm:"type:numeric(8,2);not null"     json:"price"`
}

type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"                             json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"                         json:"user_id"`
	OrderID   *uuid.UUID `gorm:"type:uuid"                                        json:"order_id"`
	CreatedAt time.Time  `gorm:"not null"                                         json:"created_at"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"    json:"lines"`
}

// IsOpen reports whether no order references the cart yet.
func (c *Cart) IsOpen() bool {
	return c.OrderID == nil
}

// MaxOrderTotal is the largest total orders.total_cost (numeric(12,2)) holds.
var MaxOrderTotal = decimal.RequireFromString("9999999999.99")

// TotalCost sums the line totals. An empty cart costs 0.00.
func (c *Cart) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].LineTotal())
	}
	return total.Round(2)
}

type CartLine struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"                           json:"id"`
	CartID   uuid.UUID       `gorm:"type:uuid;index;not null"                       json:"cart_id"`
	ItemID   uuid.UUID       `gorm:"type:uuid;index;not null"                       json:"item_id"`
	Item     Item            `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"  json:"item"`
	Quantity int             `gorm:"not null;check:quantity>0"                      json:"quantity"`
	Price    decimal.Decimal `gorm:"type:numeric(8,2);not null"                     json:"price"`
}

func (l *CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"                                     json:"id"`
	CreatedAt   time.Time       `gorm:"not null"                                                 json:"created_at"`
	DeliveryAt  time.Time       `gorm:"not null"                                                 json:"delivery_at"`
	RecipientID uuid.UUID       `gorm:"type:uuid;index;not null"                                 json:"recipient_id"`
	CartID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"                           json:"cart_id"`
	Cart        Cart            `gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE" json:"cart"`
	Address     string          `gorm:"size:256;not null"                                        json:"address"`
	Status      OrderStatus     `gorm:"type:varchar(9);not null;default:created"                 json:"status"`
	TotalCost   decimal.Decimal `gorm:"type:numeric(12,2);not null"                              json:"total_cost"`
}

// newID returns a time ordered id so rows sort in insertion order.
func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = newID()
	}
	return nil
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = newID()
	}
	return nil
}

func (l *CartLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = newID()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = newID()
	}
	return nil
}

func (Item) TableName() string     { return "items" }
func (Cart) TableName() string     { return "carts" }
func (CartLine) TableName() string { return "cart_lines" }
func (Order) TableName() string    { return "orders" }
