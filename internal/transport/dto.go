package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateItemRequest struct {
	Title       string          `json:"title"       validate:"required,max=100"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Weight      int             `json:"weight"      validate:"gte=0"`
	Price       decimal.Decimal `json:"price"`
}

type PatchItemRequest struct {
	Title       *string          `json:"title"       validate:"omitempty,max=100"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	Weight      *int             `json:"weight"      validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
}

type AddLineRequest struct {
	ItemID   uuid.UUID `json:"item_id"  validate:"required"`
	Quantity *int      `json:"quantity" validate:"required"`
}

// PutLineRequest replaces a line, so both fields must be sent.
type PutLineRequest struct {
	ItemID   *uuid.UUID `json:"item_id"  validate:"required"`
	Quantity *int       `json:"quantity" validate:"required"`
}

type PatchLineRequest struct {
	ItemID   *uuid.UUID `json:"item_id"`
	Quantity *int       `json:"quantity"`
}

type PlaceOrderRequest struct {
	Address    string     `json:"address"     validate:"required,max=256"`
	DeliveryAt *time.Time `json:"delivery_at" validate:"required"`
}

type PutOrderRequest struct {
	Status     *string    `json:"status"      validate:"required"`
	Address    *string    `json:"address"     validate:"required,max=256"`
	DeliveryAt *time.Time `json:"delivery_at" validate:"required"`
}

type PatchOrderRequest struct {
	Status     *string    `json:"status"`
	Address    *string    `json:"address"     validate:"omitempty,max=256"`
	DeliveryAt *time.Time `json:"delivery_at"`
}

type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}
