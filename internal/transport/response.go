package transport

import (
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Money renders an amount with exactly two fractional digits.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Weight      int       `json:"weight"`
	Price       string    `json:"price"`
}

func NewItemResponse(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Image:       it.Image,
		Weight:      it.Weight,
		Price:       Money(it.Price),
	}
}

func NewItemResponses(items []models.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewItemResponse(&items[i]))
	}
	return out
}

type CartLineResponse struct {
	ID         uuid.UUID    `json:"id"`
	Item       ItemResponse `json:"item"`
	ItemID     uuid.UUID    `json:"item_id"`
	Quantity   int          `json:"quantity"`
	Price      string       `json:"price"`
	TotalPrice string       `json:"total_price"`
}

func NewCartLineResponse(l *models.CartLine) CartLineResponse {
	return CartLineResponse{
		ID:         l.ID,
		Item:       NewItemResponse(&l.Item),
		ItemID:     l.ItemID,
		Quantity:   l.Quantity,
		Price:      Money(l.Price),
		TotalPrice: Money(l.LineTotal()),
	}
}

func NewCartLineResponses(lines []models.CartLine) []CartLineResponse {
	out := make([]CartLineResponse, 0, len(lines))
	for i := range lines {
		out = append(out, NewCartLineResponse(&lines[i]))
	}
	return out
}

type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	Items     []CartLineResponse `json:"items"`
	TotalCost string             `json:"total_cost"`
}

func NewCartResponse(c *models.Cart) CartResponse {
	return CartResponse{
		ID:        c.ID,
		Items:     NewCartLineResponses(c.Lines),
		TotalCost: Money(c.TotalCost()),
	}
}

// OrderResponse is the list and create shape; the cart is referenced by id.
type OrderResponse struct {
	ID         uuid.UUID `json:"id"`
	Cart       uuid.UUID `json:"cart"`
	Status     string    `json:"status"`
	TotalCost  string    `json:"total_cost"`
	Address    string    `json:"address"`
	DeliveryAt time.Time `json:"delivery_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:         o.ID,
		Cart:       o.CartID,
		Status:     string(o.Status),
		TotalCost:  Money(o.TotalCost),
		Address:    o.Address,
		DeliveryAt: o.DeliveryAt.UTC(),
		CreatedAt:  o.CreatedAt.UTC(),
	}
}

func NewOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}

// OrderDetailResponse is the retrieve and update shape with the cart inlined.
type OrderDetailResponse struct {
	ID         uuid.UUID    `json:"id"`
	Cart       CartResponse `json:"cart"`
	Status     string       `json:"status"`
	TotalCost  string       `json:"total_cost"`
	Address    string       `json:"address"`
	DeliveryAt time.Time    `json:"delivery_at"`
	CreatedAt  time.Time    `json:"created_at"`
	Recipient  uuid.UUID    `json:"recipient"`
}

func NewOrderDetailResponse(o *models.Order) OrderDetailResponse {
	return OrderDetailResponse{
		ID:         o.ID,
		Cart:       NewCartResponse(&o.Cart),
		Status:     string(o.Status),
		TotalCost:  Money(o.TotalCost),
		Address:    o.Address,
		DeliveryAt: o.DeliveryAt.UTC(),
		CreatedAt:  o.CreatedAt.UTC(),
		Recipient:  o.RecipientID,
	}
}
