package models

type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusProcessed OrderStatus = "processed"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusProcessed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal is true for every status an order cannot leave.
func (s OrderStatus) IsTerminal() bool {
	return s != StatusCreated
}

// CanTransition reports whether an order in s may be moved to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s != StatusCreated {
		return false
	}
	return next == StatusCreated || next == StatusCancelled
}
