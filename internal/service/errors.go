package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation          = errors.New("validation")                // 400
	ErrNotFound            = errors.New("not found")                 // 404
	ErrConflict            = errors.New("conflict")                  // 409
	ErrEmptyCart           = errors.New("cart is empty")             // 400
	ErrInvalidDeliveryTime = errors.New("invalid delivery time")     // 400
	ErrOrderNotEditable    = errors.New("order is not editable")     // 400
	ErrIllegalTransition   = errors.New("illegal status transition") // 400
)

// ValidationError carries one message per offending input field.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
