package product

import (
	"strings"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
)

const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementAdjustment = "adjustment"
)

const (
	CodeProductNotFound   = "product_not_found"
	CodeInvalidMovement   = "invalid_movement"
	CodeInvalidQuantity   = "invalid_quantity"
	CodeInsufficientStock = "insufficient_stock"
)

// ApplyMovement returns the stock after a movement. "adjustment" sets the
// counted quantity; stock never goes negative.
func ApplyMovement(current int, kind string, qty int) (int, error) {
	switch strings.ToLower(kind) {
	case MovementIn:
		if qty <= 0 {
			return current, httperr.ErrBusiness(CodeInvalidQuantity)
		}
		return current + qty, nil

	case MovementOut:
		if qty <= 0 {
			return current, httperr.ErrBusiness(CodeInvalidQuantity)
		}
		if qty > current {
			return current, httperr.ErrBusiness(CodeInsufficientStock)
		}
		return current - qty, nil

	case MovementAdjustment:
		if qty < 0 {
			return current, httperr.ErrBusiness(CodeInvalidQuantity)
		}
		return qty, nil
	}

	return current, httperr.ErrBusiness(CodeInvalidMovement)
}

// LowStock reports products at or below their minimum.
func LowStock(stock, min int) bool {
	return min > 0 && stock <= min
}
