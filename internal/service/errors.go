package service

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidSession      = errors.New("invalid session")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCheckoutNotStarted  = errors.New("checkout not started")
	ErrCheckoutStepInvalid = errors.New("checkout step invalid")
	ErrOrderInFlight       = errors.New("order is already being placed")
	ErrCheckoutCompleted   = errors.New("checkout already completed")
)

// ShippingFormError 收货信息缺失字段
type ShippingFormError struct {
	Missing []string
}

func (e *ShippingFormError) Error() string {
	return "missing shipping fields: " + strings.Join(e.Missing, ", ")
}
