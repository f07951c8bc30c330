package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidCartItem         = errors.New("invalid cart item")
	ErrMissingEmail            = errors.New("customer email is required")
	ErrProductNotFound         = errors.New("product not found")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInvalidRedirectURL      = errors.New("invalid redirect url")
	ErrOrderNotFound           = errors.New("order not found")
	ErrWebhookSignatureInvalid = errors.New("webhook signature invalid")
	ErrCheckoutFailed          = errors.New("checkout failed")
	ErrConfirmationFailed      = errors.New("payment confirmation failed")
)

type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func checkoutFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
}

func confirmationFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrConfirmationFailed, err)
}
