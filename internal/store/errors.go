package store

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	// ErrStockContention : le compare-and-set du stock n'a jamais abouti.
	ErrStockContention = errors.New("stock update contention")
)
