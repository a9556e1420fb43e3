package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Callers match
// them with errors.Is; the wrapped message carries the specifics.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)
