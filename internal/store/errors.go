package store

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCategoryInUse      = errors.New("category has active products")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrNameRequired       = errors.New("name is required")
	ErrNothingPersisted   = errors.New("no tier could persist the entity")
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrSourceUnauthorized = errors.New("source rejected credentials")
)
