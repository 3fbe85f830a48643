package domain

import "errors"

var (
	// ErrProductNotFound is returned when no catalog entry matches the message
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrLowConfidence is returned when the best match scores below the threshold
	ErrLowConfidence = errors.New("match confidence below threshold")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogUnreadable is returned when no supported encoding decodes the catalog file
	ErrCatalogUnreadable = errors.New("catalog file unreadable with known encodings")

	// ErrOrderNotFound is returned when an order id or serial does not exist
	ErrOrderNotFound = errors.New("order not found")

	// ErrRateLimited is returned when a client exceeds the per-IP request budget
	ErrRateLimited = errors.New("rate limit exceeded")
)
