package domain

import "errors"

// Stable error taxonomy surfaced by the order workflow and the stock ledger.
// Handlers translate these to HTTP status codes; anything not wrapping one of
// these sentinels is an infrastructure failure and must never be read as a
// domain decision.
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrOutOfStock            = errors.New("out of stock")
	ErrInsufficientStock     = errors.New("insufficient available stock")
	ErrNoReservationToCommit = errors.New("no reservation to commit")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrNoPricingForAddress   = errors.New("no shipping price for address")
	ErrMalformedOrder        = errors.New("malformed order")
)
