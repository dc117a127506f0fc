package backend

import "errors"

var (
	// ErrUnauthorized maps a backend 401. The session layer reacts by
	// tearing the session down; nothing retries.
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrBadResponse  = errors.New("unexpected response shape")
)

// ValidationError carries the message the backend attached to a 400.
// CouponError is set when the checkout surface rejected the coupon code.
type ValidationError struct {
	Message     string
	CouponError string
}

func (e *ValidationError) Error() string {
	if e.CouponError != "" {
		return e.CouponError
	}
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
