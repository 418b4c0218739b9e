package service

import "errors"

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
	ErrForbidden  = errors.New("forbidden")  // 403
)

// CouponError is a user-facing coupon rejection. Reason is safe to show.
type CouponError struct {
	Reason string
}

func (e *CouponError) Error() string {
	return e.Reason
}
