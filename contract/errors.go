package contract

import "errors"

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrNotOpen               = errors.New("sale not open")
	ErrGoalExceeded          = errors.New("goal exceeded")
	ErrRefundNotAllowed      = errors.New("refund not allowed")
	ErrGoalNotReached        = errors.New("goal not reached")
	ErrConversionFailed      = errors.New("conversion failed")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrAlreadyWithdrawn      = errors.New("funds already withdrawn")
	ErrNotFound              = errors.New("not found")
)

// IsNotFound reports whether err means a listing, token or sale does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
