package payment

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrOrderNotFound    = errors.New("payment order not found")
	ErrPlanNotPayable   = errors.New("plan does not require payment")
	ErrNotConfigured    = errors.New("payment gateway credentials are not configured")
)
