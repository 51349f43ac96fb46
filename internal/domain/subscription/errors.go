package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPaymentNotVerified   = errors.New("payment not verified for paid plan")
	ErrSubscriptionInactive = errors.New("no active subscription")
	ErrNothingToCancel      = errors.New("subscription is not active")

	// Limit errors returned when a seller exceeds their plan
	ErrListingLimitReached   = errors.New("listing limit reached for your current plan")
	ErrSpotlightLimitReached = errors.New("monthly spotlight allowance used up for your current plan")
	ErrPhotoLimitReached     = errors.New("too many photos for your current plan")
	ErrVideoLimitReached     = errors.New("too many videos for your current plan")
	ErrFeatureNotAvailable   = errors.New("this feature is not available on your current plan")
)

// UnknownPlanError is returned for any plan name outside the plan table.
type UnknownPlanError struct {
	Plan string
}

func (e *UnknownPlanError) Error() string {
	return fmt.Sprintf("unknown plan %q", e.Plan)
}

// IsUnknownPlan reports whether err is or wraps an *UnknownPlanError.
func IsUnknownPlan(err error) bool {
	var upe *UnknownPlanError
	return errors.As(err, &upe)
}

// LimitError carries rich context for UI display
type LimitError struct {
	Err       error
	Current   int
	Limit     int
	PlanName  string
	UpgradeTo string
}

func (e *LimitError) Error() string { return e.Err.Error() }
func (e *LimitError) Unwrap() error { return e.Err }
