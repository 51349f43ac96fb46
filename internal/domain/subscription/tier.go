package subscription

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Pure decision functions over subscription snapshots. None of them touch the
// database or the clock; callers pass now explicitly.

// IsActive is the only authority on whether gated features are usable.
func IsActive(sub *Subscription, now time.Time) bool {
	return sub != nil &&
		sub.Status == StatusActive &&
		sub.EndDate.Valid &&
		now.Before(sub.EndDate.Time)
}

// EffectiveStatus reports a stale active row as expired.
func EffectiveStatus(sub *Subscription, now time.Time) Status {
	if sub == nil {
		return StatusInactive
	}
	if sub.Status == StatusActive && !IsActive(sub, now) {
		return StatusExpired
	}
	return sub.Status
}

// DaysRemaining until expiry, 0 when not active.
func DaysRemaining(sub *Subscription, now time.Time) int {
	if !IsActive(sub, now) {
		return 0
	}
	return int(sub.EndDate.Time.Sub(now).Hours() / 24)
}

// Activate returns the subscription that results from activating plan for
// sellerID at now. current may be nil. Paid plans need an accepted proof.
//
// The end date is always now + plan duration: renewing the same plan early
// does not stack onto the old end date, and switching plans replaces the
// snapshot outright.
func Activate(current *Subscription, sellerID int64, plan Plan, proof PaymentProof, now time.Time) (*Subscription, error) {
	bundle, err := ResolveFeatures(plan)
	if err != nil {
		return nil, err
	}
	if RequiresPayment(plan) && !proof.Accepted {
		return nil, ErrPaymentNotVerified
	}
	days, _ := PlanDurationDays(plan)

	next := &Subscription{ID: uuid.NewString(), SellerID: sellerID}
	if current != nil {
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
	}

	start := now
	if current != nil && current.Plan == plan && IsActive(current, now) && current.StartDate.Valid {
		start = current.StartDate.Time
	}

	next.Plan = plan
	next.Status = StatusActive
	next.StartDate = sql.NullTime{Time: start, Valid: true}
	next.EndDate = sql.NullTime{Time: now.AddDate(0, 0, days), Valid: true}
	next.Features = datatypes.NewJSONType(bundle)
	next.PlanTableVersion = PlanTableVersion
	if proof.Reference != "" {
		next.PaymentRef = sql.NullString{String: proof.Reference, Valid: true}
	}
	return next, nil
}

// Cancel resets a subscription to inactive with no plan and no features.
func Cancel(current *Subscription, now time.Time) (*Subscription, error) {
	if current == nil {
		return nil, ErrSubscriptionNotFound
	}
	if !IsActive(current, now) {
		return nil, ErrNothingToCancel
	}
	next := NewInactive(current.SellerID)
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.CancelledAt = sql.NullTime{Time: now, Valid: true}
	return next, nil
}

// Expire flips a stale active subscription to expired. It reports false when
// nothing changed.
func Expire(sub *Subscription, now time.Time) bool {
	if sub == nil || EffectiveStatus(sub, now) != StatusExpired || sub.Status == StatusExpired {
		return false
	}
	sub.Status = StatusExpired
	return true
}

// CanCreateListing fails closed: no active subscription means no listings.
func CanCreateListing(usage Usage, sub *Subscription, now time.Time) bool {
	return CheckListingQuota(usage, sub, now) == nil
}

// CanAddSpotlight checks the monthly spotlight counter it is given; resetting
// that counter is the scheduler's job.
func CanAddSpotlight(usage Usage, sub *Subscription, now time.Time) bool {
	return CheckSpotlightQuota(usage, sub, now) == nil
}

// CheckListingQuota is CanCreateListing with the reason attached.
func CheckListingQuota(usage Usage, sub *Subscription, now time.Time) error {
	if !IsActive(sub, now) {
		return ErrSubscriptionInactive
	}
	limit := sub.Bundle().MaxListings
	if usage.ActiveListings >= limit {
		return newLimitError(ErrListingLimitReached, usage.ActiveListings, limit, sub.Plan)
	}
	return nil
}

// CheckSpotlightQuota is CanAddSpotlight with the reason attached.
func CheckSpotlightQuota(usage Usage, sub *Subscription, now time.Time) error {
	if !IsActive(sub, now) {
		return ErrSubscriptionInactive
	}
	limit := sub.Bundle().SpotlightsPerMonth
	if limit <= 0 {
		return newLimitError(ErrFeatureNotAvailable, usage.SpotlightsUsedThisMonth, 0, sub.Plan)
	}
	if usage.SpotlightsUsedThisMonth >= limit {
		return newLimitError(ErrSpotlightLimitReached, usage.SpotlightsUsedThisMonth, limit, sub.Plan)
	}
	return nil
}

// CheckMedia validates the media counts of a listing submission.
func CheckMedia(sub *Subscription, photos, videos int) error {
	if photoLimit := PhotoLimitFor(sub); photos > photoLimit {
		return newLimitError(ErrPhotoLimitReached, photos, photoLimit, planOf(sub))
	}
	if videoLimit := VideoLimitFor(sub); videos > videoLimit {
		return newLimitError(ErrVideoLimitReached, videos, videoLimit, planOf(sub))
	}
	return nil
}

func PhotoLimitFor(sub *Subscription) int {
	return sub.Bundle().MaxPhotosPerListing
}

func VideoLimitFor(sub *Subscription) int {
	return sub.Bundle().MaxVideosPerListing
}

func planOf(sub *Subscription) Plan {
	if sub == nil {
		return PlanNone
	}
	return sub.Plan
}

func newLimitError(err error, current, limit int, plan Plan) *LimitError {
	return &LimitError{
		Err:       err,
		Current:   current,
		Limit:     limit,
		PlanName:  string(plan),
		UpgradeTo: string(NextPlan(plan)),
	}
}
