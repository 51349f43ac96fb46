package subscription

import (
	"database/sql"
	"time"
)

// SubscribeRequest is sent by a seller to activate a plan that needs no payment
type SubscribeRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// PlanResponse is the public representation of a plan
type PlanResponse struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	PriceINR     string        `json:"price_inr"`
	PricePaise   int64         `json:"price_paise"`
	DurationDays int           `json:"duration_days"`
	NeedsPayment bool          `json:"needs_payment"`
	Features     FeatureBundle `json:"features"`
}

// SubscriptionResponse is the public representation of a seller's subscription
type SubscriptionResponse struct {
	ID               string        `json:"id"`
	Plan             string        `json:"plan"`
	Status           string        `json:"status"`
	Active           bool          `json:"active"`
	StartDate        *string       `json:"start_date,omitempty"`
	EndDate          *string       `json:"end_date,omitempty"`
	DaysRemaining    int           `json:"days_remaining"`
	Features         FeatureBundle `json:"features"`
	PlanTableVersion string        `json:"plan_table_version,omitempty"`
}

// UsageResponse shows current usage vs plan limits for a seller
type UsageResponse struct {
	Plan              string        `json:"plan"`
	Status            string        `json:"status"`
	Limits            FeatureBundle `json:"limits"`
	ActiveListings    int           `json:"active_listings"`
	SpotlightsUsed    int           `json:"spotlights_used_this_month"`
	CanCreateListing  bool          `json:"can_create_listing"`
	CanAddSpotlight   bool          `json:"can_add_spotlight"`
	SuggestedUpgrade  string        `json:"suggested_upgrade,omitempty"`
	PlanTableVersion  string        `json:"plan_table_version,omitempty"`
	SubscriptionEndAt *string       `json:"subscription_end_at,omitempty"`
}

func planToResponse(p Plan) PlanResponse {
	features, _ := ResolveFeatures(p)
	days, _ := PlanDurationDays(p)
	paise, _ := PricePaise(p)
	inr, _ := PriceINR(p)
	return PlanResponse{
		Name:         string(p),
		Description:  planDescription(p),
		PriceINR:     inr.StringFixed(2),
		PricePaise:   paise,
		DurationDays: days,
		NeedsPayment: RequiresPayment(p),
		Features:     features,
	}
}

func buildSubscriptionResponse(sub *Subscription, now time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		ID:               sub.ID,
		Plan:             string(sub.Plan),
		Status:           string(EffectiveStatus(sub, now)),
		Active:           IsActive(sub, now),
		StartDate:        formatNullTime(sub.StartDate),
		EndDate:          formatNullTime(sub.EndDate),
		DaysRemaining:    DaysRemaining(sub, now),
		Features:         sub.Bundle(),
		PlanTableVersion: sub.PlanTableVersion,
	}
}

func formatNullTime(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.UTC().Format(time.RFC3339)
	return &s
}

// ToResponse renders sub for other packages that return subscriptions.
func ToResponse(sub *Subscription, now time.Time) SubscriptionResponse {
	return buildSubscriptionResponse(sub, now)
}
