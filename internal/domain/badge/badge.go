package badge

import (
	"time"

	"gallopmart/internal/domain/subscription"
)

const (
	TopSeller      = "Top Seller"
	PremiumStable  = "Premium Stable"
	VerifiedSeller = "Verified Seller"
)

// TTLMonths is how long an earned badge stays current after it is awarded.
const TTLMonths = 3

// Stats are the seller figures badge rules look at.
type Stats struct {
	TotalSales        int
	Rating            float64
	TotalListings     int
	VerificationLevel string
}

// ComputeEligibleBadges returns every badge stats qualify for, in a fixed
// order. sub may be nil.
func ComputeEligibleBadges(stats Stats, sub *subscription.Subscription) []string {
	var out []string
	if stats.TotalSales >= 5 && stats.Rating >= 4.5 && stats.TotalListings >= 10 {
		out = append(out, TopSeller)
	}
	if sub != nil && sub.Plan == subscription.PlanRoyalStallion &&
		stats.VerificationLevel == "professional" &&
		stats.Rating >= 4.0 && stats.TotalListings >= 5 {
		out = append(out, PremiumStable)
	}
	// Only basic verification earns this one; professional does not imply it.
	if stats.VerificationLevel == "basic" {
		out = append(out, VerifiedSeller)
	}
	return out
}

// ExpiryFor returns the expiry of a badge awarded at awardedAt.
func ExpiryFor(awardedAt time.Time) time.Time {
	return awardedAt.AddDate(0, TTLMonths, 0)
}

// CurrentBadges drops badges whose expiry has passed, whether or not a
// cleanup has deleted them yet.
func CurrentBadges(badges []Badge, now time.Time) []Badge {
	out := make([]Badge, 0, len(badges))
	for _, b := range badges {
		if b.IsCurrent(now) {
			out = append(out, b)
		}
	}
	return out
}
