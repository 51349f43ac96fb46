package scheduler

import (
	"context"
	"time"
)

const (
	SubscriptionExpirySpec = "@hourly"
	ListingExpirySpec      = "@hourly"
	BadgePruneSpec         = "@daily"
	SpotlightResetSpec     = "0 0 1 * *"
)

type SubscriptionSweeper interface {
	ExpireStale(ctx context.Context) (int, error)
}

type ListingSweeper interface {
	ExpireListings(ctx context.Context) (int, error)
}

type BadgePruner interface {
	Prune(ctx context.Context) (int, error)
}

type SpotlightResetter interface {
	ResetMonthlySpotlights(ctx context.Context, now time.Time) (int, error)
}

// Jobs returns the marketplace sweeps. Reads stay correct without them since
// expiry is also evaluated lazily; the sweeps keep stored state and counters
// tidy.
func Jobs(subs SubscriptionSweeper, listings ListingSweeper, badges BadgePruner, spotlights SpotlightResetter) []Job {
	return []Job{
		{Name: "subscription_expiry", Spec: SubscriptionExpirySpec, Run: subs.ExpireStale},
		{Name: "listing_expiry", Spec: ListingExpirySpec, Run: listings.ExpireListings},
		{Name: "badge_prune", Spec: BadgePruneSpec, Run: badges.Prune},
		{
			Name: "spotlight_reset",
			Spec: SpotlightResetSpec,
			Run: func(ctx context.Context) (int, error) {
				return spotlights.ResetMonthlySpotlights(ctx, time.Now().UTC())
			},
		},
	}
}
