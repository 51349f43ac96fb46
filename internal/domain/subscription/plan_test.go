package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFeatures_Table(t *testing.T) {
	tests := []struct {
		plan Plan
		want FeatureBundle
	}{
		{
			plan: PlanFree,
			want: FeatureBundle{
				MaxListings: 1, MaxPhotosPerListing: 1, MaxVideosPerListing: 0,
				ListingDurationDays: 7, VerificationLevel: VerificationBasic,
				SearchPlacement: PlacementBasic, Badges: []string{"Free User"},
			},
		},
		{
			plan: PlanTrot,
			want: FeatureBundle{
				MaxListings: 10, MaxPhotosPerListing: 10, MaxVideosPerListing: 1,
				ListingDurationDays: 30, VerificationLevel: VerificationNone,
				SearchPlacement: PlacementNone, Badges: []string{"Trot Member"},
			},
		},
		{
			plan: PlanGallop,
			want: FeatureBundle{
				MaxListings: 25, MaxPhotosPerListing: 20, MaxVideosPerListing: 3,
				ListingDurationDays: 30, BoostDurationDays: 3, SpotlightDurationDays: 3,
				SpotlightsPerMonth: 2, VerificationLevel: VerificationNone,
				FeaturedListings: true, Analytics: true, SearchPlacement: PlacementBasic,
				Badges: []string{"Gallop Member"},
			},
		},
		{
			plan: PlanRoyalStallion,
			want: FeatureBundle{
				MaxListings: 50, MaxPhotosPerListing: 30, MaxVideosPerListing: 5,
				ListingDurationDays: 30, BoostDurationDays: 7, SpotlightDurationDays: 7,
				SpotlightsPerMonth: 5, VerificationLevel: VerificationPremium,
				FeaturedListings: true, VirtualTours: true, Analytics: true,
				SearchPlacement: PlacementPremium, Badges: []string{"Royal Stallion"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			got, err := ResolveFeatures(tt.plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := ResolveFeatures(tt.plan)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestResolveFeatures_ReturnsCopies(t *testing.T) {
	first, err := ResolveFeatures(PlanRoyalStallion)
	require.NoError(t, err)
	first.MaxListings = 9999
	first.Badges[0] = "Tampered"

	second, err := ResolveFeatures(PlanRoyalStallion)
	require.NoError(t, err)
	assert.Equal(t, 50, second.MaxListings)
	assert.Equal(t, []string{"Royal Stallion"}, second.Badges)
}

func TestResolveFeatures_UnknownPlan(t *testing.T) {
	for _, name := range []string{"Nonexistent", "royal stallion", "FREE", "", " Gallop"} {
		_, err := ResolveFeatures(Plan(name))
		require.Error(t, err, name)

		var upe *UnknownPlanError
		require.ErrorAs(t, err, &upe)
		assert.Equal(t, name, upe.Plan)
	}
}

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan("Royal Stallion")
	require.NoError(t, err)
	assert.Equal(t, PlanRoyalStallion, p)

	_, err = ParsePlan("Starter")
	assert.True(t, IsUnknownPlan(err))
}

func TestPlanDurationDays(t *testing.T) {
	days, err := PlanDurationDays(PlanFree)
	require.NoError(t, err)
	assert.Equal(t, 7, days)

	for _, p := range []Plan{PlanTrot, PlanGallop, PlanRoyalStallion} {
		days, err := PlanDurationDays(p)
		require.NoError(t, err)
		assert.Equal(t, 30, days, p)
	}
}

func TestPricing(t *testing.T) {
	inr, err := PriceINR(PlanGallop)
	require.NoError(t, err)
	assert.Equal(t, "2499.00", inr.StringFixed(2))

	paise, err := PricePaise(PlanFree)
	require.NoError(t, err)
	assert.Zero(t, paise)
	assert.False(t, RequiresPayment(PlanFree))
	assert.True(t, RequiresPayment(PlanTrot))
}

func TestNextPlan(t *testing.T) {
	assert.Equal(t, PlanFree, NextPlan(PlanNone))
	assert.Equal(t, PlanTrot, NextPlan(PlanFree))
	assert.Equal(t, PlanGallop, NextPlan(PlanTrot))
	assert.Equal(t, PlanRoyalStallion, NextPlan(PlanGallop))
	assert.Equal(t, PlanNone, NextPlan(PlanRoyalStallion))
}
