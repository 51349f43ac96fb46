package subscription

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Plan identifies a subscription tier. Values are matched exactly and
// case-sensitively; the zero value means "no plan".
type Plan string

const (
	PlanNone          Plan = ""
	PlanFree          Plan = "Free"
	PlanTrot          Plan = "Trot"
	PlanGallop        Plan = "Gallop"
	PlanRoyalStallion Plan = "Royal Stallion"
)

// PlanTableVersion is stamped on every snapshot taken from planTable.
// Bump it whenever a number in the table changes.
const PlanTableVersion = "2024-06"

// VerificationLevel granted to sellers on a plan.
type VerificationLevel string

const (
	VerificationNone    VerificationLevel = "none"
	VerificationBasic   VerificationLevel = "basic"
	VerificationPremium VerificationLevel = "premium"
)

// SearchPlacement controls how listings rank in search results.
type SearchPlacement string

const (
	PlacementNone    SearchPlacement = "none"
	PlacementBasic   SearchPlacement = "basic"
	PlacementPremium SearchPlacement = "premium"
)

// FeatureBundle is the set of quotas and capabilities attached to a plan.
// Subscriptions keep their own copy taken at activation time.
type FeatureBundle struct {
	MaxListings           int               `json:"maxListings"`
	MaxPhotosPerListing   int               `json:"maxPhotosPerListing"`
	MaxVideosPerListing   int               `json:"maxVideosPerListing"`
	ListingDurationDays   int               `json:"listingDurationDays"`
	BoostDurationDays     int               `json:"boostDurationDays"`
	SpotlightDurationDays int               `json:"spotlightDurationDays"`
	SpotlightsPerMonth    int               `json:"spotlightsPerMonth"`
	VerificationLevel     VerificationLevel `json:"verificationLevel"`
	FeaturedListings      bool              `json:"featuredListings"`
	VirtualTours          bool              `json:"virtualTours"`
	Analytics             bool              `json:"analytics"`
	SearchPlacement       SearchPlacement   `json:"searchPlacement"`
	Badges                []string          `json:"badges"`
}

func (b FeatureBundle) clone() FeatureBundle {
	b.Badges = slices.Clone(b.Badges)
	return b
}

type planDefinition struct {
	description  string
	pricePaise   int64
	durationDays int
	features     FeatureBundle
}

// planOrder is the upgrade path, cheapest first.
var planOrder = []Plan{PlanFree, PlanTrot, PlanGallop, PlanRoyalStallion}

// planTable is the single source of plan numbers. Never mutate it at runtime;
// ResolveFeatures hands out copies.
var planTable = map[Plan]planDefinition{
	PlanFree: {
		description:  "Try GallopMart with a single week-long listing",
		pricePaise:   0,
		durationDays: 7,
		features: FeatureBundle{
			MaxListings:         1,
			MaxPhotosPerListing: 1,
			MaxVideosPerListing: 0,
			ListingDurationDays: 7,
			VerificationLevel:   VerificationBasic,
			SearchPlacement:     PlacementBasic,
			Badges:              []string{"Free User"},
		},
	},
	PlanTrot: {
		description:  "For private sellers with a few horses",
		pricePaise:   99900,
		durationDays: 30,
		features: FeatureBundle{
			MaxListings:         10,
			MaxPhotosPerListing: 10,
			MaxVideosPerListing: 1,
			ListingDurationDays: 30,
			VerificationLevel:   VerificationNone,
			SearchPlacement:     PlacementNone,
			Badges:              []string{"Trot Member"},
		},
	},
	PlanGallop: {
		description:  "For active stables: featured listings, boosts and analytics",
		pricePaise:   249900,
		durationDays: 30,
		features: FeatureBundle{
			MaxListings:           25,
			MaxPhotosPerListing:   20,
			MaxVideosPerListing:   3,
			ListingDurationDays:   30,
			BoostDurationDays:     3,
			SpotlightDurationDays: 3,
			SpotlightsPerMonth:    2,
			VerificationLevel:     VerificationNone,
			FeaturedListings:      true,
			Analytics:             true,
			SearchPlacement:       PlacementBasic,
			Badges:                []string{"Gallop Member"},
		},
	},
	PlanRoyalStallion: {
		description:  "Premium placement, spotlights and virtual tours",
		pricePaise:   499900,
		durationDays: 30,
		features: FeatureBundle{
			MaxListings:           50,
			MaxPhotosPerListing:   30,
			MaxVideosPerListing:   5,
			ListingDurationDays:   30,
			BoostDurationDays:     7,
			SpotlightDurationDays: 7,
			SpotlightsPerMonth:    5,
			VerificationLevel:     VerificationPremium,
			FeaturedListings:      true,
			VirtualTours:          true,
			Analytics:             true,
			SearchPlacement:       PlacementPremium,
			Badges:                []string{"Royal Stallion"},
		},
	},
}

// ParsePlan validates a plan name coming from outside.
func ParsePlan(name string) (Plan, error) {
	p := Plan(name)
	if _, ok := planTable[p]; !ok {
		return PlanNone, &UnknownPlanError{Plan: name}
	}
	return p, nil
}

// ResolveFeatures returns the canonical bundle for plan.
func ResolveFeatures(plan Plan) (FeatureBundle, error) {
	def, ok := planTable[plan]
	if !ok {
		return FeatureBundle{}, &UnknownPlanError{Plan: string(plan)}
	}
	return def.features.clone(), nil
}

// PlanDurationDays is how long one activation of plan lasts.
func PlanDurationDays(plan Plan) (int, error) {
	def, ok := planTable[plan]
	if !ok {
		return 0, &UnknownPlanError{Plan: string(plan)}
	}
	return def.durationDays, nil
}

// PricePaise is the price of one activation in the smallest currency unit.
func PricePaise(plan Plan) (int64, error) {
	def, ok := planTable[plan]
	if !ok {
		return 0, &UnknownPlanError{Plan: string(plan)}
	}
	return def.pricePaise, nil
}

// PriceINR is PricePaise expressed in rupees.
func PriceINR(plan Plan) (decimal.Decimal, error) {
	paise, err := PricePaise(plan)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(paise, -2), nil
}

// RequiresPayment reports whether activating plan needs a payment proof.
func RequiresPayment(plan Plan) bool {
	return plan != PlanFree
}

// Plans lists the recognised plans in upgrade order.
func Plans() []Plan {
	return slices.Clone(planOrder)
}

// NextPlan is the upgrade suggestion shown with limit errors; "" at the top tier.
func NextPlan(current Plan) Plan {
	if current == PlanNone {
		return PlanFree
	}
	i := slices.Index(planOrder, current)
	if i < 0 || i == len(planOrder)-1 {
		return PlanNone
	}
	return planOrder[i+1]
}

func planDescription(plan Plan) string {
	return planTable[plan].description
}
