package seller

import (
	"time"
)

// VerificationLevel of the seller's identity/stable checks. This is separate
// from the verification level a plan grants.
type VerificationLevel string

const (
	VerificationNone         VerificationLevel = "none"
	VerificationBasic        VerificationLevel = "basic"
	VerificationProfessional VerificationLevel = "professional"
)

func (v VerificationLevel) Valid() bool {
	switch v {
	case VerificationNone, VerificationBasic, VerificationProfessional:
		return true
	}
	return false
}

// Seller is a plain record; plan rules live in the subscription package and
// receive sellers as arguments.
type Seller struct {
	ID                int64             `gorm:"column:id;primaryKey" json:"id"`
	UserID            int64             `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	StableName        string            `gorm:"column:stable_name;type:varchar(120);not null" json:"stable_name"`
	VerificationLevel VerificationLevel `gorm:"column:verification_level;type:varchar(16);not null;default:'none'" json:"verification_level"`

	TotalSales    int     `gorm:"column:total_sales;not null;default:0" json:"total_sales"`
	Rating        float64 `gorm:"column:rating;not null;default:0" json:"rating"`
	TotalListings int     `gorm:"column:total_listings;not null;default:0" json:"total_listings"`

	// Quota counters, only changed through the repository's conditional updates.
	ActiveListingsCount int    `gorm:"column:active_listings_count;not null;default:0" json:"active_listings_count"`
	SpotlightsUsed      int    `gorm:"column:spotlights_used;not null;default:0" json:"spotlights_used"`
	SpotlightsPeriod    string `gorm:"column:spotlights_period;type:varchar(7);not null;default:''" json:"spotlights_period"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Seller) TableName() string { return "sellers" }

// SpotlightsUsedIn returns the spotlight counter for the month of now. A
// counter left over from an earlier month reads as zero.
func (s *Seller) SpotlightsUsedIn(now time.Time) int {
	if s.SpotlightsPeriod != Period(now) {
		return 0
	}
	return s.SpotlightsUsed
}

// Period is the calendar month key used for spotlight counters, e.g. "2024-06".
func Period(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// StatsUpdate carries sales figures reported by the (external) order side.
type StatsUpdate struct {
	TotalSales        *int
	Rating            *float64
	VerificationLevel *VerificationLevel
}
