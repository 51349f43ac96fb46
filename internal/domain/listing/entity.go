package listing

import (
	"database/sql"
	"time"
)

// Status of a horse listing as stored.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Listing holds only the fields the plan rules care about; the horse details
// belong to the catalogue side.
type Listing struct {
	ID             int64        `gorm:"column:id;primaryKey" json:"id"`
	SellerID       int64        `gorm:"column:seller_id;not null;index" json:"seller_id"`
	Title          string       `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Status         Status       `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	PhotoCount     int          `gorm:"column:photo_count;not null;default:0" json:"photo_count"`
	VideoCount     int          `gorm:"column:video_count;not null;default:0" json:"video_count"`
	Featured       bool         `gorm:"column:featured;not null;default:false" json:"featured"`
	PublishedAt    sql.NullTime `gorm:"column:published_at" json:"published_at"`
	ExpiresAt      sql.NullTime `gorm:"column:expires_at;index" json:"expires_at"`
	BoostedUntil   sql.NullTime `gorm:"column:boosted_until" json:"boosted_until"`
	SpotlightUntil sql.NullTime `gorm:"column:spotlight_until" json:"spotlight_until"`
	CreatedAt      time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"column:updated_at" json:"updated_at"`
}

func (Listing) TableName() string { return "listings" }

// IsLive reports whether the listing is published and not past its expiry.
func (l *Listing) IsLive(now time.Time) bool {
	return l.Status == StatusActive && l.ExpiresAt.Valid && now.Before(l.ExpiresAt.Time)
}

// Visibility is the read-time view of a listing's promotion state.
type Visibility struct {
	Status      Status `json:"status"`
	Boosted     bool   `json:"boosted"`
	Featured    bool   `json:"featured"`
	Spotlighted bool   `json:"spotlighted"`
}

// VisibilityAt evaluates expiry, boost and spotlight windows lazily.
func VisibilityAt(l *Listing, now time.Time) Visibility {
	if l.Status == StatusActive && !l.IsLive(now) {
		return Visibility{Status: StatusExpired}
	}
	if l.Status != StatusActive {
		return Visibility{Status: l.Status}
	}
	return Visibility{
		Status:      StatusActive,
		Boosted:     l.BoostedUntil.Valid && now.Before(l.BoostedUntil.Time),
		Featured:    l.Featured,
		Spotlighted: l.SpotlightUntil.Valid && now.Before(l.SpotlightUntil.Time),
	}
}
