package subscription

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status of a subscription as stored. Read sites must go through IsActive or
// EffectiveStatus because a stored "active" may already be past its end date.
type Status string

const (
	StatusInactive  Status = "inactive"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Subscription is the per-seller plan assignment. Exactly one row per seller.
type Subscription struct {
	ID               string                            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SellerID         int64                             `gorm:"column:seller_id;not null;uniqueIndex" json:"seller_id"`
	Plan             Plan                              `gorm:"column:plan;type:varchar(32);not null;default:''" json:"plan"`
	Status           Status                            `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	StartDate        sql.NullTime                      `gorm:"column:start_date" json:"start_date"`
	EndDate          sql.NullTime                      `gorm:"column:end_date;index" json:"end_date"`
	Features         datatypes.JSONType[FeatureBundle] `gorm:"column:features" json:"features"`
	PlanTableVersion string                            `gorm:"column:plan_table_version;type:varchar(16)" json:"plan_table_version"`
	PaymentRef       sql.NullString                    `gorm:"column:payment_ref" json:"payment_ref,omitempty"`
	CancelledAt      sql.NullTime                      `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt        time.Time                         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time                         `gorm:"column:updated_at" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Bundle returns the snapshot taken at activation.
func (s *Subscription) Bundle() FeatureBundle {
	if s == nil {
		return FeatureBundle{}
	}
	return s.Features.Data()
}

// NewInactive is the subscription every seller profile starts with.
func NewInactive(sellerID int64) *Subscription {
	return &Subscription{
		ID:       uuid.NewString(),
		SellerID: sellerID,
		Plan:     PlanNone,
		Status:   StatusInactive,
		Features: datatypes.NewJSONType(FeatureBundle{}),
	}
}

// Usage is the seller's current consumption of plan quotas.
type Usage struct {
	ActiveListings          int
	SpotlightsUsedThisMonth int
}

// PaymentProof is what the payment collaborator hands over after verifying a
// gateway payment. The subscription core only looks at Accepted.
type PaymentProof struct {
	Accepted  bool
	Reference string
}
