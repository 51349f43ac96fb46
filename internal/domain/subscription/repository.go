package subscription

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles persistence for subscription data
type Repository interface {
	GetBySellerID(ctx context.Context, sellerID int64) (*Subscription, error)
	CreateInactive(ctx context.Context, sellerID int64) (*Subscription, error)
	Upsert(ctx context.Context, sub *Subscription) error
	ExpireStale(ctx context.Context, now time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetBySellerID returns ErrSubscriptionNotFound when the seller has no row.
func (r *repository) GetBySellerID(ctx context.Context, sellerID int64) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) CreateInactive(ctx context.Context, sellerID int64) (*Subscription, error) {
	sub := NewInactive(sellerID)
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Upsert writes sub as the seller's only subscription row in one statement.
func (r *repository) Upsert(ctx context.Context, sub *Subscription) error {
	sub.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "seller_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan", "status", "start_date", "end_date", "features",
			"plan_table_version", "payment_ref", "cancelled_at", "updated_at",
		}),
	}).Create(sub).Error
}

// ExpireStale flips every active subscription whose end date has passed.
// Running it twice is harmless.
func (r *repository) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", StatusActive, now).
		Updates(map[string]any{
			"status":     StatusExpired,
			"updated_at": now,
		})
	return int(result.RowsAffected), result.Error
}
