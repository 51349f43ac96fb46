package badge

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	ListBySeller(ctx context.Context, sellerID int64) ([]Badge, error)
	// Upsert inserts the badge or renews the award of an existing one.
	Upsert(ctx context.Context, b *Badge) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListBySeller(ctx context.Context, sellerID int64) ([]Badge, error) {
	var out []Badge
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("awarded_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) Upsert(ctx context.Context, b *Badge) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "seller_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"awarded_at", "expires_at", "updated_at"}),
	}).Create(b).Error
}

func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&Badge{})
	return int(res.RowsAffected), res.Error
}
