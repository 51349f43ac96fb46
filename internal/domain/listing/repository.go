package listing

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, l *Listing) error
	GetForSeller(ctx context.Context, id, sellerID int64) (*Listing, error)
	// UpdateIfStatus writes fields only while the listing is still in status
	// and reports whether a row changed.
	UpdateIfStatus(ctx context.Context, id int64, status Status, fields map[string]any) (bool, error)
	// TransitionStatus moves a listing from one status to another and reports
	// whether this call performed the move.
	TransitionStatus(ctx context.Context, id int64, from, to Status) (bool, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]Listing, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, l *Listing) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) GetForSeller(ctx context.Context, id, sellerID int64) (*Listing, error) {
	var l Listing
	err := r.db.WithContext(ctx).Where("id = ? AND seller_id = ?", id, sellerID).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *repository) UpdateIfStatus(ctx context.Context, id int64, status Status, fields map[string]any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&Listing{}).
		Where("id = ? AND status = ?", id, status).
		Updates(fields)
	return res.RowsAffected == 1, res.Error
}

func (r *repository) TransitionStatus(ctx context.Context, id int64, from, to Status) (bool, error) {
	return r.UpdateIfStatus(ctx, id, from, map[string]any{"status": to})
}

func (r *repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]Listing, error) {
	var out []Listing
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", StatusActive, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
