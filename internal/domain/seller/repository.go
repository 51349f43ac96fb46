package seller

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"gallopmart/internal/domain/subscription"
)

// NoCeiling disables the upper bound of IncrementActiveListings.
const NoCeiling = math.MaxInt32

// Repository handles persistence for seller profiles and quota counters.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Seller, error)
	GetByUserID(ctx context.Context, userID int64) (*Seller, error)
	CreateWithSubscription(ctx context.Context, s *Seller) error
	UpdateStats(ctx context.Context, id int64, upd StatsUpdate) error
	AddTotalListings(ctx context.Context, id int64, delta int) error

	// IncrementActiveListings adds delta to the active listing counter and
	// returns the new value. It fails with ErrQuotaExceeded instead of going
	// above ceiling or below zero.
	IncrementActiveListings(ctx context.Context, id int64, delta, ceiling int) (int, error)
	// IncrementSpotlights consumes one spotlight for the month of now.
	IncrementSpotlights(ctx context.Context, id int64, ceiling int, now time.Time) (int, error)
	// ReleaseSpotlight hands back one spotlight taken in the month of now.
	ReleaseSpotlight(ctx context.Context, id int64, now time.Time) error
	CountSpotlightsThisMonth(ctx context.Context, id int64, now time.Time) (int, error)
	ResetMonthlySpotlights(ctx context.Context, now time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Seller, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *repository) GetByUserID(ctx context.Context, userID int64) (*Seller, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *repository) first(q *gorm.DB) (*Seller, error) {
	var s Seller
	if err := q.First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateWithSubscription inserts the seller and its inactive subscription in
// one transaction.
func (r *repository) CreateWithSubscription(ctx context.Context, s *Seller) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(s).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrSellerExists
			}
			return err
		}
		_, err := subscription.NewRepository(tx).CreateInactive(ctx, s.ID)
		return err
	})
}

func (r *repository) UpdateStats(ctx context.Context, id int64, upd StatsUpdate) error {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if upd.TotalSales != nil {
		fields["total_sales"] = *upd.TotalSales
	}
	if upd.Rating != nil {
		fields["rating"] = *upd.Rating
	}
	if upd.VerificationLevel != nil {
		fields["verification_level"] = *upd.VerificationLevel
	}
	res := r.db.WithContext(ctx).Model(&Seller{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSellerNotFound
	}
	return nil
}

func (r *repository) AddTotalListings(ctx context.Context, id int64, delta int) error {
	res := r.db.WithContext(ctx).Model(&Seller{}).
		Where("id = ?", id).
		UpdateColumn("total_listings", gorm.Expr("total_listings + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSellerNotFound
	}
	return nil
}

func (r *repository) IncrementActiveListings(ctx context.Context, id int64, delta, ceiling int) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Seller{}).
			Where("id = ? AND active_listings_count + ? >= 0 AND active_listings_count + ? <= ?", id, delta, delta, ceiling).
			UpdateColumn("active_listings_count", gorm.Expr("active_listings_count + ?", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.missOrQuota(tx, id)
		}
		return tx.Model(&Seller{}).Where("id = ?", id).Select("active_listings_count").Scan(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) IncrementSpotlights(ctx context.Context, id int64, ceiling int, now time.Time) (int, error) {
	period := Period(now)
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ceiling < 1 {
			return r.missOrQuota(tx, id)
		}
		// First spotlight of a new month restarts the counter.
		res := tx.Model(&Seller{}).
			Where("id = ? AND spotlights_period <> ?", id, period).
			UpdateColumns(map[string]any{"spotlights_used": 1, "spotlights_period": period})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			res = tx.Model(&Seller{}).
				Where("id = ? AND spotlights_period = ? AND spotlights_used < ?", id, period, ceiling).
				UpdateColumn("spotlights_used", gorm.Expr("spotlights_used + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return r.missOrQuota(tx, id)
			}
		}
		return tx.Model(&Seller{}).Where("id = ?", id).Select("spotlights_used").Scan(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ReleaseSpotlight(ctx context.Context, id int64, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&Seller{}).
		Where("id = ? AND spotlights_period = ? AND spotlights_used > 0", id, Period(now)).
		UpdateColumn("spotlights_used", gorm.Expr("spotlights_used - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missOrQuota(r.db.WithContext(ctx), id)
	}
	return nil
}

func (r *repository) CountSpotlightsThisMonth(ctx context.Context, id int64, now time.Time) (int, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return s.SpotlightsUsedIn(now), nil
}

// ResetMonthlySpotlights zeroes every counter that belongs to an earlier month.
func (r *repository) ResetMonthlySpotlights(ctx context.Context, now time.Time) (int, error) {
	period := Period(now)
	res := r.db.WithContext(ctx).Model(&Seller{}).
		Where("spotlights_period <> ?", period).
		UpdateColumns(map[string]any{"spotlights_used": 0, "spotlights_period": period})
	return int(res.RowsAffected), res.Error
}

func (r *repository) missOrQuota(tx *gorm.DB, id int64) error {
	var n int64
	if err := tx.Model(&Seller{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrSellerNotFound
	}
	return ErrQuotaExceeded
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
