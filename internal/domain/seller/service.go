package seller

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gallopmart/internal/domain/subscription"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateProfile creates a seller together with an inactive, plan-less
// subscription.
func (s *Service) CreateProfile(ctx context.Context, userID int64, stableName string) (*Seller, error) {
	stableName = strings.TrimSpace(stableName)
	if stableName == "" {
		return nil, ErrInvalidStableName
	}
	sel := &Seller{
		UserID:            userID,
		StableName:        stableName,
		VerificationLevel: VerificationNone,
	}
	if err := s.repo.CreateWithSubscription(ctx, sel); err != nil {
		return nil, err
	}
	s.log.Info().Int64("seller_id", sel.ID).Int64("user_id", userID).Msg("seller profile created")
	return sel, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Seller, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Seller, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// UpdateStats records figures reported by the order and review side.
func (s *Service) UpdateStats(ctx context.Context, id int64, upd StatsUpdate) error {
	if upd.Rating != nil && (*upd.Rating < 0 || *upd.Rating > 5) {
		return ErrInvalidRating
	}
	if upd.VerificationLevel != nil && !upd.VerificationLevel.Valid() {
		return ErrInvalidVerification
	}
	return s.repo.UpdateStats(ctx, id, upd)
}

// Usage implements subscription.UsageReader from the seller's counters.
func (s *Service) Usage(ctx context.Context, sellerID int64, now time.Time) (subscription.Usage, error) {
	sel, err := s.repo.GetByID(ctx, sellerID)
	if err != nil {
		return subscription.Usage{}, err
	}
	return subscription.Usage{
		ActiveListings:          sel.ActiveListingsCount,
		SpotlightsUsedThisMonth: sel.SpotlightsUsedIn(now),
	}, nil
}

// ResetMonthlySpotlights is run by the scheduler on the first of each month.
func (s *Service) ResetMonthlySpotlights(ctx context.Context, now time.Time) (int, error) {
	n, err := s.repo.ResetMonthlySpotlights(ctx, now)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int("count", n).Str("period", Period(now)).Msg("spotlight counters reset")
	return n, nil
}
