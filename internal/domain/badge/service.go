package badge

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"gallopmart/internal/domain/seller"
	"gallopmart/internal/domain/subscription"
)

type SellerReader interface {
	Get(ctx context.Context, id int64) (*seller.Seller, error)
}

type SubscriptionReader interface {
	GetSubscription(ctx context.Context, sellerID int64) (*subscription.Subscription, error)
}

// Source tells earned badges apart from ones that come with the plan.
type Source string

const (
	SourceEarned Source = "earned"
	SourcePlan   Source = "plan"
)

// View is a badge as shown on the seller's profile.
type View struct {
	Name      string    `json:"name"`
	Source    Source    `json:"source"`
	AwardedAt time.Time `json:"awarded_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	repo    Repository
	sellers SellerReader
	subs    SubscriptionReader
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(repo Repository, sellers SellerReader, subs SubscriptionReader, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		sellers: sellers,
		subs:    subs,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// StatsFor builds badge stats from a seller profile.
func StatsFor(sel *seller.Seller) Stats {
	return Stats{
		TotalSales:        sel.TotalSales,
		Rating:            sel.Rating,
		TotalListings:     sel.TotalListings,
		VerificationLevel: string(sel.VerificationLevel),
	}
}

// Refresh awards badges the seller newly qualifies for and renews the ones
// that have lapsed. Badges still current keep their original award date.
func (s *Service) Refresh(ctx context.Context, sellerID int64) ([]View, error) {
	now := s.now()
	sel, err := s.sellers.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	sub, err := s.activeSubscription(ctx, sellerID, now)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	current := make(map[string]bool, len(stored))
	for _, b := range CurrentBadges(stored, now) {
		current[b.Name] = true
	}

	for _, name := range ComputeEligibleBadges(StatsFor(sel), sub) {
		if current[name] {
			continue
		}
		b := &Badge{SellerID: sellerID, Name: name, AwardedAt: now, ExpiresAt: ExpiryFor(now)}
		if err := s.repo.Upsert(ctx, b); err != nil {
			return nil, err
		}
		s.log.Info().Int64("seller_id", sellerID).Str("badge", name).Msg("badge awarded")
	}

	return s.current(ctx, sellerID, sub, now)
}

// Current returns the seller's unexpired earned badges plus the badges of an
// active plan.
func (s *Service) Current(ctx context.Context, sellerID int64) ([]View, error) {
	now := s.now()
	if _, err := s.sellers.Get(ctx, sellerID); err != nil {
		return nil, err
	}
	sub, err := s.activeSubscription(ctx, sellerID, now)
	if err != nil {
		return nil, err
	}
	return s.current(ctx, sellerID, sub, now)
}

// Prune deletes stored badges that have expired.
func (s *Service) Prune(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int("count", n).Msg("expired badges pruned")
	}
	return n, nil
}

func (s *Service) current(ctx context.Context, sellerID int64, sub *subscription.Subscription, now time.Time) ([]View, error) {
	stored, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(stored)+1)
	for _, b := range CurrentBadges(stored, now) {
		views = append(views, View{Name: b.Name, Source: SourceEarned, AwardedAt: b.AwardedAt, ExpiresAt: b.ExpiresAt})
	}
	if sub != nil {
		for _, name := range sub.Bundle().Badges {
			views = append(views, View{Name: name, Source: SourcePlan, AwardedAt: sub.StartDate.Time, ExpiresAt: sub.EndDate.Time})
		}
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views, nil
}

// activeSubscription returns nil when the seller has no usable plan.
func (s *Service) activeSubscription(ctx context.Context, sellerID int64, now time.Time) (*subscription.Subscription, error) {
	sub, err := s.subs.GetSubscription(ctx, sellerID)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !subscription.IsActive(sub, now) {
		return nil, nil
	}
	return sub, nil
}
