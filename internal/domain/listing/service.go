package listing

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gallopmart/internal/domain/seller"
	"gallopmart/internal/domain/subscription"
)

// expireBatch bounds one pass of the listing expiry sweep.
const expireBatch = 500

// SubscriptionReader is the part of the subscription service listings need.
type SubscriptionReader interface {
	ActiveSubscription(ctx context.Context, sellerID int64) (*subscription.Subscription, error)
}

// QuotaCounter is the seller-side counter store.
type QuotaCounter interface {
	AddTotalListings(ctx context.Context, id int64, delta int) error
	IncrementActiveListings(ctx context.Context, id int64, delta, ceiling int) (int, error)
	IncrementSpotlights(ctx context.Context, id int64, ceiling int, now time.Time) (int, error)
	ReleaseSpotlight(ctx context.Context, id int64, now time.Time) error
}

type Service struct {
	repo    Repository
	subs    SubscriptionReader
	counter QuotaCounter
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(repo Repository, subs SubscriptionReader, counter QuotaCounter, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		subs:    subs,
		counter: counter,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateDraft stores an unpublished listing. Drafts do not count towards the
// active listing quota.
func (s *Service) CreateDraft(ctx context.Context, sellerID int64, req CreateDraftRequest) (*Listing, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if req.PhotoCount < 0 || req.VideoCount < 0 {
		return nil, ErrInvalidMedia
	}

	// Reject oversized media early when the plan is known; Publish checks again.
	sub, err := s.subs.ActiveSubscription(ctx, sellerID)
	switch {
	case err == nil:
		if err := subscription.CheckMedia(sub, req.PhotoCount, req.VideoCount); err != nil {
			return nil, err
		}
	case !errors.Is(err, subscription.ErrSubscriptionInactive) && !errors.Is(err, subscription.ErrSubscriptionNotFound):
		return nil, err
	}

	l := &Listing{
		SellerID:   sellerID,
		Title:      title,
		Status:     StatusDraft,
		PhotoCount: req.PhotoCount,
		VideoCount: req.VideoCount,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	if err := s.counter.AddTotalListings(ctx, sellerID, 1); err != nil {
		s.log.Warn().Err(err).Int64("seller_id", sellerID).Msg("failed to bump total listings")
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, sellerID, id int64) (*Listing, error) {
	return s.repo.GetForSeller(ctx, id, sellerID)
}

// Publish makes a listing live. The slot is claimed against the plan ceiling
// first; the listing then moves only if it is still in the status that was
// read, so concurrent publishes of one listing hold a single slot.
func (s *Service) Publish(ctx context.Context, sellerID, id int64) (*Listing, error) {
	now := s.now()
	l, err := s.repo.GetForSeller(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	if l.IsLive(now) {
		return nil, ErrAlreadyPublished
	}

	sub, err := s.subs.ActiveSubscription(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if err := subscription.CheckMedia(sub, l.PhotoCount, l.VideoCount); err != nil {
		return nil, err
	}

	// An active row past its expiry still holds a slot until released.
	if l.Status == StatusActive {
		if err := s.release(ctx, l, StatusExpired); err != nil && !errors.Is(err, ErrNotPublished) {
			return nil, err
		}
		l.Status = StatusExpired
	}

	bundle := sub.Bundle()
	if _, err := s.counter.IncrementActiveListings(ctx, sellerID, 1, bundle.MaxListings); err != nil {
		if errors.Is(err, seller.ErrQuotaExceeded) {
			return nil, limitError(subscription.ErrListingLimitReached, bundle.MaxListings, bundle.MaxListings, sub.Plan)
		}
		return nil, err
	}

	publishedAt := now
	expiresAt := now.AddDate(0, 0, bundle.ListingDurationDays)
	claimed, err := s.repo.UpdateIfStatus(ctx, l.ID, l.Status, map[string]any{
		"status":          StatusActive,
		"featured":        bundle.FeaturedListings,
		"published_at":    publishedAt,
		"expires_at":      expiresAt,
		"boosted_until":   nil,
		"spotlight_until": nil,
	})
	if err != nil || !claimed {
		s.returnSlot(ctx, sellerID)
		if err != nil {
			return nil, err
		}
		return nil, ErrAlreadyPublished
	}

	l.Status = StatusActive
	l.Featured = bundle.FeaturedListings
	l.PublishedAt = validTime(publishedAt)
	l.ExpiresAt = validTime(expiresAt)
	l.BoostedUntil = sql.NullTime{}
	l.SpotlightUntil = sql.NullTime{}

	s.log.Info().
		Int64("seller_id", sellerID).
		Int64("listing_id", l.ID).
		Str("plan", string(sub.Plan)).
		Time("expires_at", expiresAt).
		Msg("listing published")
	return l, nil
}

// Unpublish returns a live listing to draft and frees its slot.
func (s *Service) Unpublish(ctx context.Context, sellerID, id int64) (*Listing, error) {
	l, err := s.repo.GetForSeller(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	if l.Status != StatusActive {
		return nil, ErrNotPublished
	}
	if err := s.release(ctx, l, StatusDraft); err != nil {
		return nil, err
	}
	l.Status = StatusDraft
	l.BoostedUntil = sql.NullTime{}
	l.SpotlightUntil = sql.NullTime{}
	if _, err := s.repo.UpdateIfStatus(ctx, l.ID, StatusDraft, map[string]any{
		"boosted_until":   nil,
		"spotlight_until": nil,
	}); err != nil {
		return nil, err
	}
	return l, nil
}

// Boost raises a live listing in search for the plan's boost window.
func (s *Service) Boost(ctx context.Context, sellerID, id int64) (*Listing, error) {
	now := s.now()
	l, sub, err := s.liveWithSubscription(ctx, sellerID, id, now)
	if err != nil {
		return nil, err
	}
	days := sub.Bundle().BoostDurationDays
	if days <= 0 {
		return nil, limitError(subscription.ErrFeatureNotAvailable, 0, 0, sub.Plan)
	}
	until := now.AddDate(0, 0, days)
	ok, err := s.repo.UpdateIfStatus(ctx, l.ID, StatusActive, map[string]any{"boosted_until": until})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotPublished
	}
	l.BoostedUntil = validTime(until)
	return l, nil
}

// Spotlight consumes one of the seller's monthly spotlights. The spotlight is
// handed back if the listing cannot be updated.
func (s *Service) Spotlight(ctx context.Context, sellerID, id int64) (*Listing, error) {
	now := s.now()
	l, sub, err := s.liveWithSubscription(ctx, sellerID, id, now)
	if err != nil {
		return nil, err
	}
	bundle := sub.Bundle()
	if bundle.SpotlightsPerMonth <= 0 || bundle.SpotlightDurationDays <= 0 {
		return nil, limitError(subscription.ErrFeatureNotAvailable, 0, 0, sub.Plan)
	}
	if _, err := s.counter.IncrementSpotlights(ctx, sellerID, bundle.SpotlightsPerMonth, now); err != nil {
		if errors.Is(err, seller.ErrQuotaExceeded) {
			return nil, limitError(subscription.ErrSpotlightLimitReached, bundle.SpotlightsPerMonth, bundle.SpotlightsPerMonth, sub.Plan)
		}
		return nil, err
	}

	until := now.AddDate(0, 0, bundle.SpotlightDurationDays)
	ok, err := s.repo.UpdateIfStatus(ctx, l.ID, StatusActive, map[string]any{"spotlight_until": until})
	if err != nil || !ok {
		if rerr := s.counter.ReleaseSpotlight(ctx, sellerID, now); rerr != nil {
			s.log.Error().Err(rerr).Int64("seller_id", sellerID).Msg("failed to return spotlight")
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrNotPublished
	}
	l.SpotlightUntil = validTime(until)
	return l, nil
}

// ExpireListings moves listings past their expiry to expired and frees their
// slots. Safe to run repeatedly and concurrently with Publish.
func (s *Service) ExpireListings(ctx context.Context) (int, error) {
	now := s.now()
	total := 0
	for {
		batch, err := s.repo.ListExpired(ctx, now, expireBatch)
		if err != nil {
			return total, err
		}
		moved := 0
		for i := range batch {
			if err := s.release(ctx, &batch[i], StatusExpired); err != nil {
				if errors.Is(err, ErrNotPublished) {
					continue
				}
				return total, err
			}
			moved++
		}
		total += moved
		if len(batch) < expireBatch || moved == 0 {
			break
		}
	}
	if total > 0 {
		s.log.Info().Int("count", total).Msg("expired listings")
	}
	return total, nil
}

func (s *Service) Visibility(ctx context.Context, sellerID, id int64) (Visibility, error) {
	l, err := s.repo.GetForSeller(ctx, id, sellerID)
	if err != nil {
		return Visibility{}, err
	}
	return VisibilityAt(l, s.now()), nil
}

func (s *Service) liveWithSubscription(ctx context.Context, sellerID, id int64, now time.Time) (*Listing, *subscription.Subscription, error) {
	l, err := s.repo.GetForSeller(ctx, id, sellerID)
	if err != nil {
		return nil, nil, err
	}
	if !l.IsLive(now) {
		return nil, nil, ErrNotPublished
	}
	sub, err := s.subs.ActiveSubscription(ctx, sellerID)
	if err != nil {
		return nil, nil, err
	}
	return l, sub, nil
}

// release moves an active listing to status and returns its slot. Only the
// caller that wins the status transition decrements the counter.
func (s *Service) release(ctx context.Context, l *Listing, to Status) error {
	moved, err := s.repo.TransitionStatus(ctx, l.ID, StatusActive, to)
	if err != nil {
		return err
	}
	if !moved {
		return ErrNotPublished
	}
	if _, err := s.counter.IncrementActiveListings(ctx, l.SellerID, -1, seller.NoCeiling); err != nil {
		// Counter already at zero; nothing more to give back.
		if errors.Is(err, seller.ErrQuotaExceeded) {
			s.log.Warn().Int64("seller_id", l.SellerID).Int64("listing_id", l.ID).Msg("active listing counter already zero")
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) returnSlot(ctx context.Context, sellerID int64) {
	if _, err := s.counter.IncrementActiveListings(ctx, sellerID, -1, seller.NoCeiling); err != nil {
		s.log.Error().Err(err).Int64("seller_id", sellerID).Msg("failed to return listing slot")
	}
}

func limitError(err error, current, limit int, plan subscription.Plan) *subscription.LimitError {
	return &subscription.LimitError{
		Err:       err,
		Current:   current,
		Limit:     limit,
		PlanName:  string(plan),
		UpgradeTo: string(subscription.NextPlan(plan)),
	}
}

func validTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}
