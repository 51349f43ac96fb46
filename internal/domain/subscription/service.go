package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// UsageReader is implemented by the seller/listing side to report how much of
// a plan a seller currently consumes.
type UsageReader interface {
	Usage(ctx context.Context, sellerID int64, now time.Time) (Usage, error)
}

// Service handles subscription business logic for sellers.
type Service struct {
	repo  Repository
	usage UsageReader
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(repo Repository, usage UsageReader, log zerolog.Logger) *Service {
	return &Service{repo: repo, usage: usage, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock swaps the time source; tests use it to step past expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetPlans returns all plans in upgrade order.
func (s *Service) GetPlans() []PlanResponse {
	plans := Plans()
	resp := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		resp = append(resp, planToResponse(p))
	}
	return resp
}

// GetSubscription returns the seller's subscription. A row past its end date
// is reported as expired even before the sweep has persisted that.
func (s *Service) GetSubscription(ctx context.Context, sellerID int64) (*Subscription, error) {
	sub, err := s.repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	Expire(sub, s.now())
	return sub, nil
}

// ActiveSubscription returns the subscription only if it is usable right now.
func (s *Service) ActiveSubscription(ctx context.Context, sellerID int64) (*Subscription, error) {
	sub, err := s.repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !IsActive(sub, s.now()) {
		return nil, ErrSubscriptionInactive
	}
	return sub, nil
}

// Subscribe activates plan directly. Only the Free plan can go this way;
// paid plans have to come through the payment flow.
func (s *Service) Subscribe(ctx context.Context, sellerID int64, planName string) (*Subscription, error) {
	plan, err := ParsePlan(planName)
	if err != nil {
		return nil, err
	}
	if RequiresPayment(plan) {
		return nil, ErrPaymentNotVerified
	}
	return s.ActivateWithProof(ctx, sellerID, plan, PaymentProof{})
}

// ActivateWithProof is called once a payment has been verified.
func (s *Service) ActivateWithProof(ctx context.Context, sellerID int64, plan Plan, proof PaymentProof) (*Subscription, error) {
	current, err := s.repo.GetBySellerID(ctx, sellerID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}

	next, err := Activate(current, sellerID, plan, proof, s.now())
	if err != nil {
		s.log.Warn().Err(err).Int64("seller_id", sellerID).Str("plan", string(plan)).Msg("subscription activation rejected")
		return nil, err
	}
	if err := s.repo.Upsert(ctx, next); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}

	s.log.Info().
		Int64("seller_id", sellerID).
		Str("plan", string(plan)).
		Time("end_date", next.EndDate.Time).
		Str("payment_ref", proof.Reference).
		Msg("subscription activated")

	return s.repo.GetBySellerID(ctx, sellerID)
}

// Cancel resets the seller's subscription to inactive with no plan.
func (s *Service) Cancel(ctx context.Context, sellerID int64) (*Subscription, error) {
	current, err := s.repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	next, err := Cancel(current, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, next); err != nil {
		return nil, fmt.Errorf("save subscription: %w", err)
	}
	s.log.Info().Int64("seller_id", sellerID).Str("previous_plan", string(current.Plan)).Msg("subscription cancelled")
	return s.repo.GetBySellerID(ctx, sellerID)
}

// GetUsage returns current usage vs plan limits for a seller.
func (s *Service) GetUsage(ctx context.Context, sellerID int64) (*UsageResponse, error) {
	sub, err := s.repo.GetBySellerID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var usage Usage
	if s.usage != nil {
		usage, err = s.usage.Usage(ctx, sellerID, now)
		if err != nil {
			return nil, fmt.Errorf("load usage: %w", err)
		}
	}

	bundle := FeatureBundle{}
	if IsActive(sub, now) {
		bundle = sub.Bundle()
	}
	return &UsageResponse{
		Plan:              string(sub.Plan),
		Status:            string(EffectiveStatus(sub, now)),
		Limits:            bundle,
		ActiveListings:    usage.ActiveListings,
		SpotlightsUsed:    usage.SpotlightsUsedThisMonth,
		CanCreateListing:  CanCreateListing(usage, sub, now),
		CanAddSpotlight:   CanAddSpotlight(usage, sub, now),
		SuggestedUpgrade:  string(NextPlan(sub.Plan)),
		PlanTableVersion:  sub.PlanTableVersion,
		SubscriptionEndAt: formatNullTime(sub.EndDate),
	}, nil
}

// ExpireStale is called by a background job
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	n, err := s.repo.ExpireStale(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int("count", n).Msg("expired stale subscriptions")
	}
	return n, nil
}
