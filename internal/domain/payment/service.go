package payment

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gallopmart/internal/domain/subscription"
)

// Activator turns a verified payment into an active subscription.
type Activator interface {
	ActivateWithProof(ctx context.Context, sellerID int64, plan subscription.Plan, proof subscription.PaymentProof) (*subscription.Subscription, error)
	GetSubscription(ctx context.Context, sellerID int64) (*subscription.Subscription, error)
}

type Config struct {
	KeyID     string
	KeySecret string
}

type Service struct {
	repo      Repository
	activator Activator
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, activator Activator, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		activator: activator,
		cfg:       cfg,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder registers a gateway order for a paid plan. The client completes
// checkout with the returned order id and key id.
func (s *Service) CreateOrder(ctx context.Context, sellerID int64, planName string) (*CreateOrderResponse, error) {
	if s.cfg.KeyID == "" || s.cfg.KeySecret == "" {
		return nil, ErrNotConfigured
	}
	plan, err := subscription.ParsePlan(planName)
	if err != nil {
		return nil, err
	}
	if !subscription.RequiresPayment(plan) {
		return nil, ErrPlanNotPayable
	}
	amount, err := subscription.PricePaise(plan)
	if err != nil {
		return nil, err
	}
	gatewayID, err := newGatewayOrderID()
	if err != nil {
		return nil, fmt.Errorf("generate order id: %w", err)
	}

	o := &Order{
		SellerID:       sellerID,
		Plan:           plan,
		GatewayOrderID: gatewayID,
		AmountPaise:    amount,
		Currency:       CurrencyINR,
		Status:         OrderStatusCreated,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("save order failed: %w", err)
	}

	s.log.Info().
		Int64("seller_id", sellerID).
		Str("order_id", gatewayID).
		Str("plan", string(plan)).
		Int64("amount_paise", amount).
		Msg("payment order created")
	return buildCreateOrderResponse(o, s.cfg.KeyID), nil
}

// VerifyPayment checks the gateway signature and activates the plan of the
// order. A paid order whose plan was already applied returns the current
// subscription; one whose activation failed earlier is activated again.
func (s *Service) VerifyPayment(ctx context.Context, sellerID int64, req VerifyPaymentRequest) (*subscription.Subscription, error) {
	o, err := s.repo.GetByGatewayOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.SellerID != sellerID {
		return nil, ErrOrderNotFound
	}

	valid := s.validSignature(req.OrderID, req.PaymentID, req.Signature)
	s.log.Info().Str("order_id", req.OrderID).Bool("signature_valid", valid).Msg("payment signature validation")
	if !valid {
		if err := s.repo.MarkFailed(ctx, req.OrderID, "invalid signature"); err != nil {
			s.log.Error().Err(err).Str("order_id", req.OrderID).Msg("failed to mark order failed")
		}
		return nil, ErrInvalidSignature
	}

	changed, err := s.repo.MarkPaid(ctx, req.OrderID, req.PaymentID, s.now())
	if err != nil {
		return nil, err
	}
	reference := req.PaymentID
	if !changed {
		o, err = s.repo.GetByGatewayOrderID(ctx, req.OrderID)
		if err != nil {
			return nil, err
		}
		if o.ActivatedAt != nil {
			s.log.Info().Str("order_id", req.OrderID).Msg("order already paid")
			return s.activator.GetSubscription(ctx, sellerID)
		}
		if o.PaymentID.Valid {
			reference = o.PaymentID.String
		}
		s.log.Warn().Str("order_id", req.OrderID).Msg("order paid but plan not applied, activating again")
	}

	sub, err := s.activator.ActivateWithProof(ctx, sellerID, o.Plan, subscription.PaymentProof{
		Accepted:  true,
		Reference: reference,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("seller_id", sellerID).Str("order_id", req.OrderID).Msg("activation after payment failed")
		return nil, err
	}
	if err := s.repo.MarkActivated(ctx, req.OrderID, s.now()); err != nil {
		s.log.Error().Err(err).Str("order_id", req.OrderID).Msg("failed to record activation")
	}
	return sub, nil
}

// Sign returns the signature the gateway sends for a completed payment.
func (s *Service) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Service) validSignature(orderID, paymentID, signature string) bool {
	if s.cfg.KeySecret == "" {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(s.Sign(orderID, paymentID))
	return hmac.Equal(got, want)
}

func newGatewayOrderID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "order_" + hex.EncodeToString(b), nil
}
