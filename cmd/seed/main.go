package main

import (
	"context"
	"errors"
	"fmt"

	"gallopmart/internal/app"
	"gallopmart/internal/config"
	"gallopmart/internal/database"
	"gallopmart/internal/domain/listing"
	"gallopmart/internal/domain/seller"
	"gallopmart/internal/domain/subscription"
	"gallopmart/internal/pkg/logger"
)

type demoSeller struct {
	userID     int64
	stableName string
	plan       subscription.Plan
	sales      int
	rating     float64
	level      seller.VerificationLevel
	listings   []string
}

var demoSellers = []demoSeller{
	{2001, "Pushkar Horse Traders", subscription.PlanFree, 0, 0, seller.VerificationBasic, []string{"Marwari filly, 2 yrs"}},
	{2002, "Kathiawar Stud Farm", subscription.PlanTrot, 3, 4.2, seller.VerificationNone, []string{"Kathiawari stallion", "Kathiawari mare in foal"}},
	{2003, "Jodhpur Polo Stables", subscription.PlanGallop, 8, 4.7, seller.VerificationBasic, []string{"Thoroughbred polo pony", "Retired racehorse", "Marwari gelding"}},
	{2004, "Royal Rajputana Stables", subscription.PlanRoyalStallion, 25, 4.9, seller.VerificationProfessional, []string{"Champion Marwari stallion", "Dressage warmblood", "Show jumper"}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{ServiceName: "seed"})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsProd() {
		bootLog := logger.New(logger.Options{ServiceName: "seed"})
		bootLog.Fatal().Msg("refusing to seed a production database")
	}

	log := logger.New(logger.Options{ServiceName: "seed", Level: cfg.LogLevel, Format: "console"})

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("DB connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	a, err := app.New(cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build app")
	}

	ctx := context.Background()
	for _, d := range demoSellers {
		if err := seedSeller(ctx, a, d); err != nil {
			log.Fatal().Err(err).Str("stable", d.stableName).Msg("seed failed")
		}
		token, err := a.JWT.GenerateToken(d.userID, "seller")
		if err != nil {
			log.Fatal().Err(err).Msg("token generation failed")
		}
		fmt.Printf("%-26s plan=%-15s user_id=%d\n  token: %s\n", d.stableName, d.plan, d.userID, token)
	}
}

func seedSeller(ctx context.Context, a *app.App, d demoSeller) error {
	sel, err := a.Sellers.CreateProfile(ctx, d.userID, d.stableName)
	if errors.Is(err, seller.ErrSellerExists) {
		// Already seeded.
		return nil
	}
	if err != nil {
		return err
	}

	if subscription.RequiresPayment(d.plan) {
		_, err = a.Subscriptions.ActivateWithProof(ctx, sel.ID, d.plan, subscription.PaymentProof{Accepted: true, Reference: "seed"})
	} else {
		_, err = a.Subscriptions.Subscribe(ctx, sel.ID, string(d.plan))
	}
	if err != nil {
		return fmt.Errorf("activate %s: %w", d.plan, err)
	}

	if err := a.Sellers.UpdateStats(ctx, sel.ID, seller.StatsUpdate{
		TotalSales:        &d.sales,
		Rating:            &d.rating,
		VerificationLevel: &d.level,
	}); err != nil {
		return err
	}

	for _, title := range d.listings {
		l, err := a.Listings.CreateDraft(ctx, sel.ID, listing.CreateDraftRequest{Title: title, PhotoCount: 1})
		if err != nil {
			return err
		}
		if _, err := a.Listings.Publish(ctx, sel.ID, l.ID); err != nil && !errors.Is(err, subscription.ErrListingLimitReached) {
			return fmt.Errorf("publish %q: %w", title, err)
		}
	}

	_, err = a.Badges.Refresh(ctx, sel.ID)
	return err
}
