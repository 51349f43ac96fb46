package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"gallopmart/internal/config"
	"gallopmart/internal/domain/badge"
	"gallopmart/internal/domain/listing"
	"gallopmart/internal/domain/payment"
	"gallopmart/internal/domain/seller"
	"gallopmart/internal/domain/subscription"
	"gallopmart/internal/middleware"
	"gallopmart/internal/pkg/jwt"
	"gallopmart/internal/pkg/response"
	"gallopmart/internal/scheduler"
)

// jobTimeout bounds a single sweep run.
const jobTimeout = 5 * time.Minute

// App holds the wired services. cmd/api serves Router; cmd/sweep only uses
// Scheduler.
type App struct {
	Router    *gin.Engine
	Scheduler *scheduler.Scheduler
	JWT       *jwt.Service

	Sellers       *seller.Service
	Subscriptions *subscription.Service
	Listings      *listing.Service
	Badges        *badge.Service
	Payments      *payment.Service
}

func New(cfg *config.Config, db *gorm.DB, log zerolog.Logger) (*App, error) {
	sellerRepo := seller.NewRepository(db)
	sellerService := seller.NewService(sellerRepo, log.With().Str("module", "seller").Logger())

	subscriptionService := subscription.NewService(
		subscription.NewRepository(db),
		sellerService,
		log.With().Str("module", "subscription").Logger(),
	)

	listingService := listing.NewService(
		listing.NewRepository(db),
		subscriptionService,
		sellerRepo,
		log.With().Str("module", "listing").Logger(),
	)

	badgeService := badge.NewService(
		badge.NewRepository(db),
		sellerService,
		subscriptionService,
		log.With().Str("module", "badge").Logger(),
	)

	paymentService := payment.NewService(
		payment.NewRepository(db),
		subscriptionService,
		payment.Config{KeyID: cfg.PaymentKeyID, KeySecret: cfg.PaymentKeySecret},
		log.With().Str("module", "payment").Logger(),
	)

	sched, err := scheduler.New(
		log.With().Str("module", "scheduler").Logger(),
		jobTimeout,
		scheduler.Jobs(subscriptionService, listingService, badgeService, sellerService)...,
	)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	a := &App{
		Scheduler:     sched,
		JWT:           jwtService,
		Sellers:       sellerService,
		Subscriptions: subscriptionService,
		Listings:      listingService,
		Badges:        badgeService,
		Payments:      paymentService,
	}
	a.Router = a.routes(cfg, log)
	return a, nil
}

func (a *App) routes(cfg *config.Config, log zerolog.Logger) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	subscriptionHandler := subscription.NewHandler(a.Subscriptions)
	listingHandler := listing.NewHandler(a.Listings)
	badgeHandler := badge.NewHandler(a.Badges)
	paymentHandler := payment.NewHandler(a.Payments)
	sellerHandler := seller.NewHandler(a.Sellers)

	v1 := r.Group("/api/v1")
	{
		subscription.RegisterPublicRoutes(v1, subscriptionHandler)
		badge.RegisterPublicRoutes(v1, badgeHandler)

		authed := v1.Group("/seller")
		authed.Use(middleware.JWTAuth(a.JWT), middleware.SellerOnly())
		seller.RegisterProfileRoutes(authed, sellerHandler)

		sellerGroup := authed.Group("")
		sellerGroup.Use(middleware.ResolveSeller(a.Sellers))
		{
			subscription.RegisterSellerRoutes(sellerGroup, subscriptionHandler)
			payment.RegisterSellerRoutes(sellerGroup, paymentHandler)
			listing.RegisterSellerRoutes(sellerGroup, listingHandler)
			badge.RegisterSellerRoutes(sellerGroup, badgeHandler)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(a.JWT), middleware.AdminOnly())
		seller.RegisterAdminRoutes(admin, sellerHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	return r
}
