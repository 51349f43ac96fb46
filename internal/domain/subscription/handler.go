package subscription

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gallopmart/internal/pkg/response"
)

// Handler handles HTTP requests for subscription management.
// Seller routes expect "seller_id" to be set by the seller middleware.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetPlans godoc
// @Summary List all subscription plans
// @Tags Subscriptions
// @Produce json
// @Success 200 {array} PlanResponse
// @Router /plans [get]
func (h *Handler) GetPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.GetPlans())
}

// GetMySubscription godoc
// @Summary Get the authenticated seller's subscription
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SubscriptionResponse
// @Router /seller/subscription [get]
func (h *Handler) GetMySubscription(c *gin.Context) {
	sellerID := mustSellerID(c)
	if sellerID == 0 {
		return
	}

	sub, err := h.service.GetSubscription(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, buildSubscriptionResponse(sub, h.service.now()))
}

// Subscribe godoc
// @Summary Activate a plan that needs no payment (Free)
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body SubscribeRequest true "Plan"
// @Success 201 {object} SubscriptionResponse
// @Failure 402 {object} map[string]interface{}
// @Router /seller/subscribe [post]
func (h *Handler) Subscribe(c *gin.Context) {
	sellerID := mustSellerID(c)
	if sellerID == 0 {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	sub, err := h.service.Subscribe(c.Request.Context(), sellerID, req.Plan)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, buildSubscriptionResponse(sub, h.service.now()))
}

// Cancel godoc
// @Summary Cancel the current subscription
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SubscriptionResponse
// @Router /seller/subscription/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	sellerID := mustSellerID(c)
	if sellerID == 0 {
		return
	}

	sub, err := h.service.Cancel(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, buildSubscriptionResponse(sub, h.service.now()))
}

// GetUsage godoc
// @Summary Get current usage vs plan limits
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UsageResponse
// @Router /seller/subscription/usage [get]
func (h *Handler) GetUsage(c *gin.Context) {
	sellerID := mustSellerID(c)
	if sellerID == 0 {
		return
	}

	usage, err := h.service.GetUsage(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, usage)
}

// mustSellerID reads the seller resolved by middleware.
// Returns 0 and writes 401 if not found.
func mustSellerID(c *gin.Context) int64 {
	id := c.GetInt64("seller_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "seller profile required")
	}
	return id
}

// WriteError maps subscription errors onto HTTP responses. Other packages
// reuse it for errors that come out of the subscription core.
func WriteError(c *gin.Context, err error) {
	writeError(c, err)
}

func writeError(c *gin.Context, err error) {
	var limitErr *LimitError
	switch {
	case IsUnknownPlan(err):
		response.Error(c, http.StatusBadRequest, "UNKNOWN_PLAN", err.Error())
	case errors.Is(err, ErrPaymentNotVerified):
		response.Error(c, http.StatusPaymentRequired, "PAYMENT_REQUIRED", err.Error())
	case errors.Is(err, ErrSubscriptionInactive):
		response.Error(c, http.StatusPaymentRequired, "SUBSCRIPTION_INACTIVE", err.Error())
	case errors.Is(err, ErrSubscriptionNotFound):
		response.Error(c, http.StatusNotFound, "SUBSCRIPTION_NOT_FOUND", err.Error())
	case errors.Is(err, ErrNothingToCancel):
		response.Error(c, http.StatusConflict, "NOT_ACTIVE", err.Error())
	case errors.As(err, &limitErr):
		response.ErrorWithDetails(c, http.StatusForbidden, "PLAN_LIMIT", err.Error(), gin.H{
			"current":    limitErr.Current,
			"limit":      limitErr.Limit,
			"plan":       limitErr.PlanName,
			"upgrade_to": limitErr.UpgradeTo,
		})
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
