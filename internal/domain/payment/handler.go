package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gallopmart/internal/domain/subscription"
	"gallopmart/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder godoc
// @Summary      Create a gateway order for a paid plan
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body CreateOrderRequest true "Plan"
// @Success      201 {object} CreateOrderResponse
// @Failure      400 {object} map[string]interface{}
// @Router       /seller/subscribe/create-order [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	sellerID := c.GetInt64("seller_id")
	if sellerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "seller profile required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), sellerID, req.Plan)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp)
}

// VerifyPayment godoc
// @Summary      Verify a completed payment and activate the plan
// @Tags         Payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body VerifyPaymentRequest true "Gateway callback fields"
// @Success      200 {object} subscription.SubscriptionResponse
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /seller/subscribe/verify-payment [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	sellerID := c.GetInt64("seller_id")
	if sellerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "seller profile required")
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	sub, err := h.service.VerifyPayment(c.Request.Context(), sellerID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, subscription.ToResponse(sub, h.service.now()))
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", err.Error())
	case errors.Is(err, ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
	case errors.Is(err, ErrPlanNotPayable):
		response.Error(c, http.StatusBadRequest, "PLAN_NOT_PAYABLE", err.Error())
	case errors.Is(err, ErrNotConfigured):
		_ = c.Error(err)
		response.Error(c, http.StatusServiceUnavailable, "PAYMENTS_UNAVAILABLE", err.Error())
	default:
		subscription.WriteError(c, err)
	}
}
