package badge

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gallopmart/internal/domain/seller"
	"gallopmart/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetSellerBadges godoc
// @Summary Current badges of a seller
// @Tags Badges
// @Produce json
// @Param id path int true "Seller ID"
// @Success 200 {array} View
// @Router /sellers/{id}/badges [get]
func (h *Handler) GetSellerBadges(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid seller id")
		return
	}

	views, err := h.service.Current(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// Refresh godoc
// @Summary Re-evaluate the authenticated seller's badges
// @Tags Badges
// @Security BearerAuth
// @Produce json
// @Success 200 {array} View
// @Router /seller/badges/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	sellerID := c.GetInt64("seller_id")
	if sellerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "seller profile required")
		return
	}

	views, err := h.service.Refresh(c.Request.Context(), sellerID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, seller.ErrSellerNotFound) {
		response.Error(c, http.StatusNotFound, "SELLER_NOT_FOUND", err.Error())
		return
	}
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
}
