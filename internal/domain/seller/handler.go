package seller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gallopmart/internal/pkg/response"
)

type CreateProfileRequest struct {
	StableName string `json:"stable_name" binding:"required,max=120"`
}

// UpdateStatsRequest carries figures from the order and review systems. Nil
// fields are left unchanged.
type UpdateStatsRequest struct {
	TotalSales        *int     `json:"total_sales" binding:"omitempty,min=0"`
	Rating            *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	VerificationLevel *string  `json:"verification_level"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateProfile godoc
// @Summary Create the seller profile for the authenticated user
// @Tags Sellers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateProfileRequest true "Profile"
// @Success 201 {object} Seller
// @Failure 409 {object} map[string]interface{}
// @Router /seller/profile [post]
func (h *Handler) CreateProfile(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	s, err := h.service.CreateProfile(c.Request.Context(), userID, req.StableName)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, s)
}

// GetProfile godoc
// @Summary Get the authenticated user's seller profile
// @Tags Sellers
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Seller
// @Router /seller/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	s, err := h.service.GetByUserID(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

// UpdateStats godoc
// @Summary Record sales, rating or verification for a seller
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Seller ID"
// @Param body body UpdateStatsRequest true "Stats"
// @Success 200 {object} Seller
// @Router /admin/sellers/{id}/stats [patch]
func (h *Handler) UpdateStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid seller id")
		return
	}

	var req UpdateStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	upd := StatsUpdate{TotalSales: req.TotalSales, Rating: req.Rating}
	if req.VerificationLevel != nil {
		level := VerificationLevel(*req.VerificationLevel)
		upd.VerificationLevel = &level
	}
	if err := h.service.UpdateStats(c.Request.Context(), id, upd); err != nil {
		writeError(c, err)
		return
	}

	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSellerNotFound):
		response.Error(c, http.StatusNotFound, "SELLER_NOT_FOUND", err.Error())
	case errors.Is(err, ErrSellerExists):
		response.Error(c, http.StatusConflict, "SELLER_EXISTS", err.Error())
	case errors.Is(err, ErrInvalidStableName), errors.Is(err, ErrInvalidRating), errors.Is(err, ErrInvalidVerification):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
