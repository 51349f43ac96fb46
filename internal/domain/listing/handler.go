package listing

import (
	"context"
	"errors"
	"net/http"
	"strconv"

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

// CreateDraft godoc
// @Summary Create a draft listing
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateDraftRequest true "Listing"
// @Success 201 {object} ListingResponse
// @Router /seller/listings [post]
func (h *Handler) CreateDraft(c *gin.Context) {
	sellerID := mustSellerID(c)
	if sellerID == 0 {
		return
	}

	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	l, err := h.service.CreateDraft(c.Request.Context(), sellerID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, buildListingResponse(l, h.service.now()))
}

// Get godoc
// @Summary Get one of the seller's listings with its visibility
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} ListingResponse
// @Router /seller/listings/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	h.withListing(c, h.service.Get, http.StatusOK)
}

// Publish godoc
// @Summary Publish a listing
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} ListingResponse
// @Failure 402 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /seller/listings/{id}/publish [post]
func (h *Handler) Publish(c *gin.Context) {
	h.withListing(c, h.service.Publish, http.StatusOK)
}

// Unpublish godoc
// @Summary Take a listing offline and free its slot
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} ListingResponse
// @Router /seller/listings/{id}/unpublish [post]
func (h *Handler) Unpublish(c *gin.Context) {
	h.withListing(c, h.service.Unpublish, http.StatusOK)
}

// Boost godoc
// @Summary Boost a live listing
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} ListingResponse
// @Failure 403 {object} map[string]interface{}
// @Router /seller/listings/{id}/boost [post]
func (h *Handler) Boost(c *gin.Context) {
	h.withListing(c, h.service.Boost, http.StatusOK)
}

// Spotlight godoc
// @Summary Spend a monthly spotlight on a live listing
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} ListingResponse
// @Failure 403 {object} map[string]interface{}
// @Router /seller/listings/{id}/spotlight [post]
func (h *Handler) Spotlight(c *gin.Context) {
	h.withListing(c, h.service.Spotlight, http.StatusOK)
}

type listingAction func(ctx context.Context, sellerID, id int64) (*Listing, error)

func (h *Handler) withListing(c *gin.Context, action listingAction, status int) {
	sellerID := mustSellerID(c)
	if sellerID == 0 {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "invalid listing id")
		return
	}

	l, err := action(c.Request.Context(), sellerID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, status, buildListingResponse(l, h.service.now()))
}

func mustSellerID(c *gin.Context) int64 {
	id := c.GetInt64("seller_id")
	if id == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "seller profile required")
	}
	return id
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		response.Error(c, http.StatusNotFound, "LISTING_NOT_FOUND", err.Error())
	case errors.Is(err, ErrAlreadyPublished), errors.Is(err, ErrNotPublished):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrInvalidTitle), errors.Is(err, ErrInvalidMedia):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		subscription.WriteError(c, err)
	}
}
