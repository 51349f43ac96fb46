package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gallopmart/internal/domain/seller"
	"gallopmart/internal/pkg/response"
)

type SellerResolver interface {
	GetByUserID(ctx context.Context, userID int64) (*seller.Seller, error)
}

// ResolveSeller maps the authenticated user onto their seller profile and
// stores seller_id in the context. Must run after JWTAuth.
func ResolveSeller(sellers SellerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		s, err := sellers.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, seller.ErrSellerNotFound) {
				response.Abort(c, http.StatusForbidden, "SELLER_PROFILE_REQUIRED", "Create a seller profile first")
				return
			}
			_ = c.Error(err)
			response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
			return
		}

		c.Set("seller_id", s.ID)
		c.Next()
	}
}
