package payment

import "github.com/gin-gonic/gin"

// RegisterSellerRoutes mounts checkout routes under the seller group.
func RegisterSellerRoutes(r *gin.RouterGroup, h *Handler) {
	subscribe := r.Group("/subscribe")
	{
		subscribe.POST("/create-order", h.CreateOrder)
		subscribe.POST("/verify-payment", h.VerifyPayment)
	}
}
