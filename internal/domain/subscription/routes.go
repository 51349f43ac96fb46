package subscription

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers routes that don't require authentication
// (e.g., listing available plans for the pricing page)
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/plans", h.GetPlans)
}

// RegisterSellerRoutes registers routes that require a seller profile.
func RegisterSellerRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/subscribe", h.Subscribe)
	sub := r.Group("/subscription")
	{
		sub.GET("", h.GetMySubscription)
		sub.POST("/cancel", h.Cancel)
		sub.GET("/usage", h.GetUsage)
	}
}
