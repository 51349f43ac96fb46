package badge

import "github.com/gin-gonic/gin"

func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/sellers/:id/badges", h.GetSellerBadges)
}

func RegisterSellerRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/badges/refresh", h.Refresh)
}
