package listing

import "github.com/gin-gonic/gin"

// RegisterSellerRoutes mounts listing routes on a group that already runs
// the auth and seller middleware.
func RegisterSellerRoutes(r *gin.RouterGroup, h *Handler) {
	listings := r.Group("/listings")
	{
		listings.POST("", h.CreateDraft)
		listings.GET("/:id", h.Get)
		listings.POST("/:id/publish", h.Publish)
		listings.POST("/:id/unpublish", h.Unpublish)
		listings.POST("/:id/boost", h.Boost)
		listings.POST("/:id/spotlight", h.Spotlight)
	}
}
