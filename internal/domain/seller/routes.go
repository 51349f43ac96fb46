package seller

import "github.com/gin-gonic/gin"

// RegisterProfileRoutes mounts profile routes on an authenticated seller-role
// group. They run before a seller profile exists, so no seller_id is needed.
func RegisterProfileRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/profile", h.CreateProfile)
	r.GET("/profile", h.GetProfile)
}

// RegisterAdminRoutes mounts routes used by the order and review systems to
// report seller figures. The group must require the admin role.
func RegisterAdminRoutes(r *gin.RouterGroup, h *Handler) {
	r.PATCH("/sellers/:id/stats", h.UpdateStats)
}
