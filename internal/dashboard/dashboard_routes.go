package dashboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"worksphere/internal/middleware"
	"worksphere/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	auth gin.HandlerFunc,
	logger *zap.Logger,
) {
	stats := r.Group("")
	stats.Use(auth, middleware.ContextLogger(logger))
	{
		stats.GET("/dashboard-stats",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceDashboard, rbac.ActionRead),
			handler.GetStats,
		)

		stats.GET("/dashboard-capabilities",
			middleware.RateLimitByUser(3, 10),
			handler.GetCapabilities,
		)
	}
}
