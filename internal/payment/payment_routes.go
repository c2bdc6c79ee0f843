package payment

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
	common := []gin.HandlerFunc{auth, middleware.ContextLogger(logger), middleware.RateLimitByUser(3, 10)}

	r.GET("/payments", append(common,
		middleware.RBACAuthorize(rbacService, rbac.ResourcePayment, rbac.ActionRead),
		handler.History,
	)...)

	all := r.Group("/all-payments", common...)
	{
		all.GET("",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayment, rbac.ActionReadAll),
			handler.GetAll,
		)

		all.GET("/export",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayment, rbac.ActionExport),
			handler.Export,
		)
	}
}
