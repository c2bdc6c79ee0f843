package worksheet

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
	worksheets := r.Group("/worksheets")
	worksheets.Use(auth, middleware.ContextLogger(logger))
	{
		worksheets.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceWorksheet, rbac.ActionRead),
			handler.List,
		)

		worksheets.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceWorksheet, rbac.ActionCreate),
			handler.Create,
		)

		worksheets.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceWorksheet, rbac.ActionUpdate),
			handler.Update,
		)

		worksheets.DELETE("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceWorksheet, rbac.ActionDelete),
			handler.Delete,
		)
	}

	r.GET("/all-worksheets",
		auth,
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(3, 10),
		middleware.RBACAuthorize(rbacService, rbac.ResourceWorksheet, rbac.ActionReadAll),
		handler.List,
	)
}
