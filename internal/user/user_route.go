package user

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
	users := r.Group("/users")
	users.Use(auth)
	users.Use(middleware.ContextLogger(logger))
	{
		// Registration is open to any verified identity, profile or not.
		users.POST("",
			middleware.RateLimitByUser(0.1, 2),
			handler.Register,
		)

		users.GET("/me",
			middleware.RequireRegistered(),
			handler.GetMe,
		)

		users.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionRead),
			handler.GetAll,
		)

		users.PUT("/:email",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionUpdate),
			handler.UpdateProfile,
		)

		users.POST("/:email/photo",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceProfile, rbac.ActionUpdate),
			handler.UploadPhoto,
		)

		users.PATCH("/verify/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionVerify),
			handler.SetVerified,
		)

		users.PATCH("/role/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionChangeRole),
			handler.ChangeRole,
		)

		users.PATCH("/worksheet-status/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionWorksheetStatus),
			handler.SetWorksheetStatus,
		)

		users.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionDelete),
			handler.Delete,
		)
	}
}
