package paymentrequest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"worksphere/internal/middleware"
	"worksphere/internal/rbac"
)

// RegisterRoutes mounts creation and listing. Lifecycle transitions on the
// same prefix are mounted by the lifecycle package.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	auth gin.HandlerFunc,
	idempotency gin.HandlerFunc,
	logger *zap.Logger,
) {
	requests := r.Group("/payment-requests")
	requests.Use(auth, middleware.ContextLogger(logger))
	{
		requests.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePaymentRequest, rbac.ActionCreate),
			idempotency,
			handler.Create,
		)

		requests.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePaymentRequest, rbac.ActionRead),
			handler.GetAll,
		)

		requests.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePaymentRequest, rbac.ActionRead),
			handler.GetByID,
		)
	}
}
