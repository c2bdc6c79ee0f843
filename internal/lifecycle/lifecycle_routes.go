package lifecycle

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
	pay := middleware.RBACAuthorize(rbacService, rbac.ResourcePaymentRequest, rbac.ActionPay)

	r.POST("/create-payment-intent",
		auth,
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(0.5, 3),
		pay,
		handler.CreateIntent,
	)

	requests := r.Group("/payment-requests")
	requests.Use(auth, middleware.ContextLogger(logger))
	{
		requests.GET("/:id/lifecycle",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePaymentRequest, rbac.ActionRead),
			handler.Status,
		)

		requests.POST("/:id/intent",
			middleware.RateLimitByUser(0.5, 3),
			pay,
			handler.InitiatePayment,
		)

		requests.DELETE("/:id/intent",
			middleware.RateLimitByUser(1, 5),
			pay,
			handler.Cancel,
		)

		requests.POST("/:id/confirm",
			middleware.RateLimitByUser(0.5, 3),
			pay,
			handler.ConfirmPayment,
		)

		requests.PATCH("/approve/:id",
			middleware.RateLimitByUser(0.5, 3),
			pay,
			handler.Approve,
		)

		requests.PATCH("/reject/:id",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePaymentRequest, rbac.ActionReject),
			handler.Reject,
		)
	}
}
