package rbac

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"worksphere/internal/domain"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Check answers whether the caller's role may perform an action.
func (h *Handler) Check(c *gin.Context) {
	sess, ok := session.FromGin(c)
	if !ok {
		response.ServiceError(c, apperror.ErrUnauthorized)
		return
	}

	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	allowed, err := h.service.Enforce(EnforceRequest{
		Role:     string(sess.Role),
		Resource: strings.TrimSpace(req.Resource),
		Action:   strings.TrimSpace(req.Action),
	})
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

func (h *Handler) MyPermissions(c *gin.Context) {
	sess, ok := session.FromGin(c)
	if !ok {
		response.ServiceError(c, apperror.ErrUnauthorized)
		return
	}

	response.Success(c, http.StatusOK, domain.RolePermissionsResponse{
		Role:        string(sess.Role),
		Permissions: h.service.PermissionsFor(string(sess.Role)),
	}, nil)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth ...gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth...)
	{
		group.POST("/check", handler.Check)
		group.GET("/permissions", handler.MyPermissions)
	}
}
