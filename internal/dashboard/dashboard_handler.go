package dashboard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"worksphere/internal/session"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/response"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dashboard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) GetStats(c *gin.Context) {
	sess, _ := session.FromGin(c)

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.GetStats(ctx, sess, strings.ToLower(strings.TrimSpace(c.Query("email"))))
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

// GetCapabilities serves the caller's capability set without any figures.
func (h *Handler) GetCapabilities(c *gin.Context) {
	sess, _ := session.FromGin(c)

	caps, err := For(sess.Role)
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, caps, nil)
}
