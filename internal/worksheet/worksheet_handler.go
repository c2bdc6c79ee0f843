package worksheet

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"worksphere/internal/session"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/response"
	worksheeterrors "worksphere/internal/worksheet/errors"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("worksheet.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("worksheet.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) Create(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req CreateWorksheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.Create(ctx, sess, req)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, nil)
}

// List serves both /worksheets and /all-worksheets; the route decides who
// may call it and the service scopes Employees to themselves.
func (h *Handler) List(c *gin.Context) {
	sess, _ := session.FromGin(c)

	filter := ListFilter{
		UID:   strings.TrimSpace(c.Query("uid")),
		Email: strings.TrimSpace(c.Query("email")),
		Month: strings.TrimSpace(c.Query("month")),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.ServiceError(c, worksheeterrors.ErrInvalidPeriod)
			return
		}
		filter.Year = year
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	resp, err := h.svc.List(ctx, sess, filter)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Update(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req UpdateWorksheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.Update(ctx, sess, c.Param("id"), req)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	sess, _ := session.FromGin(c)

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	if err := h.svc.Delete(ctx, sess, c.Param("id")); err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
