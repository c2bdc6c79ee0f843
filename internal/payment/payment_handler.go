package payment

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymenterrors "worksphere/internal/payment/errors"
	"worksphere/internal/session"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/response"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payment.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payment.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) History(c *gin.Context) {
	sess, _ := session.FromGin(c)

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	resp, err := h.svc.History(ctx, sess, strings.TrimSpace(c.Query("uid")))
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	resp, err := h.svc.GetAll(ctx, filter)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Export(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	out, err := h.svc.Export(ctx, filter)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, ExportContentType, out)
}

func parseFilter(c *gin.Context) (Filter, bool) {
	filter := Filter{
		UID:   strings.TrimSpace(c.Query("uid")),
		Email: strings.TrimSpace(c.Query("email")),
		Month: strings.TrimSpace(c.Query("month")),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			response.ServiceError(c, paymenterrors.ErrInvalidFilter)
			return Filter{}, false
		}
		filter.Year = year
	}
	return filter, true
}
