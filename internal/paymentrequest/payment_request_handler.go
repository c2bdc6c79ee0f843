package paymentrequest

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
	l := zap.L().Named("paymentrequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("paymentrequest.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) Create(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req CreatePaymentRequestRequest
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

func (h *Handler) GetAll(c *gin.Context) {
	filter := ListFilter{
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
		UID:    strings.TrimSpace(c.Query("uid")),
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

func (h *Handler) GetByID(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	pr, err := h.svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ToResponse(*pr), nil)
}
