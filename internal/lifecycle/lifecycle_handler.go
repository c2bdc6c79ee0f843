package lifecycle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"worksphere/internal/paymentrequest"
	"worksphere/internal/session"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/response"
)

type Handler struct {
	ctrl   Controller
	logger *zap.Logger
}

func NewHandler(ctrl Controller, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("lifecycle.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("lifecycle.handler")
	}
	return &Handler{ctrl: ctrl, logger: l}
}

func (h *Handler) Status(c *gin.Context) {
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.ctrl.Status(ctx, c.Param("id"))
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) InitiatePayment(c *gin.Context) {
	sess, _ := session.FromGin(c)

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.ctrl.InitiatePayment(ctx, sess, c.Param("id"))
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) CreateIntent(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.ctrl.CreateIntent(ctx, sess, req)
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.ctrl.ConfirmPayment(ctx, sess, c.Param("id"), req)
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req paymentrequest.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.ctrl.Approve(ctx, sess, c.Param("id"), req.TransactionID)
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req paymentrequest.RejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.ctrl.Reject(ctx, sess, c.Param("id"), req.Confirmed)
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	sess, _ := session.FromGin(c)

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.ctrl.Cancel(ctx, sess, c.Param("id"))
	if err != nil {
		response.ServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
