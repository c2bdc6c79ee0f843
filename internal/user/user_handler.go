package user

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"worksphere/internal/domain"
	"worksphere/internal/middleware"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/response"
	usererrors "worksphere/internal/user/errors"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) Register(c *gin.Context) {
	sess, ok := session.FromGin(c)
	if !ok {
		response.ServiceError(c, apperror.ErrUnauthorized)
		return
	}

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	identity := middleware.Identity{UID: sess.UID, Email: sess.Email, Name: sess.Name}

	res, err := h.svc.Register(ctx, identity, req)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := GetUsersFilter{
		Email: strings.TrimSpace(c.Query("email")),
		UID:   strings.TrimSpace(c.Query("uid")),
		Role:  strings.TrimSpace(c.Query("role")),
	}
	if raw := c.Query("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.ServiceError(c, apperror.InvalidField("verified"))
			return
		}
		filter.Verified = &v
	}
	if filter.Role != "" && !domain.Role(filter.Role).IsValid() {
		response.ServiceError(c, usererrors.ErrInvalidRole)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	h.logger.Debug("http get all users", zap.Bool("filtered", !filter.IsEmpty()))

	resp, err := h.svc.GetAll(ctx, filter)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetMe(c *gin.Context) {
	sess, _ := session.FromGin(c)
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)

	res, err := h.svc.GetMe(ctx, sess)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.UpdateProfile(ctx, sess, c.Param("email"), req)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) SetVerified(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.SetVerified(ctx, sess, c.Param("id"), *req.IsVerified)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) ChangeRole(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.ChangeRole(ctx, sess, c.Param("id"), domain.Role(req.Role))
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) SetWorksheetStatus(c *gin.Context) {
	sess, _ := session.FromGin(c)

	var req SetWorksheetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.SetWorksheetStatus(ctx, sess, c.Param("id"), *req.IsActiveWorkSheet)
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	sess, _ := session.FromGin(c)
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	if err := h.svc.Delete(ctx, sess, c.Param("id"), confirmed); err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	sess, _ := session.FromGin(c)

	file, err := c.FormFile("photo")
	if err != nil {
		response.ServiceError(c, apperror.RequiredField("photo"))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.ServiceError(c, usererrors.ErrInvalidPhoto)
		return
	}
	defer src.Close()

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.svc.UploadPhoto(ctx, sess, c.Param("email"), src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		response.ServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}
