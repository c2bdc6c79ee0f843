package middleware

import (
	"github.com/gin-gonic/gin"

	"worksphere/internal/domain"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/response"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.FromGin(c)
		if !ok {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		if !sess.Role.IsValid() {
			abortWith(c, apperror.ErrForbidden)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     string(sess.Role),
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWith(c, apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, apperror.ErrInternal.HTTPStatus))
			return
		}

		if !allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message, gin.H{
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
