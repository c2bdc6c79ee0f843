package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"worksphere/internal/domain"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/response"
)

// SessionResolver maps a verified identity to its WorkSphere profile. An
// identity without a profile resolves to a Session with an empty role.
type SessionResolver interface {
	ResolveSession(ctx context.Context, identity Identity) (session.Session, error)
}

func AuthMiddleware(verifier TokenVerifier, resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				abortWith(c, apperror.ErrTokenExpired)
				return
			}
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		sess, err := resolver.ResolveSession(c.Request.Context(), identity)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set("user_id", identity.UID)
		c.Set("role", string(sess.Role))
		c.Request = c.Request.WithContext(contextutil.WithUserID(c.Request.Context(), identity.UID))
		session.Set(c, sess)

		c.Next()
	}
}

// RequireRegistered rejects identities that have no WorkSphere profile.
func RequireRegistered() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.FromGin(c)
		if !ok || !sess.IsRegistered() {
			abortWith(c, apperror.ErrForbidden)
			return
		}
		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := session.FromGin(c)
		if !ok {
			abortWith(c, apperror.ErrForbidden)
			return
		}

		for _, role := range allowedRoles {
			if sess.Role == role {
				c.Next()
				return
			}
		}

		abortWith(c, apperror.ErrForbidden)
	}
}

func abortWith(c *gin.Context, err error) {
	response.ServiceError(c, err)
	c.Abort()
}
