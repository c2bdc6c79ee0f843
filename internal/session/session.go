// Package session carries the authenticated principal through gin and
// standard contexts.
package session

import (
	"context"

	"github.com/gin-gonic/gin"

	"worksphere/internal/domain"
)

const ginKey = "session"

type ctxKey struct{}

// Session is the resolved principal of a request. Role is empty for an
// identity that has not registered a WorkSphere profile yet.
type Session struct {
	UserID          string
	UID             string
	Email           string
	Name            string
	Role            domain.Role
	Verified        bool
	WorksheetActive bool
}

func (s Session) IsRegistered() bool {
	return s.UserID != ""
}

func (s Session) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

func (s Session) IsPrivileged() bool {
	return s.Role.IsPrivileged()
}

func Set(c *gin.Context, s Session) {
	c.Set(ginKey, s)
	c.Request = c.Request.WithContext(WithContext(c.Request.Context(), s))
}

func FromGin(c *gin.Context) (Session, bool) {
	v, ok := c.Get(ginKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
