package session_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"worksphere/internal/domain"
	"worksphere/internal/session"
)

func TestSetPropagatesToRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	s := session.Session{UserID: "u-1", UID: "uid-1", Email: "hr@worksphere.io", Role: domain.RoleHR}
	session.Set(c, s)

	fromGin, ok := session.FromGin(c)
	assert.True(t, ok)
	assert.Equal(t, s, fromGin)

	fromCtx, ok := session.FromContext(c.Request.Context())
	assert.True(t, ok)
	assert.True(t, fromCtx.IsPrivileged())
	assert.False(t, fromCtx.IsAdmin())
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)
	assert.False(t, session.Session{}.IsRegistered())
}
