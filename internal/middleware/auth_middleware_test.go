package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksphere/internal/domain"
	"worksphere/internal/middleware"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeResolver struct {
	resolveFn func(ctx context.Context, identity middleware.Identity) (session.Session, error)
}

func (f *fakeResolver) ResolveSession(ctx context.Context, identity middleware.Identity) (session.Session, error) {
	return f.resolveFn(ctx, identity)
}

type fakeEnforcer struct {
	allowed map[string]bool
}

func (f *fakeEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.allowed[req.Role+":"+req.Resource+":"+req.Action], nil
}

type apiEnvelope struct {
	Ok    bool `json:"ok"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newRouter(t *testing.T, resolver middleware.SessionResolver, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier, err := middleware.NewTokenVerifier(testSecret, "", "")
	require.NoError(t, err)

	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(verifier, resolver)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		sess, _ := session.FromGin(c)
		c.JSON(http.StatusOK, gin.H{"email": sess.Email, "role": sess.Role})
	})
	r.GET("/protected", handlers...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, identity middleware.Identity) (session.Session, error) {
			if identity.UID == "uid-broken" {
				return session.Session{}, errors.New("db down")
			}
			return session.Session{UserID: "u-1", UID: identity.UID, Email: identity.Email, Role: domain.RoleHR}, nil
		},
	}
	router := newRouter(t, resolver)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.CodeUnauthorized, decode(t, w).Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub": "uid-1",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.CodeTokenExpired, decode(t, w).Error.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "uid-1"}).SignedString([]byte("another-secret-another-secret-xx"))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token from cookie", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"sub":   "uid-1",
			"email": "hr@worksphere.io",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "hr@worksphere.io")
	})

	t.Run("resolver failure is internal", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{"sub": "uid-broken", "exp": time.Now().Add(time.Hour).Unix()})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRBACAuthorize(t *testing.T) {
	enforcer := &fakeEnforcer{allowed: map[string]bool{"HR:payment-request:pay": true}}

	cases := []struct {
		name   string
		role   domain.Role
		status int
	}{
		{name: "allowed role", role: domain.RoleHR, status: http.StatusOK},
		{name: "denied role", role: domain.RoleEmployee, status: http.StatusForbidden},
		{name: "unregistered identity", role: "", status: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &fakeResolver{
				resolveFn: func(ctx context.Context, identity middleware.Identity) (session.Session, error) {
					return session.Session{UID: identity.UID, Role: tc.role}, nil
				},
			}
			router := newRouter(t, resolver, middleware.RBACAuthorize(enforcer, "payment-request", "pay"))

			token := signToken(t, jwt.MapClaims{"sub": "uid-1", "exp": time.Now().Add(time.Hour).Unix()})
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRequireRegistered(t *testing.T) {
	resolver := &fakeResolver{
		resolveFn: func(ctx context.Context, identity middleware.Identity) (session.Session, error) {
			return session.Session{UID: identity.UID}, nil
		},
	}
	router := newRouter(t, resolver, middleware.RequireRegistered())

	token := signToken(t, jwt.MapClaims{"sub": "uid-new", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
