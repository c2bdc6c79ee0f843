package middleware

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Identity is what a verified token says about its bearer.
type Identity struct {
	UID   string
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

type jwtVerifier struct {
	hmacSecret []byte
	jwks       *keyfunc.JWKS
	projectID  string
}

// NewTokenVerifier accepts Firebase ID tokens (RS256, keys from jwksURL)
// when projectID is set, and HS256 tokens signed with hmacSecret when it is
// non-empty.
func NewTokenVerifier(hmacSecret, projectID, jwksURL string) (TokenVerifier, error) {
	v := &jwtVerifier{
		hmacSecret: []byte(hmacSecret),
		projectID:  projectID,
	}

	if projectID != "" {
		logger := zap.L().Named("auth.jwks")
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshTimeout:    10 * time.Second,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				logger.Warn("jwks refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}
		v.jwks = jwks
	}

	return v, nil
}

func (v *jwtVerifier) keyFor(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.hmacSecret) == 0 {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return v.hmacSecret, nil
	case *jwt.SigningMethodRSA:
		if v.jwks == nil {
			return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return v.jwks.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
}

func (v *jwtVerifier) Verify(_ context.Context, raw string) (Identity, error) {
	token, err := jwt.Parse(raw, v.keyFor, jwt.WithValidMethods([]string{"HS256", "RS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return Identity{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}

	if _, isRSA := token.Method.(*jwt.SigningMethodRSA); isRSA {
		if err := v.checkFirebaseClaims(claims); err != nil {
			return Identity{}, err
		}
	}

	uid, _ := claims["user_id"].(string)
	if uid == "" {
		uid, _ = claims["sub"].(string)
	}
	if uid == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return Identity{UID: uid, Email: email, Name: name}, nil
}

func (v *jwtVerifier) checkFirebaseClaims(claims jwt.MapClaims) error {
	iss, err := claims.GetIssuer()
	if err != nil || iss != "https://securetoken.google.com/"+v.projectID {
		return fmt.Errorf("%w: unexpected issuer", ErrTokenInvalid)
	}
	aud, err := claims.GetAudience()
	if err != nil || !slices.Contains([]string(aud), v.projectID) {
		return fmt.Errorf("%w: unexpected audience", ErrTokenInvalid)
	}
	return nil
}
