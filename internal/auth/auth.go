// Package auth issues and verifies the bearer tokens handed out at login.
// The engine itself stays username-keyed; tokens are a transport-layer
// convenience so clients can omit the username field on game calls.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	models "wordduel/internal/models"
)

const identityKey = "auth_username"

var ErrInvalidToken = errors.New("invalid token")

// SignToken mints an HS256 token for an authenticated username.
func SignToken(secret []byte, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseToken verifies a token and returns the username it carries.
func ParseToken(secret []byte, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", ErrInvalidToken
	}
	return username, nil
}

// AttachUserMiddleware validates a Bearer token when one is presented and
// stashes the username in the request context. Requests without a token pass
// through untouched; handlers that need an identity fall back to the
// username field the polling clients already send.
func AttachUserMiddleware(app *models.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			if username, err := ParseToken(app.JWTSecret, strings.TrimPrefix(header, "Bearer ")); err == nil {
				c.Set(identityKey, username)
			}
		}
		c.Next()
	}
}

// UserFromContext returns the token-derived username, if any.
func UserFromContext(c *gin.Context) string {
	username, _ := c.Get(identityKey)
	s, _ := username.(string)
	return s
}
