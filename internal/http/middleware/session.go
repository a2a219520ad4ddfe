// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements SessionAuth, the bearer-token check for the dashboard
// surface (key management, usage reporting, billing orders). Sessions are
// minted by the external identity provider as HS256 JWTs whose subject is the
// user ID; this middleware only verifies and extracts, it never issues tokens
// for production traffic. GenerateSessionToken exists for tests and local
// tooling.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const bearerPrefix = "Bearer "

// ctxKeyUserID is the Gin context key under which the session user is stored.
// Logger() picks it up for the user_id log field.
const ctxKeyUserID = "userID"

// SessionClaims is the JWT payload for dashboard sessions (subject=userID).
type SessionClaims struct {
	jwt.RegisteredClaims
}

// UserIDFrom returns the authenticated user ID stored by SessionAuth, or ""
// when the request carries no session.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SessionAuth returns a Gin middleware that validates a Bearer session token,
// enforces HS256, and stores the subject under the "userID" context key.
func SessionAuth(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), strings.ToLower(bearerPrefix)) {
			denySession(c, "MISSING_SESSION", "missing or invalid Authorization header")
			return
		}
		raw := strings.TrimSpace(h[len(bearerPrefix):])
		if raw == "" {
			denySession(c, "MISSING_SESSION", "invalid bearer token")
			return
		}

		var claims SessionClaims
		token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			// Parser already restricts to HS256; this is just defense-in-depth.
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			denySession(c, "INVALID_SESSION", "invalid or expired session token")
			return
		}
		if strings.TrimSpace(claims.Subject) == "" {
			denySession(c, "INVALID_SESSION", "session token missing subject")
			return
		}

		c.Set(ctxKeyUserID, claims.Subject)
		c.Next()
	}
}

// denySession writes a 401 envelope and aborts.
func denySession(c *gin.Context, code, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       code,
		"message":    msg,
	})
}

// GenerateSessionToken signs an HS256 session token for the given user,
// expiring after ttl. Used by tests and local tooling.
func GenerateSessionToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
