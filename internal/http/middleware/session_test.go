package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var sessionSecret = []byte("test-session-secret")

func sessionRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(secret))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFrom(c))
	})
	return r
}

func TestSessionAuth_ValidToken(t *testing.T) {
	r := sessionRouter(sessionSecret)

	tok, err := GenerateSessionToken(sessionSecret, "user-42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != "user-42" {
		t.Fatalf("user id = %q", w.Body.String())
	}
}

func TestSessionAuth_MissingHeader(t *testing.T) {
	r := sessionRouter(sessionSecret)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSessionAuth_WrongSecret(t *testing.T) {
	r := sessionRouter(sessionSecret)

	tok, err := GenerateSessionToken([]byte("other-secret"), "user-42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	r := sessionRouter(sessionSecret)

	tok, err := GenerateSessionToken(sessionSecret, "user-42", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}
