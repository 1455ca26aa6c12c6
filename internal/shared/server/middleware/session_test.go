package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestSessionEchoesProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(Session())
	r.GET("/ping", func(c *gin.Context) {
		seen = SessionIDFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Session-Id", "session-abc")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if seen != "session-abc" {
		t.Fatalf("context session = %q", seen)
	}
	if got := resp.Header().Get("X-Session-Id"); got != "session-abc" {
		t.Fatalf("response header = %q", got)
	}
}

func TestSessionGeneratesIDWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Session())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	id := resp.Header().Get("X-Session-Id")
	if id == "" {
		t.Fatal("session header missing")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("generated session %q is not a uuid: %v", id, err)
	}
}
