package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSimpleRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/todos", SimpleRateLimit(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil)); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, w.Code)
		}
	}
	if w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil)); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
}

func TestRedisRateLimit_FallsBackWithoutRedis(t *testing.T) {
	CloseRedisRateLimiter()

	r := gin.New()
	r.GET("/todos", RedisRateLimit(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil)); w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil)); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
}

func TestJWT(t *testing.T) {
	service.InitJWT("test-secret")
	defer service.InitJWT("")

	r := gin.New()
	r.POST("/todos", JWT(), func(c *gin.Context) {
		id, _ := c.Get(ClientIDKey)
		c.JSON(http.StatusOK, gin.H{"client_id": id})
	})

	if w := serve(r, httptest.NewRequest(http.MethodPost, "/todos", nil)); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/todos", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	if w := serve(r, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}

	token, err := service.GenerateJWT(42, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/todos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if w := serve(r, req); w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}
}

func TestJWT_DisabledPassesThrough(t *testing.T) {
	service.InitJWT("")

	r := gin.New()
	r.POST("/todos", JWT(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if w := serve(r, httptest.NewRequest(http.MethodPost, "/todos", nil)); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/todos", func(c *gin.Context) {
		seen = logger.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/todos", nil))
	got := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected generated uuid, got %q", got)
	}
	if seen != got {
		t.Fatalf("context id %q differs from header %q", seen, got)
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set(RequestIDHeader, id)
	w = serve(r, req)
	if w.Header().Get(RequestIDHeader) != id {
		t.Fatalf("expected caller id to be kept")
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:3000"))
	r.GET("/todos", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/todos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(r, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("missing allow origin header")
	}

	req = httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow origin for foreign origin")
	}
}
