package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TestRequestID はRequestIDミドルウェアを検証する。
func TestRequestID(t *testing.T) {
	t.Parallel()

	newRouter := func(got *string) *gin.Engine {
		router := gin.New()
		router.Use(RequestID())
		router.NoRoute(func(c *gin.Context) {
			*got = GetRequestID(c)
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("ヘッダーが無い場合はUUIDが生成されること", func(t *testing.T) {
		t.Parallel()

		var got string
		router := newRouter(&got)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("リクエストIDがUUIDではない: %q", got)
		}
		if h := w.Header().Get(HeaderRequestID); h != got {
			t.Errorf("%s = %q, want %q", HeaderRequestID, h, got)
		}
	})

	t.Run("リクエストのX-Request-IDが引き継がれること", func(t *testing.T) {
		t.Parallel()

		var got string
		router := newRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got != "req-123" {
			t.Errorf("リクエストID = %q, want %q", got, "req-123")
		}
		if h := w.Header().Get(HeaderRequestID); h != "req-123" {
			t.Errorf("%s = %q, want %q", HeaderRequestID, h, "req-123")
		}
	})

	t.Run("ミドルウェア未適用の場合は空文字列を返すこと", func(t *testing.T) {
		t.Parallel()

		var got string
		router := gin.New()
		router.NoRoute(func(c *gin.Context) {
			got = GetRequestID(c)
			c.Status(http.StatusOK)
		})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if got != "" {
			t.Errorf("リクエストID = %q, want empty string", got)
		}
	})
}
