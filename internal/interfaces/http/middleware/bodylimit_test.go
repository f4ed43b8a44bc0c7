package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(maxBytes int64, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BodyLimit(maxBytes))
	r.POST("/submit", handler)
	r.GET("/submit", handler)
	return r
}

func echoOK(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func TestBodyLimit(t *testing.T) {
	t.Run("passes a body under the cap", func(t *testing.T) {
		r := limitedRouter(1024, echoOK)

		req := httptest.NewRequest("POST", "/submit", strings.NewReader("small body"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a declared length over the cap", func(t *testing.T) {
		r := limitedRouter(100, echoOK)

		req := httptest.NewRequest("POST", "/submit", strings.NewReader(strings.Repeat("x", 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("ignores bodyless GET requests", func(t *testing.T) {
		r := limitedRouter(10, echoOK)

		req := httptest.NewRequest("GET", "/submit", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("caps chunked bodies without a declared length", func(t *testing.T) {
		r := limitedRouter(50, func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("POST", "/submit", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
