package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS(origins))
	router.POST("/api/v1/public/candidatures", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func corsRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/public/candidatures", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCORSPreflightForAllowedOrigin(t *testing.T) {
	resp := corsRequest(corsRouter("https://www.cozetik.fr/"), http.MethodOptions, "https://www.cozetik.fr")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "https://www.cozetik.fr", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, corsMethods, resp.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "600", resp.Header().Get("Access-Control-Max-Age"))
}

func TestCORSHeadersOnPost(t *testing.T) {
	resp := corsRequest(corsRouter("https://www.cozetik.fr"), http.MethodPost, "https://www.cozetik.fr")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "https://www.cozetik.fr", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Expose-Headers"), "X-Resource-Id")
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	resp := corsRequest(corsRouter("https://www.cozetik.fr"), http.MethodPost, "https://evil.example")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardReflectsOrigin(t *testing.T) {
	resp := corsRequest(corsRouter("*"), http.MethodOptions, "http://localhost:3000")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://localhost:3000", resp.Header().Get("Access-Control-Allow-Origin"))
}
