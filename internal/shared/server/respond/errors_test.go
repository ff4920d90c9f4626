package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHidesDetailsByDefault(t *testing.T) {
	body := serveError(t, false)
	assert.Equal(t, "boom", body["error"])
	assert.Equal(t, "internal_error", body["code"])
	_, ok := body["details"]
	assert.False(t, ok)
}

func TestErrorExposesDetailsWhenEnabled(t *testing.T) {
	body := serveError(t, true)
	assert.Equal(t, "stack here", body["details"])
}

func serveError(t *testing.T, expose bool) map[string]any {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ExposeDetails(expose))
	r.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusInternalServerError, "internal_error", "boom", "stack here")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusInternalServerError, resp.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestInvalidAlwaysIncludesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ExposeDetails(false))
	r.POST("/x", func(c *gin.Context) {
		Invalid(c, "Données invalides", []string{"email"})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/x", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"Données invalides","code":"validation_error","details":["email"]}`, resp.Body.String())
}

func TestCreatedSetsResourceHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		Created(c, "abc-123", gin.H{"id": "abc-123"})
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "abc-123", resp.Header().Get("X-Resource-Id"))
	assert.JSONEq(t, `{"id":"abc-123"}`, resp.Body.String())
}
