package quiz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newService(t, nil)).RegisterPublicRoutes(r.Group("/api/v1/public"))
	return r
}

func TestQuestionsRoute(t *testing.T) {
	r := setupRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/public/quiz/questions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Questions []Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Questions, 11)
}

func TestRecommendationRoute(t *testing.T) {
	r := setupRouter(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/quiz/recommendation", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"answers":{"q1":"E","q2":"E","q3":"A"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "E", res.Profile.Letter)
	assert.Equal(t, "Prise de Parole (pour réussir les entretiens)", res.PrincipalProgram.Name)
	assert.Equal(t, SourceStatic, res.Source)

	rec = post(`{"answers":{"q99":"A"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Données invalides")

	rec = post(`{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
