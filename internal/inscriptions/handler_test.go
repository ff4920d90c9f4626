package inscriptions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozetik-backend/internal/shared/server/respond"
)

func setupRouter(t *testing.T) (*gin.Engine, *MemoryRepo, *fakeMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, repo, mailer := newTestService()
	h := NewHandler(svc)
	r := gin.New()
	r.Use(respond.ExposeDetails(false))
	h.RegisterPublicRoutes(r.Group("/api/v1/public"))
	h.RegisterAdminRoutes(r.Group("/api/v1/admin"))
	return r, repo, mailer
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func inscriptionBody(formationID string) string {
	return `{"name":"Léa Martin","email":"lea@example.com","phone":"06 12 34 56 78",` +
		`"message":"Je souhaite rejoindre la prochaine session.","formationId":"` + formationID + `"}`
}

func TestSubmitInscriptionCreated(t *testing.T) {
	r, repo, mailer := setupRouter(t)

	rec := do(r, http.MethodPost, "/api/v1/public/inscriptions", inscriptionBody(sophrologyID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Inscription enregistrée avec succès", body.Message)
	assert.Equal(t, "Sophrologie", body.Formation)
	assert.NotEmpty(t, body.ID)
	assert.Equal(t, body.ID, rec.Header().Get("X-Resource-Id"))
	assert.Equal(t, 1, repo.Len())
	assert.Len(t, mailer.sent, 2)
}

func TestSubmitInscriptionErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"unknown formation", inscriptionBody("clx0inconnue"), http.StatusNotFound, "Formation introuvable"},
		{"invalid payload", `{"name":"L","email":"lea@example.com"}`, http.StatusBadRequest, "Données invalides"},
		{"malformed json", `{"name":`, http.StatusBadRequest, "Données invalides"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo, mailer := setupRouter(t)

			rec := do(r, http.MethodPost, "/api/v1/public/inscriptions", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
			assert.Zero(t, repo.Len())
			assert.Empty(t, mailer.sent)
		})
	}
}

func TestSubmitInscriptionListsEveryInvalidField(t *testing.T) {
	r, _, _ := setupRouter(t)

	rec := do(r, http.MethodPost, "/api/v1/public/inscriptions", `{"name":"L","email":"lea","phone":"12","message":"court","formationId":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Details []Issue `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	fields := make([]string, 0, len(body.Details))
	for _, is := range body.Details {
		fields = append(fields, is.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "phone", "message", "formationId"}, fields)
}

func TestAdminInscriptionRoutes(t *testing.T) {
	r, _, _ := setupRouter(t)
	rec := do(r, http.MethodPost, "/api/v1/public/inscriptions", inscriptionBody(sophrologyID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	base := "/api/v1/admin/inscriptions/" + created.ID

	rec = do(r, http.MethodGet, "/api/v1/admin/inscriptions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "NEW", list[0].Status)
	assert.Equal(t, "sophrologie", list[0].Formation.Slug)
	assert.Equal(t, sophrologyID, list[0].FormationID)

	rec = do(r, http.MethodPatch, base+"/status", `{"status":"TREATED"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"TREATED"`)

	rec = do(r, http.MethodPatch, base+"/status", `{"status":"NEW"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_transition")

	rec = do(r, http.MethodPatch, base+"/status", `{"status":"PENDING"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
