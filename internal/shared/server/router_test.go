package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozetik-backend/internal/contacts"
	"cozetik-backend/internal/email"
	"cozetik-backend/internal/inscriptions"
	"cozetik-backend/internal/quiz"
	"cozetik-backend/internal/shared/auth"
	"cozetik-backend/internal/shared/config"
	"cozetik-backend/internal/shared/storage/object"
	localstore "cozetik-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, intakeLimit int) (*gin.Engine, *localstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := quiz.DefaultCatalog()
	require.NoError(t, err)
	signer, err := auth.NewSigner("router-test-secret", time.Hour)
	require.NoError(t, err)
	store := localstore.New(t.TempDir(), "http://localhost:8080/files")

	r := NewRouter(RouterDeps{
		Config: config.Config{Env: "test", RateLimitIntake: intakeLimit},
		Contacts: contacts.NewHandler(&contacts.Service{
			Repo:   contacts.NewMemoryRepo(),
			Mailer: email.LogSender{},
		}),
		Inscriptions: inscriptions.NewHandler(&inscriptions.Service{
			Repo:       inscriptions.NewMemoryRepo(),
			Formations: inscriptions.NewMemoryFormations(),
			Mailer:     email.LogSender{},
		}),
		Quiz:       quiz.NewHandler(&quiz.Service{Catalog: catalog}),
		Verifier:   signer,
		LocalFiles: store,
	})
	return r, store
}

func TestHealthWithoutDatabase(t *testing.T) {
	r, _ := newTestRouter(t, 5)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestIntakeRoutesAreRateLimited(t *testing.T) {
	r, _ := newTestRouter(t, 1)
	body := `{"name":"Marie Curie","email":"marie@example.com","message":"Bonjour, je souhaite un rendez-vous."}`

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/contact", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := post()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// read-only routes fall under the default group
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/public/quiz/questions", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t, 5)

	for _, path := range []string{"/api/v1/admin/contacts", "/api/v1/admin/inscriptions"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestInscriptionsShareIntakeBudget(t *testing.T) {
	r, _ := newTestRouter(t, 1)
	body := `{"name":"Léa Martin","email":"lea@example.com","phone":"0612345678","message":"Je souhaite m'inscrire.","formationId":"inconnue"}`

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/inscriptions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNotFound, post().Code)
	assert.Equal(t, http.StatusTooManyRequests, post().Code)
}

func TestServeLocalFiles(t *testing.T) {
	r, store := newTestRouter(t, 5)
	_, err := store.Put(context.Background(), object.PutInput{
		Key:  "resumes/cv.pdf",
		Body: strings.NewReader("%PDF-1.4 test"),
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/resumes/cv.pdf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=cv.pdf`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "%PDF-1.4 test", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/resumes/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeLocalFilesDisposition(t *testing.T) {
	r, store := newTestRouter(t, 5)

	tests := []struct {
		key         string
		disposition string
	}{
		{key: "other/page.html", disposition: "attachment; filename=page.html"},
		{key: "other/logo.svg", disposition: "attachment; filename=logo.svg"},
		{key: "other/photo.png", disposition: "inline; filename=photo.png"},
		{key: "other/lettre.docx", disposition: "attachment; filename=lettre.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := store.Put(context.Background(), object.PutInput{Key: tt.key, Body: strings.NewReader("<script>alert(1)</script>")})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/"+tt.key, nil))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.disposition, w.Header().Get("Content-Disposition"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "sandbox", w.Header().Get("Content-Security-Policy"))
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t, 5)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}
