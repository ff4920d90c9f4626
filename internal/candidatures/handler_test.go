package candidatures

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cozetik-backend/internal/filestore"
	"cozetik-backend/internal/shared/leadstatus"
	"cozetik-backend/internal/shared/server/respond"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service, *MemoryRepo, *fakeFiles, *fakeMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, repo, files, mailer := newTestService()
	h := NewHandler(svc, 1<<20)

	r := gin.New()
	r.Use(respond.ExposeDetails(true))
	h.RegisterPublicRoutes(r.Group("/api/v1/public"))
	h.RegisterAdminRoutes(r.Group("/api/v1/admin"))
	return r, svc, repo, files, mailer
}

func candidatureForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func jeanDupontFields() map[string]string {
	return map[string]string{
		"civility":          "M",
		"firstName":         "Jean",
		"lastName":          "Dupont",
		"birthDate":         "15/03/1995",
		"email":             "Jean.Dupont@Example.com",
		"phone":             "06 12 34 56 78",
		"categoryFormation": "Développement",
		"formation":         "Développement Web",
		"currentSituation":  "Salarié",
		"motivation":        strings.Repeat("Je souhaite me reconvertir. ", 25),
		"acceptPrivacy":     "true",
	}
}

func postCandidature(t *testing.T, r *gin.Engine, fields, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := candidatureForm(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/candidatures", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSubmitHandlerCreatesCandidature(t *testing.T) {
	r, _, repo, _, mailer := setupRouter(t)

	rec := postCandidature(t, r, jeanDupontFields(), map[string]string{"cv": "cv.pdf"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Candidature enregistrée avec succès", created.Message)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, repo.Len())
	assert.Len(t, mailer.sent, 2)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/candidatures/"+created.ID, nil)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var got Response
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &got))
	assert.Equal(t, string(leadstatus.New), got.Status)
	assert.Equal(t, "jean.dupont@example.com", got.Email)
	assert.Equal(t, "1995-03-15", got.BirthDate)
	require.NotNil(t, got.CVURL)
	assert.Equal(t, "https://files.example.com/cozetik/candidatures/cv/cv.pdf", *got.CVURL)
	assert.Nil(t, got.CoverLetterURL)
}

func TestSubmitHandlerValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
		files  map[string]string
		kind   Kind
	}{
		{
			name:   "missing first name",
			mutate: func(f map[string]string) { delete(f, "firstName") },
			files:  map[string]string{"cv": "cv.pdf"},
			kind:   KindMissingField,
		},
		{
			name:   "short motivation",
			mutate: func(f map[string]string) { f["motivation"] = "Trop court" },
			files:  map[string]string{"cv": "cv.pdf"},
			kind:   KindMotivationTooShort,
		},
		{
			name:   "privacy not accepted",
			mutate: func(f map[string]string) { f["acceptPrivacy"] = "false" },
			files:  map[string]string{"cv": "cv.pdf"},
			kind:   KindPrivacyNotAccepted,
		},
		{
			name:   "missing resume",
			mutate: func(map[string]string) {},
			kind:   KindResumeRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, repo, files, _ := setupRouter(t)
			fields := jeanDupontFields()
			tt.mutate(fields)

			rec := postCandidature(t, r, fields, tt.files)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body struct {
				Error   string `json:"error"`
				Code    string `json:"code"`
				Details struct {
					Kind Kind `json:"kind"`
				} `json:"details"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "validation_error", body.Code)
			assert.Equal(t, tt.kind, body.Details.Kind)
			assert.NotEmpty(t, body.Error)
			assert.Zero(t, repo.Len())
			assert.Zero(t, files.uploadCount())
		})
	}
}

func TestSubmitHandlerUploadFailure(t *testing.T) {
	r, _, repo, files, _ := setupRouter(t)
	files.failures[filestore.FolderResumes] = credentialsError()

	rec := postCandidature(t, r, jeanDupontFields(), map[string]string{"cv": "cv.pdf"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "upload_failed")
	assert.Zero(t, repo.Len())
}

func TestSubmitHandlerErrorMapping(t *testing.T) {
	const tooLarge = "Le fichier cv.pdf dépasse la taille maximale autorisée (10 Mo)"

	tests := []struct {
		name          string
		exposeDetails bool
		setup         func(svc *Service, files *fakeFiles)
		status        int
		code          string
		message       string
	}{
		{
			name: "oversized resume",
			setup: func(_ *Service, files *fakeFiles) {
				files.failures[filestore.FolderResumes] = &filestore.Error{Kind: filestore.KindTooLarge, Message: tooLarge}
			},
			status:  http.StatusBadRequest,
			code:    "file_rejected",
			message: tooLarge,
		},
		{
			name: "missing storage credentials",
			setup: func(_ *Service, files *fakeFiles) {
				files.failures[filestore.FolderResumes] = credentialsError()
			},
			status:  http.StatusInternalServerError,
			code:    "upload_failed",
			message: misconfiguredStorageMessage,
		},
		{
			name: "missing bucket",
			setup: func(_ *Service, files *fakeFiles) {
				files.failures[filestore.FolderResumes] = &filestore.Error{Kind: filestore.KindBucket, Message: "Le service de stockage des fichiers est indisponible"}
			},
			status:  http.StatusInternalServerError,
			code:    "upload_failed",
			message: misconfiguredStorageMessage,
		},
		{
			name: "transport failure",
			setup: func(_ *Service, files *fakeFiles) {
				files.failures[filestore.FolderResumes] = &filestore.Error{Kind: filestore.KindTransport, Message: "Le téléversement du fichier a échoué"}
			},
			status:  http.StatusInternalServerError,
			code:    "upload_failed",
			message: "Le téléversement du CV a échoué, veuillez réessayer",
		},
		{
			name: "duplicate",
			setup: func(svc *Service, _ *fakeFiles) {
				svc.Repo = failingRepo{MemoryRepo: NewMemoryRepo(), err: ErrDuplicate}
			},
			status:  http.StatusBadRequest,
			code:    "duplicate",
			message: "Cette candidature a déjà été enregistrée",
		},
		{
			name: "storage failure",
			setup: func(svc *Service, _ *fakeFiles) {
				svc.Repo = failingRepo{MemoryRepo: NewMemoryRepo(), err: errors.New("pq: connection refused")}
			},
			status:  http.StatusInternalServerError,
			code:    "internal_error",
			message: "Une erreur est survenue lors de l'enregistrement de votre candidature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			svc, _, files, _ := newTestService()
			tt.setup(svc, files)
			r := gin.New()
			r.Use(respond.ExposeDetails(tt.exposeDetails))
			NewHandler(svc, 1<<20).RegisterPublicRoutes(r.Group("/api/v1/public"))

			rec := postCandidature(t, r, jeanDupontFields(), map[string]string{"cv": "cv.pdf"})
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, tt.message, body["error"])
			assert.NotContains(t, body, "details")
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestSubmitHandlerRejectsOversizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, repo, _, _ := newTestService()
	h := NewHandler(svc, 16)
	r := gin.New()
	h.RegisterPublicRoutes(r.Group("/api/v1/public"))

	fields := jeanDupontFields()
	fields["motivation"] = strings.Repeat("a", 2<<20)
	rec := postCandidature(t, r, fields, map[string]string{"cv": "cv.pdf"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, repo.Len())
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminStatusRoutes(t *testing.T) {
	r, _, _, _, _ := setupRouter(t)
	rec := postCandidature(t, r, jeanDupontFields(), map[string]string{"cv": "cv.pdf"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	base := "/api/v1/admin/candidatures/" + created.ID

	res := doJSON(r, http.MethodPatch, base+"/status", `{"status":"TREATED"}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"status":"TREATED"`)

	res = doJSON(r, http.MethodPatch, base+"/status", `{"status":"NEW"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "invalid_transition")

	res = doJSON(r, http.MethodPatch, base+"/status", `{"status":"PENDING"}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = doJSON(r, http.MethodGet, "/api/v1/admin/candidatures?status=TREATED", "")
	require.Equal(t, http.StatusOK, res.Code)
	var list listResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)

	res = doJSON(r, http.MethodGet, "/api/v1/admin/candidatures?status=bogus", "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestAdminDeleteAndNotFound(t *testing.T) {
	r, _, repo, files, _ := setupRouter(t)
	rec := postCandidature(t, r, jeanDupontFields(), map[string]string{"cv": "cv.pdf"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	base := "/api/v1/admin/candidatures/" + created.ID

	res := doJSON(r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, res.Code)
	assert.Zero(t, repo.Len())
	assert.Len(t, files.deleted, 1)

	res = doJSON(r, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = doJSON(r, http.MethodGet, "/api/v1/admin/candidatures/not-a-uuid", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestAdminSendEmailFailureIs502(t *testing.T) {
	r, _, _, _, mailer := setupRouter(t)
	rec := postCandidature(t, r, jeanDupontFields(), map[string]string{"cv": "cv.pdf"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	path := "/api/v1/admin/candidatures/" + created.ID + "/send-email"

	res := doJSON(r, http.MethodPost, path, `{"subject":"Entretien","message":"Nous vous proposons un entretien."}`)
	assert.Equal(t, http.StatusOK, res.Code)

	mailer.fail = true
	res = doJSON(r, http.MethodPost, path, `{"subject":"Entretien","message":"Nous vous proposons un entretien."}`)
	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.Contains(t, res.Body.String(), "email_failed")

	res = doJSON(r, http.MethodPost, path, `{"subject":""}`)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestAdminDownloadDocument(t *testing.T) {
	r, _, _, _, _ := setupRouter(t)
	rec := postCandidature(t, r, jeanDupontFields(), map[string]string{"cv": "cv.pdf"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created createdResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	base := "/api/v1/admin/candidatures/" + created.ID + "/documents/"

	res := doJSON(r, http.MethodGet, base+"cv", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "%PDF-1.4 test", res.Body.String())
	assert.Contains(t, res.Header().Get("Content-Disposition"), `filename="cv.pdf"`)

	res = doJSON(r, http.MethodGet, base+"coverLetter", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
}
