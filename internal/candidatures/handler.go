package candidatures

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/extract"
	"cozetik-backend/internal/filestore"
	"cozetik-backend/internal/shared/leadstatus"
	"cozetik-backend/internal/shared/server/respond"
	"cozetik-backend/internal/shared/storage/object"
	"cozetik-backend/internal/shared/telemetry"
)

const (
	successMessage              = "Candidature enregistrée avec succès"
	misconfiguredStorageMessage = "Le service de stockage des fichiers est mal configuré, veuillez contacter l'administrateur"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// MaxFileBytes sizes the request body cap (three files plus form fields).
	MaxFileBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxFileBytes int64) *Handler {
	if maxFileBytes <= 0 {
		maxFileBytes = filestore.DefaultMaxBytes
	}
	return &Handler{Svc: svc, MaxFileBytes: maxFileBytes}
}

// RegisterPublicRoutes attaches the intake route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidatures", h.submit)
}

// RegisterAdminRoutes attaches back-office routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/candidatures", h.list)
	rg.GET("/candidatures/:id", h.get)
	rg.PATCH("/candidatures/:id/status", h.updateStatus)
	rg.DELETE("/candidatures/:id", h.delete)
	rg.POST("/candidatures/:id/send-email", h.sendEmail)
	rg.GET("/candidatures/:id/cv/text", h.resumeText)
	rg.GET("/candidatures/:id/documents/:doc", h.download)
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 3*h.MaxFileBytes+1<<20)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "La requête dépasse la taille maximale autorisée", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "Formulaire invalide", err.Error())
		return
	}

	sub := Submission{
		Civility:          c.PostForm("civility"),
		FirstName:         c.PostForm("firstName"),
		LastName:          c.PostForm("lastName"),
		BirthDate:         c.PostForm("birthDate"),
		Email:             c.PostForm("email"),
		Phone:             c.PostForm("phone"),
		Address:           c.PostForm("address"),
		PostalCode:        c.PostForm("postalCode"),
		City:              c.PostForm("city"),
		CategoryFormation: c.PostForm("categoryFormation"),
		Formation:         c.PostForm("formation"),
		EducationLevel:    c.PostForm("educationLevel"),
		CurrentSituation:  c.PostForm("currentSituation"),
		StartDate:         c.PostForm("startDate"),
		Motivation:        c.PostForm("motivation"),
		AcceptPrivacy:     c.PostForm("acceptPrivacy") == "true",
		AcceptNewsletter:  c.PostForm("acceptNewsletter") == "true",
	}

	var closers []io.Closer
	defer func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}()
	for field, dst := range map[string]**filestore.File{
		"cv":            &sub.CV,
		"coverLetter":   &sub.CoverLetter,
		"otherDocument": &sub.OtherDocument,
	} {
		f, closer, err := openFormFile(form, field)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Fichier illisible : "+field, err.Error())
			return
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		*dst = f
	}

	created, err := h.Svc.Submit(c.Request.Context(), sub)
	if err != nil {
		h.submitError(c, err)
		return
	}
	respond.Created(c, created.ID, createdResponse{Message: successMessage, ID: created.ID})
}

func (h *Handler) submitError(c *gin.Context, err error) {
	var verr *Error
	var ferr *filestore.Error
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, gin.H{"kind": verr.Kind, "fields": verr.Fields})
	case errors.As(err, &ferr):
		if ferr.Kind == filestore.KindTooLarge || ferr.Kind == filestore.KindEmpty {
			respond.Error(c, http.StatusBadRequest, "file_rejected", ferr.Message, gin.H{"kind": ferr.Kind})
			return
		}
		msg := "Le téléversement du CV a échoué, veuillez réessayer"
		if ferr.Kind == filestore.KindCredentials || ferr.Kind == filestore.KindBucket {
			msg = misconfiguredStorageMessage
		}
		respond.Error(c, http.StatusInternalServerError, "upload_failed", msg, gin.H{"kind": ferr.Kind, "cause": err.Error()})
	case errors.Is(err, ErrDuplicate):
		respond.Error(c, http.StatusBadRequest, "duplicate", "Cette candidature a déjà été enregistrée", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Une erreur est survenue lors de l'enregistrement de votre candidature", err.Error())
	}
}

func openFormFile(form *multipart.Form, field string) (*filestore.File, io.Closer, error) {
	headers := form.File[field]
	if len(headers) == 0 || headers[0] == nil {
		return nil, nil, nil
	}
	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &filestore.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func (h *Handler) list(c *gin.Context) {
	f := ListFilter{Limit: 20}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			f.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			f.Offset = parsed
		}
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		status, err := leadstatus.Parse(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid status filter", nil)
			return
		}
		f.Status = status
	}
	f = normalizePage(f)

	items, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list candidatures", err.Error())
		return
	}
	out := make([]Response, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	respond.OK(c, listResponse{Items: out, Limit: f.Limit, Offset: f.Offset})
}

func (h *Handler) get(c *gin.Context) {
	item, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.adminError(c, err)
		return
	}
	respond.OK(c, toResponse(item))
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "status is required", err.Error())
		return
	}

	item, prev, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.adminError(c, err)
		return
	}
	c.Set("statusTransition", string(prev)+"->"+string(item.Status))
	respond.OK(c, toResponse(item))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.adminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "subject and message are required", err.Error())
		return
	}
	if err := h.Svc.SendEmail(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Subject), req.Message); err != nil {
		h.adminError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) resumeText(c *gin.Context) {
	text, err := h.Svc.ResumeText(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.adminError(c, err)
		return
	}
	respond.OK(c, resumeTextResponse{ID: c.Param("id"), Text: text})
}

func (h *Handler) download(c *gin.Context) {
	rc, att, err := h.Svc.OpenDocument(c.Request.Context(), c.Param("id"), Document(c.Param("doc")))
	if err != nil {
		h.adminError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", "attachment; filename=\""+strings.ReplaceAll(att.Filename, "\"", "")+"\"")
	c.Header("Cache-Control", "private, no-store")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		telemetry.Warn("candidature.download_failed", map[string]any{"id": c.Param("id"), "error": err})
	}
}

func (h *Handler) adminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Candidature non trouvée", nil)
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Statut invalide", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusBadRequest, "invalid_transition", "Transition de statut non autorisée", nil)
	case errors.Is(err, ErrNoDocument), errors.Is(err, object.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Document non disponible", nil)
	case errors.Is(err, extract.ErrUnsupported):
		respond.Error(c, http.StatusUnprocessableEntity, "unsupported_document", "Format de document non pris en charge", nil)
	case errors.Is(err, ErrEmailFailed):
		respond.Error(c, http.StatusBadGateway, "email_failed", "L'envoi de l'email a échoué", err.Error())
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Erreur serveur", err.Error())
	}
}
