package inscriptions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the formation inscription route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/inscriptions", h.submit)
}

// RegisterAdminRoutes attaches back-office routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/inscriptions", h.list)
	rg.GET("/inscriptions/:id", h.get)
	rg.PATCH("/inscriptions/:id/status", h.updateStatus)
	rg.DELETE("/inscriptions/:id", h.delete)
}

func (h *Handler) submit(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Données invalides", err.Error())
		return
	}

	created, err := h.Svc.Submit(c.Request.Context(), in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Invalid(c, "Données invalides", verr.Issues)
		case errors.Is(err, ErrFormationNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Formation introuvable", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Erreur lors de l'enregistrement", err.Error())
		}
		return
	}
	respond.Created(c, created.ID, createdResponse{
		Success:   true,
		Message:   "Inscription enregistrée avec succès",
		ID:        created.ID,
		Formation: created.Formation.Title,
	})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Erreur lors de la récupération des inscriptions", err.Error())
		return
	}
	out := make([]Response, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	respond.OK(c, out)
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
		respond.Error(c, http.StatusBadRequest, "validation_error", "Statut requis", err.Error())
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
	respond.OK(c, gin.H{"message": "Inscription supprimée avec succès"})
}

func (h *Handler) adminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Inscription non trouvée", nil)
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Statut invalide", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusBadRequest, "invalid_transition", "Transition de statut non autorisée", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Erreur serveur", err.Error())
	}
}
