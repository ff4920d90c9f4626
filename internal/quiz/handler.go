package quiz

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/server/respond"
)

// Handler exposes the public quiz routes.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches quiz routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/quiz/questions", h.questions)
	rg.POST("/quiz/recommendation", h.recommend)
}

type recommendRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

func (h *Handler) questions(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	respond.OK(c, gin.H{"questions": h.Svc.Catalog.Questions})
}

func (h *Handler) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Invalid(c, "Données invalides", []string{err.Error()})
		return
	}

	res, err := h.Svc.Recommend(c.Request.Context(), req.Answers)
	if err != nil {
		var aerr *AnswerError
		switch {
		case errors.As(err, &aerr):
			respond.Invalid(c, "Données invalides", gin.H{"questionId": aerr.QuestionID, "value": aerr.Value})
		case errors.Is(err, ErrNoAnswers):
			respond.Invalid(c, "Données invalides", gin.H{"answers": "au moins une réponse est requise"})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Une erreur est survenue lors de la génération des recommandations", err.Error())
		}
		return
	}
	respond.OK(c, res)
}
