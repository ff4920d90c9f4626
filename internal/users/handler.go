package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/shared/server/middleware"
	"cozetik-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the login route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.login)
}

// RegisterAdminRoutes attaches routes that need an admin session.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", err.Error())
		return
	}
	token, user, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Email ou mot de passe incorrect", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "login failed", err.Error())
		return
	}
	respond.OK(c, gin.H{"token": token, "user": user})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, user)
}
