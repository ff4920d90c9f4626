package server

import (
	"context"
	"database/sql"
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cozetik-backend/internal/candidatures"
	"cozetik-backend/internal/contacts"
	"cozetik-backend/internal/inscriptions"
	"cozetik-backend/internal/quiz"
	"cozetik-backend/internal/shared/config"
	"cozetik-backend/internal/shared/metrics"
	"cozetik-backend/internal/shared/server/middleware"
	"cozetik-backend/internal/shared/server/respond"
	"cozetik-backend/internal/shared/storage/object"
	"cozetik-backend/internal/users"
)

const (
	RateGroupIntake = "INTAKE"
	RateGroupAuth   = "AUTH"
)

// RouterDeps carries the handlers and shared infrastructure the router needs.
type RouterDeps struct {
	Config       config.Config
	Candidatures *candidatures.Handler
	Contacts     *contacts.Handler
	Inscriptions *inscriptions.Handler
	Quiz         *quiz.Handler
	Users        *users.Handler
	Verifier     middleware.TokenVerifier
	Limiter      middleware.Limiter
	// LocalFiles is set when objects live on disk and must be served by the API.
	LocalFiles object.ObjectStore
	DB         *sql.DB
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logging(),
		middleware.CORS(cfg.CORSAllowOrigin),
		respond.ExposeDetails(!cfg.IsProduction()),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateRules(cfg),
			GroupFor: rateGroup,
			Limiter:  deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.LocalFiles != nil {
		r.GET("/files/*key", serveFile(deps.LocalFiles))
	}

	api := r.Group("/api/v1")
	api.GET("/health", health(deps.DB))

	public := api.Group("/public")
	if deps.Candidatures != nil {
		deps.Candidatures.RegisterPublicRoutes(public)
	}
	if deps.Contacts != nil {
		deps.Contacts.RegisterPublicRoutes(public)
	}
	if deps.Inscriptions != nil {
		deps.Inscriptions.RegisterPublicRoutes(public)
	}
	if deps.Quiz != nil {
		deps.Quiz.RegisterPublicRoutes(public)
	}

	if deps.Users != nil {
		deps.Users.RegisterPublicRoutes(api)
	}

	if deps.Verifier != nil {
		admin := api.Group("")
		admin.Use(middleware.AdminAuth(deps.Verifier))
		if deps.Users != nil {
			deps.Users.RegisterAdminRoutes(admin)
		}
		backOffice := admin.Group("/admin")
		if deps.Candidatures != nil {
			deps.Candidatures.RegisterAdminRoutes(backOffice)
		}
		if deps.Contacts != nil {
			deps.Contacts.RegisterAdminRoutes(backOffice)
		}
		if deps.Inscriptions != nil {
			deps.Inscriptions.RegisterAdminRoutes(backOffice)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})
	return r
}

func rateRules(cfg config.Config) map[string]middleware.RateLimitRule {
	intake := cfg.RateLimitIntake
	if intake <= 0 {
		intake = 5
	}
	return map[string]middleware.RateLimitRule{
		"DEFAULT":       {Limit: 120, Window: time.Minute},
		RateGroupIntake: {Limit: intake, Window: 15 * time.Minute},
		RateGroupAuth:   {Limit: 10, Window: 15 * time.Minute},
	}
}

func rateGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/api/v1/public/candidatures", "/api/v1/public/contact", "/api/v1/public/inscriptions", "/api/v1/public/quiz/recommendation":
		return RateGroupIntake
	case "/api/v1/auth/login":
		return RateGroupAuth
	default:
		return ""
	}
}

func health(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage := "memory"
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				respond.Error(c, http.StatusServiceUnavailable, "db_unavailable", "database unavailable", err.Error())
				return
			}
			storage = "postgres"
		}
		respond.OK(c, gin.H{"ok": true, "storage": storage})
	}
}

func serveFile(store object.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, object.ErrNotFound) || errors.Is(err, object.ErrInvalidKey) {
				respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read file", err.Error())
			return
		}
		defer rc.Close()

		contentType := mime.TypeByExtension(path.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
			"Cache-Control":           "private, max-age=3600",
			"Content-Disposition":     fileDisposition(key, contentType),
			"Content-Security-Policy": "sandbox",
			"X-Content-Type-Options":  "nosniff",
		})
	}
}

// inlineTypes are the only uploads a browser may render in place.
var inlineTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

func fileDisposition(key, contentType string) string {
	kind := "attachment"
	if inlineTypes[contentType] {
		kind = "inline"
	}
	if v := mime.FormatMediaType(kind, map[string]string{"filename": path.Base(key)}); v != "" {
		return v
	}
	return kind
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
