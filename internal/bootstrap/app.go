package bootstrap

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cozetik-backend/internal/candidatures"
	"cozetik-backend/internal/contacts"
	"cozetik-backend/internal/email"
	"cozetik-backend/internal/filestore"
	"cozetik-backend/internal/inscriptions"
	"cozetik-backend/internal/llm"
	openai "cozetik-backend/internal/llm/openai"
	"cozetik-backend/internal/quiz"
	"cozetik-backend/internal/shared/auth"
	"cozetik-backend/internal/shared/config"
	"cozetik-backend/internal/shared/server"
	"cozetik-backend/internal/shared/server/middleware"
	"cozetik-backend/internal/shared/storage/db"
	"cozetik-backend/internal/shared/storage/object"
	localstore "cozetik-backend/internal/shared/storage/object/local"
	s3store "cozetik-backend/internal/shared/storage/object/s3"
	"cozetik-backend/internal/shared/telemetry"
	"cozetik-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Redis  *redis.Client

	CandidaturesRepo candidatures.Repo
	ContactsRepo     contacts.Repo
	InscriptionsRepo inscriptions.Repo
	UsersRepo        users.Repo
	Formations       inscriptions.FormationLookup

	CandidaturesService *candidatures.Service
	ContactsService     *contacts.Service
	InscriptionsService *inscriptions.Service
	QuizService         *quiz.Service
	UsersService        *users.Service

	CandidaturesHandler *candidatures.Handler
	ContactsHandler     *contacts.Handler
	InscriptionsHandler *inscriptions.Handler
	QuizHandler         *quiz.Handler
	UsersHandler        *users.Handler
}

// Build prepares every dependency and wires the HTTP routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return assemble(ctx, cfg, sqlDB)
}

// assemble takes ownership of sqlDB: any failure closes it along with
// whatever else was opened.
func assemble(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (_ *App, err error) {
	app := &App{Config: cfg, DB: sqlDB}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	if app.Store, err = buildStore(ctx, cfg); err != nil {
		return nil, err
	}
	if err = buildServices(ctx, app); err != nil {
		return nil, err
	}
	limiter, err := buildLimiter(ctx, app)
	if err != nil {
		return nil, err
	}

	deps := server.RouterDeps{
		Config:       cfg,
		Candidatures: app.CandidaturesHandler,
		Contacts:     app.ContactsHandler,
		Inscriptions: app.InscriptionsHandler,
		Quiz:         app.QuizHandler,
		Users:        app.UsersHandler,
		Verifier:     app.UsersService.Signer,
		Limiter:      limiter,
		DB:           sqlDB,
	}
	if cfg.ObjectStoreType != "s3" {
		deps.LocalFiles = app.Store
	}
	app.Router = server.NewRouter(deps)

	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_memory", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	case "local", "":
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported OBJECT_STORE %q", cfg.ObjectStoreType)
	}
}

func buildLimiter(ctx context.Context, app *App) (middleware.Limiter, error) {
	if strings.TrimSpace(app.Config.RedisURL) == "" {
		return middleware.NewRateLimiter(nil), nil
	}
	opts, err := redis.ParseURL(app.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if isDevLike(app.Config.Env) {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
			return middleware.NewRateLimiter(nil), nil
		}
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	app.Redis = client
	return middleware.NewRedisLimiter(client, "cozetik:ratelimit:"), nil
}

func buildSigner(cfg config.Config) (*auth.Signer, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		if !isDevLike(cfg.Env) {
			return nil, errors.New("JWT_SECRET is required")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(buf)
		telemetry.Warn("bootstrap.jwt_ephemeral_secret", map[string]any{"env": cfg.Env})
	}
	return auth.NewSigner(secret, cfg.JWTTTL)
}

func buildCompleter(cfg config.Config) (llm.Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	case "", "none", "disabled":
		return llm.Disabled{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.CandidaturesRepo = &candidatures.PGRepo{DB: app.DB}
		app.ContactsRepo = &contacts.PGRepo{DB: app.DB}
		app.InscriptionsRepo = &inscriptions.PGRepo{DB: app.DB}
		app.Formations = &inscriptions.PGFormations{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.CandidaturesRepo = candidatures.NewMemoryRepo()
		app.ContactsRepo = contacts.NewMemoryRepo()
		app.InscriptionsRepo = inscriptions.NewMemoryRepo()
		app.Formations = inscriptions.NewMemoryFormations()
		app.UsersRepo = users.NewMemoryRepo()
	}

	mailer, err := email.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}

	signer, err := buildSigner(cfg)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	completer, err := buildCompleter(cfg)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}

	catalog, err := quiz.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("quiz catalog: %w", err)
	}

	files := filestore.New(app.Store, cfg.UploadMaxBytes)

	app.CandidaturesService = &candidatures.Service{
		Repo:                app.CandidaturesRepo,
		Files:               files,
		Mailer:              mailer,
		AdminEmail:          cfg.AdminEmail,
		MotivationMinLength: cfg.MotivationMinLength,
		MaxFileBytes:        cfg.UploadMaxBytes,
	}
	app.ContactsService = &contacts.Service{
		Repo:       app.ContactsRepo,
		Mailer:     mailer,
		AdminEmail: cfg.AdminEmail,
	}
	app.InscriptionsService = &inscriptions.Service{
		Repo:       app.InscriptionsRepo,
		Formations: app.Formations,
		Mailer:     mailer,
		AdminEmail: cfg.AdminEmail,
	}
	app.QuizService = &quiz.Service{Catalog: catalog, Completer: completer}
	app.UsersService = users.NewService(app.UsersRepo, signer)

	app.CandidaturesHandler = candidatures.NewHandler(app.CandidaturesService, cfg.UploadMaxBytes)
	app.ContactsHandler = contacts.NewHandler(app.ContactsService)
	app.InscriptionsHandler = inscriptions.NewHandler(app.InscriptionsService)
	app.QuizHandler = quiz.NewHandler(app.QuizService)
	app.UsersHandler = users.NewHandler(app.UsersService)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
