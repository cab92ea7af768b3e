// Package bootstrap wires configuration, stores, services, and the router
// into a runnable application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	appControllers "github.com/selcuk/alumnihub/internal/app/controllers"
	appMigrations "github.com/selcuk/alumnihub/internal/app/migrations"
	"github.com/selcuk/alumnihub/internal/app/models"
	appRepos "github.com/selcuk/alumnihub/internal/app/repositories"
	appRoutes "github.com/selcuk/alumnihub/internal/app/routes"
	appServices "github.com/selcuk/alumnihub/internal/app/services"
	"github.com/selcuk/alumnihub/internal/config"
	"github.com/selcuk/alumnihub/internal/db"
	"github.com/selcuk/alumnihub/internal/docstore"
	"github.com/selcuk/alumnihub/internal/identity"
	appMiddleware "github.com/selcuk/alumnihub/internal/middleware"
	pkgAuth "github.com/selcuk/alumnihub/internal/pkg/auth"
	"github.com/selcuk/alumnihub/internal/pkg/blobstore"
	"github.com/selcuk/alumnihub/internal/pkg/logger"
	"github.com/selcuk/alumnihub/internal/sheets"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos              *appRepos.Repositories
	DocStore           docstore.Store
	Identity           identity.Provider
	Storage            *blobstore.LocalStorage
	JWTService         *pkgAuth.JWTService
	AlumniService      *appServices.AlumniService
	SyncService        *appServices.SyncService
	SheetService       *appServices.SheetService
	AuthService        *appServices.AuthService
	HealthController   *appControllers.HealthController
	AuthController     *appControllers.AuthController
	AlumniController   *appControllers.AlumniController
	SyncController     *appControllers.SyncController
	IdentityController *appControllers.IdentityController
	StorageController  *appControllers.StorageController
	AuthMiddleware     *appMiddleware.AuthMiddleware
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// A .env file next to the binary is applied before the config is read.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	logger.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")

	return cfg, nil
}

// SetupDatabase establishes the primary-store connection, runs migrations,
// and seeds the default admin account.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info().Msg("Database connection established")

	migrator := appMigrations.NewMigrator(database)
	if err := migrator.MigrateFromDirectory(context.Background(), "migrations"); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seedDefaultAdmin(context.Background(), database); err != nil {
		logger.Error().Err(err).Msg("Failed to seed default admin, proceeding anyway")
	}

	return database, nil
}

// seedDefaultAdmin creates the initial admin account when it does not exist.
// Credentials come from ADMIN_USERNAME / ADMIN_PASSWORD / ADMIN_EMAIL.
func seedDefaultAdmin(ctx context.Context, database *db.PostgresDB) error {
	username := config.GetEnv("ADMIN_USERNAME", "admin")
	password := config.GetEnv("ADMIN_PASSWORD", "admin123")
	email := config.GetEnv("ADMIN_EMAIL", "admin@alumnihub.app")

	hashed, err := pkgAuth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	userRepo := appRepos.NewUserRepository(database.Pool)
	err = userRepo.Create(ctx, &models.User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		DisplayName: "Administrator",
		RoleType:    models.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, appRepos.ErrUsernameAlreadyExists) || errors.Is(err, appRepos.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	logger.Info().Str("username", username).Msg("Default admin account created")
	return nil
}

// SetupDocStore connects the document-store mirror. Without a configured URI
// the in-memory store backs the mirror, which keeps single-store deployments
// working.
func SetupDocStore(cfg *config.Config) (docstore.Store, *db.MongoDB, error) {
	if cfg.DocStore.URI == "" {
		logger.Warn().Msg("No document store URI configured, using in-memory mirror")
		return docstore.NewMemStore(), nil, nil
	}

	mongoDB, err := db.NewMongoDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	store := docstore.NewMongoStore(mongoDB.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.EnsureEmailIndex(ctx, cfg.DocStore.Collection); err != nil {
		logger.Error().Err(err).Msg("Failed to ensure mirror email index, proceeding anyway")
	}

	logger.Info().Str("database", cfg.DocStore.Database).Str("collection", cfg.DocStore.Collection).
		Msg("Document store connected")
	return store, mongoDB, nil
}

// BuildDependencies initializes repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, store docstore.Store) (*Dependencies, error) {
	deps := &Dependencies{DocStore: store}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	tokenExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: tokenExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	baseURL := "http://localhost:" + cfg.Server.Port
	deps.Storage, err = blobstore.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	deps.Identity = identity.NewLocalProvider(deps.Repos.UserRepository, deps.JWTService)

	relational := appServices.NewPgRelationalStore(deps.Repos.AlumniRepository)
	deps.AlumniService = appServices.NewAlumniService(deps.Repos.AlumniRepository)
	deps.SyncService = appServices.NewSyncService(store, relational, cfg.DocStore.Collection)
	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)

	var sheetClient sheets.Client
	if cfg.Sheets.CSVURL != "" {
		sheetClient = sheets.NewCSVClient(cfg.Sheets.CSVURL)
	}
	deps.SheetService = appServices.NewSheetService(sheetClient, relational)

	deps.HealthController = appControllers.NewHealthController(database, store, deps.Storage)
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.AlumniController = appControllers.NewAlumniController(deps.AlumniService)
	deps.SyncController = appControllers.NewSyncController(deps.SyncService, deps.SheetService)
	deps.IdentityController = appControllers.NewIdentityController(deps.Identity)
	deps.StorageController = appControllers.NewStorageController(deps.Storage)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	return deps, nil
}

// SetupRouter builds the Gin engine and registers routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	appRoutes.SetupRouter(
		router,
		deps.HealthController,
		deps.AuthController,
		deps.AlumniController,
		deps.SyncController,
		deps.IdentityController,
		deps.StorageController,
		deps.AuthMiddleware,
	)

	return router
}

// requestLogger logs completed requests through the structured logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}
