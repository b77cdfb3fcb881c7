// Package bootstrap wires configuration, storage, services and routes
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/meetapp/backend/internal/app/controllers"
	appMigrations "github.com/meetapp/backend/internal/app/migrations"
	appRepos "github.com/meetapp/backend/internal/app/repositories"
	appRoutes "github.com/meetapp/backend/internal/app/routes"
	appServices "github.com/meetapp/backend/internal/app/services"
	"github.com/meetapp/backend/internal/config"
	"github.com/meetapp/backend/internal/db"
	appMiddleware "github.com/meetapp/backend/internal/middleware"
	pkgAuth "github.com/meetapp/backend/internal/pkg/auth"
	"github.com/meetapp/backend/internal/pkg/clock"
	"github.com/meetapp/backend/internal/pkg/logger"
	"github.com/meetapp/backend/internal/pkg/metrics"
	"github.com/meetapp/backend/internal/pkg/tokenstore"
	"github.com/meetapp/backend/internal/pkg/websocket"
	"github.com/meetapp/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	UserService       appServices.UserService
	ActivityService   appServices.ActivityService
	MembershipService appServices.MembershipService
	ChatService       appServices.ChatService
	OfferService      appServices.OfferService

	AuthController     *appControllers.AuthController
	UserController     *appControllers.UserController
	ActivityController *appControllers.ActivityController
	MessageController  *appControllers.ActivityMessageController
	OfferController    *appControllers.OfferController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	TokenStore     *tokenstore.Store
	Metrics        *metrics.Registry
	Hub            *websocket.Hub
	WSHandler      *websocket.Handler
	RedisClient    *redis.Client
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, logger.With("migrations"))

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, logger.With("seed")); err != nil {
		// Demo data is a convenience; startup continues without it
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects the refresh-token store backend.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client, nil
}

// BuildDependencies initializes repositories, services, controllers and
// the chat hub. The hub's run loop is started here.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, RedisClient: redisClient}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Metrics = metrics.NewRegistry()
	deps.TokenStore = tokenstore.NewStore(redisClient)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  parseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: parseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	clk := clock.System{}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.TokenStore,
		deps.JWTService,
		clk,
		lgr,
	)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, deps.Repos.MembershipRepository, lgr)
	deps.ActivityService = appServices.NewActivityService(
		deps.Repos.ActivityRepository,
		deps.Repos.OfferRepository,
		deps.Repos.UserRepository,
		clk,
		lgr,
	)
	deps.MembershipService = appServices.NewMembershipService(
		deps.Repos.ActivityRepository,
		deps.Repos.MembershipRepository,
		deps.Repos.UserRepository,
		clk,
		deps.Metrics,
		lgr,
	)
	deps.ChatService = appServices.NewChatService(
		deps.Repos.MessageRepository,
		deps.Repos.ActivityRepository,
		deps.Repos.UserRepository,
		clk,
		deps.Metrics,
		lgr,
	)
	deps.OfferService = appServices.NewOfferService(deps.Repos.OfferRepository, deps.Repos.UserRepository, clk, lgr)

	deps.Hub = websocket.NewHub(deps.Metrics, logger.With("websocket"))
	go deps.Hub.Run()
	deps.WSHandler = websocket.NewHandler(deps.Hub, deps.ChatService, logger.With("websocket"))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.ActivityService, lgr)
	deps.ActivityController = appControllers.NewActivityController(deps.ActivityService, deps.MembershipService, lgr)
	deps.MessageController = appControllers.NewActivityMessageController(deps.ChatService, lgr)
	deps.OfferController = appControllers.NewOfferController(deps.OfferService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.Metrics(deps.Metrics))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.ActivityController,
		deps.MessageController,
		deps.OfferController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}

// parseDuration parses a duration string, falling back to a default when
// the string is empty or malformed.
func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
