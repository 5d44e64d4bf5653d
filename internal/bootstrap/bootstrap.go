package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/signupdesk/internal/app/controllers"
	"github.com/yigit/signupdesk/internal/app/models"
	"github.com/yigit/signupdesk/internal/app/models/dto"
	appRepos "github.com/yigit/signupdesk/internal/app/repositories"
	appRoutes "github.com/yigit/signupdesk/internal/app/routes"
	appServices "github.com/yigit/signupdesk/internal/app/services"
	"github.com/yigit/signupdesk/internal/config"
	"github.com/yigit/signupdesk/internal/db"
	appMiddleware "github.com/yigit/signupdesk/internal/middleware"
	"github.com/yigit/signupdesk/internal/pkg/filestorage"
	"github.com/yigit/signupdesk/internal/pkg/helpers"
	"github.com/yigit/signupdesk/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store       db.DocumentStore
	FileStorage filestorage.FileStorage
	Repos       *appRepos.Repositories
	Services    *appServices.Services

	InstructorController *appControllers.InstructorController // nil when the role is disabled
	StudentController    *appControllers.StudentController    // nil when the role is disabled
	HealthController     *appControllers.HealthController
	FileController       *appControllers.FileController

	Signups []appRoutes.SignupEndpoint
	Logger  zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", config.DefaultPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Str("config", configPath).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the document store selected by database.driver. An unreachable
// store is only fatal when database.require_connection is set.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (db.DocumentStore, error) {
	timeout := helpers.ParseDuration(cfg.Database.ConnectTimeout, 10*time.Second)
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")

	var (
		store db.DocumentStore
		err   error
	)
	switch cfg.Database.Driver {
	case "mongo":
		store, err = db.NewMongoStore(ctx, cfg.Database.URI, timeout)
	case "postgres":
		store, err = db.NewPostgresStore(ctx, cfg)
	case "sqlite":
		store, err = db.NewSQLiteStore(ctx, cfg.Database.SQLitePath)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create document store")
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		if cfg.Database.RequireConnection {
			lgr.Error().Err(err).Msg("Failed to ping database")
			_ = store.Close(context.Background())
			return nil, fmt.Errorf("database unreachable: %w", err)
		}
		lgr.Error().Err(err).Msg("Database unreachable, continuing; requests will fail until it is back")
		return store, nil
	}
	lgr.Info().Msg("Database connection successfully established.")

	if pg, ok := store.(*db.PostgresStore); ok {
		lgr.Info().Msg("Running database migrations...")
		if err := pg.Migrate(ctx); err != nil {
			if cfg.Database.RequireConnection {
				_ = store.Close(context.Background())
				return nil, fmt.Errorf("database migrations failed: %w", err)
			}
			lgr.Error().Err(err).Msg("Database migration error")
		} else {
			lgr.Info().Msg("Database migrations successfully applied.")
		}
	}

	return store, nil
}

// SetupFileStorage creates the photo storage selected by storage.driver
func SetupFileStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, error) {
	namer, err := filestorage.NamerFor(cfg.Storage.Naming)
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case "minio":
		m := cfg.Storage.Minio
		return filestorage.NewMinioStorage(ctx, filestorage.MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
		}, namer)
	default:
		return filestorage.NewLocalStorage(cfg.Storage.Path, namer)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, store db.DocumentStore, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	var err error
	deps.FileStorage, err = SetupFileStorage(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	maxUpload, err := cfg.MaxUploadBytes()
	if err != nil {
		return nil, err
	}

	insDB, insColl, _ := cfg.CollectionFor(config.RoleInstructor)
	stdDB, stdColl, _ := cfg.CollectionFor(config.RoleStudent)
	deps.Repos = appRepos.NewRepositories(store,
		db.Namespace{Database: insDB, Collection: insColl},
		db.Namespace{Database: stdDB, Collection: stdColl},
	)
	deps.Services = appServices.NewServices(deps.Repos, deps.FileStorage)

	if cfg.HasRole(config.RoleInstructor) {
		deps.InstructorController = appControllers.NewSignupController(models.InstructorRole,
			deps.Services.InstructorService,
			appControllers.Binder[*models.Instructor](appControllers.Bind[dto.InstructorSignupRequest, models.Instructor]))
		deps.Signups = append(deps.Signups, appRoutes.SignupEndpoint{
			Controller: deps.InstructorController,
			Upload:     appMiddleware.UploadMiddleware(deps.FileStorage, "photo", maxUpload, models.InstructorRole.SignupFailure),
		})
		lgr.Info().Str("namespace", deps.Repos.InstructorRepository.Namespace().String()).Msg("Instructor signup enabled")
	}

	if cfg.HasRole(config.RoleStudent) {
		deps.StudentController = appControllers.NewSignupController(models.StudentRole,
			deps.Services.StudentService,
			appControllers.Binder[*models.Student](appControllers.Bind[dto.StudentSignupRequest, models.Student]))
		deps.Signups = append(deps.Signups, appRoutes.SignupEndpoint{
			Controller: deps.StudentController,
			Upload:     appMiddleware.UploadMiddleware(deps.FileStorage, "photo", maxUpload, models.StudentRole.SignupFailure),
		})
		lgr.Info().Str("namespace", deps.Repos.StudentRepository.Namespace().String()).Msg("Student signup enabled")
	}

	deps.HealthController = appControllers.NewHealthController(store)
	deps.FileController = appControllers.NewFileController(deps.FileStorage, cfg.Storage.PublicPath)

	lgr.Info().
		Str("storage", cfg.Storage.Driver).
		Str("naming", cfg.Storage.Naming).
		Str("maxUpload", helpers.FormatBytes(maxUpload)).
		Msg("File storage ready")

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.LoggerMiddleware())
	router.Use(appMiddleware.CORSMiddleware(cfg.Server.CORSOrigins))

	appRoutes.SetupRouter(router, deps.Signups, deps.HealthController, deps.FileController)

	return router
}
