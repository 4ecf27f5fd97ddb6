package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/config"
	infraCache "library-catalog/internal/infrastructure/cache"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/infrastructure/queue"
	"library-catalog/internal/infrastructure/storage"
	"library-catalog/internal/shared"
	"library-catalog/pkg/cache"
	"library-catalog/pkg/jwt"

	authorHandler "library-catalog/internal/domains/author/handler"
	authorRepo "library-catalog/internal/domains/author/repository"
	authorService "library-catalog/internal/domains/author/service"

	bookHandler "library-catalog/internal/domains/book/handler"
	bookJob "library-catalog/internal/domains/book/job"
	bookRepo "library-catalog/internal/domains/book/repository"
	bookService "library-catalog/internal/domains/book/service"

	userHandler "library-catalog/internal/domains/user/handler"
	userModel "library-catalog/internal/domains/user/model"
	userRepo "library-catalog/internal/domains/user/repository"
	userService "library-catalog/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by cmd/api and cmd/worker
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       *infraCache.RedisCache
	Storage     *storage.MinIOStorage // nil when MinIO is unreachable
	QueueClient *queue.Client
	JWTManager  *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo      userRepo.RepositoryInterface
	AuthorRepo    authorRepo.RepositoryInterface
	BookRepo      bookRepo.RepositoryInterface
	ImportJobRepo bookRepo.ImportJobRepository
	ImportStores  bookRepo.ImportStoreFactory

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService       userService.ServiceInterface
	AuthorService     authorService.ServiceInterface
	BookService       bookService.ServiceInterface
	BulkImportService bookService.BulkImportServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	UserHandler       *userHandler.UserHandler
	AuthorHandler     *authorHandler.AuthorHandler
	BookHandler       *bookHandler.Handler
	BulkImportHandler *bookHandler.BulkImportHandler

	// ========================================
	// JOB HANDLERS (asynq)
	// ========================================
	ImportBooksJob    *bookJob.ImportBooksHandler
	CleanupUploadsJob *bookJob.CleanupUploadsHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer connects infrastructure and wires every layer in order:
// infrastructure, repositories, services, handlers.
// PostgreSQL is required; Redis and MinIO failures only disable the features
// that depend on them.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Str("environment", cfg.App.Environment).Msg("Initializing DI container")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// RedisOpt is the asynq connection for the configured Redis
func (c *Container) RedisOpt() asynq.RedisClientOpt {
	return RedisOpt(c.Config)
}

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// SeedAccounts maps the seed config to the default admin and user accounts
func SeedAccounts(cfg config.SeedConfig) []userModel.SeedAccount {
	return []userModel.SeedAccount{
		{Email: cfg.AdminEmail, Password: cfg.AdminPassword, FullName: "Administrator", Role: shared.RoleAdmin},
		{Email: cfg.UserEmail, Password: cfg.UserPassword, FullName: "Default User", Role: shared.RoleUser},
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	dbConfig, err := cfg.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("Database connected")

	c.Cache = infraCache.NewRedisCache(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Cache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), caching and import lock degraded")
	}

	minio, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		log.Warn().Err(err).Msg("MinIO unavailable (non-critical), async imports disabled")
	} else {
		c.Storage = minio
		log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("MinIO connected")
	}

	c.QueueClient = queue.NewClient(c.RedisOpt())

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
	)

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool, c.cache())
	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.cache())
	c.ImportJobRepo = bookRepo.NewImportJobRepository(pool)
	c.ImportStores = bookRepo.NewImportStoreFactory(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo)

	deps := bookService.BulkImportDeps{
		Stores:       c.ImportStores,
		Jobs:         c.ImportJobRepo,
		Lock:         c.cache(),
		Invalidators: []bookService.CacheInvalidator{c.AuthorRepo, c.BookRepo},
		Config:       c.Config.Import,
	}
	// async import needs both object storage and the queue
	if c.Storage != nil {
		deps.Objects = c.Storage
		deps.Tasks = c.QueueClient
	}
	c.BulkImportService = bookService.NewBulkImportService(deps)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.BulkImportHandler = bookHandler.NewBulkImportHandler(c.BulkImportService, c.Config.Import.MaxFileSize())

	c.ImportBooksJob = bookJob.NewImportBooksHandler(c.BulkImportService)
	c.CleanupUploadsJob = bookJob.NewCleanupUploadsHandler(c.BulkImportService)
}

func (c *Container) cache() cache.Cache {
	return c.Cache
}

// ========================================
// LIFECYCLE
// ========================================

// HealthCheck pings PostgreSQL and Redis
func (c *Container) HealthCheck(ctx context.Context) map[string]error {
	return map[string]error{
		"database": c.DB.HealthCheck(ctx),
		"redis":    c.Cache.Ping(ctx),
	}
}

// Cleanup releases every connection; safe on a partially built container
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
