package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/homequeen/api/config"
	"github.com/homequeen/api/internal/events"
	"github.com/homequeen/api/middleware"
	"github.com/homequeen/api/repositories"
	"github.com/homequeen/api/repositories/postgres"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/services/audit"
	"github.com/homequeen/api/services/ratelimit"
	"github.com/homequeen/api/services/revocation"
	"go.uber.org/zap"
)

// revocationCacheSize bounds the in-memory denylist answer cache
const revocationCacheSize = 10000

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Problems lists the settings that keep the API closed. When it is
	// non-empty only the gate, ping and health routes are served and
	// nothing below is initialized except AuthMiddleware.
	Problems []config.Misconfiguration

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Events
	Publisher events.Publisher
	publisher interface{ Close() error }

	// Services
	Tokens        *services.TokenService
	Auth          *services.AuthService
	Users         *services.UserService
	Families      *services.FamilyService
	Tasks         *services.TaskService
	Expenses      *services.ExpenseService
	Shopping      *services.ShoppingService
	Kids          *services.KidService
	Marketplace   *services.MarketplaceService
	Notifications *services.NotificationService
	Audit         *audit.Service
	Throttle      *ratelimit.Service
	Revocations   *revocation.Service

	// Auth
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies. A
// misconfigured server gets a closed set of dependencies instead of an error
// so it can still answer with 503.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if problems := cfg.Misconfigurations(); len(problems) > 0 {
		for _, p := range problems {
			logger.Warn("server misconfigured, api closed",
				zap.String("problem", string(p.Problem)),
				zap.String("message", p.Message))
		}
		return &Dependencies{
			Config:         cfg,
			Logger:         logger,
			Problems:       problems,
			AuthMiddleware: middleware.NewAuthMiddleware(&rejectAllValidator{}, logger),
		}, nil
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := deps.wire(deps.RepoFactory.NewRepositories(), deps.RepoFactory.GetTransactionManager()); err != nil {
		_ = deps.RepoFactory.Close()
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesWithRepositories wires the services over repos without
// opening a database
func NewDependenciesWithRepositories(cfg *config.Config, logger *zap.Logger, repos *repositories.Repositories, txMgr repositories.TransactionManager) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Logger:   logger,
		Problems: cfg.Misconfigurations(),
	}
	if err := deps.wire(repos, txMgr); err != nil {
		return nil, err
	}
	return deps, nil
}

// initDatabase opens the pool and applies pending migrations when enabled
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if cfg.Database.AutoMigrate {
		if err := d.DB.Migrate(ctx); err != nil {
			_ = factory.Close()
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return nil
}

// wire builds the publisher, services and auth middleware over repos
func (d *Dependencies) wire(repos *repositories.Repositories, txMgr repositories.TransactionManager) error {
	cfg, logger := d.Config, d.Logger
	d.Repos = repos
	d.TxManager = txMgr

	tokens, err := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	d.Tokens = tokens

	if err := d.initPublisher(repos); err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}

	d.Audit = audit.NewService(repos.AuditLogs, logger, audit.DefaultConfig())
	if err := d.Audit.Start(); err != nil {
		d.closePublisher()
		return fmt.Errorf("failed to start audit service: %w", err)
	}
	d.Throttle = ratelimit.NewService(repos.LoginAttempts, cfg.RateLimit, logger)
	d.Revocations = revocation.NewService(repos.Revocations, revocationCacheSize, logger)

	d.Auth = services.NewAuthService(services.AuthServiceDeps{
		Users:       repos.Users,
		Hasher:      services.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:      tokens,
		Throttle:    d.Throttle,
		Revocations: d.Revocations,
		Audit:       d.Audit,
		Events:      d.Publisher,
		Logger:      logger,

		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	})
	d.Users = services.NewUserService(repos.Users, logger)
	d.Families = services.NewFamilyService(repos.Families, repos.Users, txMgr, logger)
	d.Tasks = services.NewTaskService(repos.Tasks, logger)
	d.Expenses = services.NewExpenseService(repos.Expenses, logger)
	d.Shopping = services.NewShoppingService(repos.Shopping, logger)
	d.Kids = services.NewKidService(repos.Kids, repos.Users, logger)
	d.Marketplace = services.NewMarketplaceService(repos.Services, repos.Providers, repos.Bookings, d.Publisher, logger)
	d.Notifications = services.NewNotificationService(repos.Notifications, logger)

	d.AuthMiddleware = middleware.NewAuthMiddleware(&tokenValidatorAdapter{tokens: tokens}, logger).
		WithRevocations(d.Revocations)

	logger.Info("services initialized")
	return nil
}

// initPublisher sends events to RabbitMQ when a broker is configured and
// otherwise projects them in-process
func (d *Dependencies) initPublisher(repos *repositories.Repositories) error {
	if url := d.Config.Broker.RabbitURL; url != "" {
		p, err := events.NewRabbitPublisher(url, d.Config.Broker.Exchange)
		if err != nil {
			return err
		}
		d.Publisher, d.publisher = p, p
		d.Logger.Info("publishing events to rabbitmq", zap.String("exchange", d.Config.Broker.Exchange))
		return nil
	}

	d.Publisher = events.NewInProcessPublisher(d.Logger, events.NewNotificationProjector(repos.Notifications, d.Logger))
	d.Logger.Info("publishing events in-process")
	return nil
}

func (d *Dependencies) closePublisher() error {
	if d.publisher == nil {
		return nil
	}
	return d.publisher.Close()
}

// SQLDB returns the underlying pool, or nil when no database is open
func (d *Dependencies) SQLDB() *sql.DB {
	if d.DB == nil {
		return nil
	}
	return d.DB.DB
}

// Misconfigured reports whether the API is closed
func (d *Dependencies) Misconfigured() bool {
	return len(d.Problems) > 0
}

// StartWorkers runs the periodic cleanup loops until ctx is done. It is a
// no-op on a misconfigured server.
func (d *Dependencies) StartWorkers(ctx context.Context) {
	if d.Misconfigured() || d.Throttle == nil || d.Config.RateLimit.CleanupInterval <= 0 {
		<-ctx.Done()
		return
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Revocations.StartCleanupWorker(ctx, d.Config.RateLimit.CleanupInterval)
	}()
	d.Throttle.StartCleanupWorker(ctx, d.Config.RateLimit.CleanupInterval, d.Config.RateLimit.Retention)
	<-done
}

// tokenValidatorAdapter adapts services.TokenService to middleware.TokenValidator
type tokenValidatorAdapter struct {
	tokens *services.TokenService
}

func (a *tokenValidatorAdapter) ValidateToken(_ context.Context, token string) (*middleware.Identity, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &middleware.Identity{
		UserID:    claims.UserUUID(),
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// rejectAllValidator rejects all tokens (used while the server is misconfigured)
type rejectAllValidator struct{}

func (*rejectAllValidator) ValidateToken(context.Context, string) (*middleware.Identity, error) {
	return nil, errors.New("authentication not configured")
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Drain queued audit events
	if d.Audit != nil {
		timeout := 5 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		if err := d.Audit.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
	}

	if err := d.closePublisher(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
