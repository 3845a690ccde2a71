package postgres

import (
	"github.com/homequeen/api/config"
	"github.com/homequeen/api/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates and manages all repositories
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory opens the pool described by cfg
func NewRepositoryFactory(cfg config.DatabaseConfig, logger *zap.Logger) (*RepositoryFactory, error) {
	db, err := NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &RepositoryFactory{db: db, logger: logger}, nil
}

// NewRepositoryFactoryFromDB builds a factory over an already open pool
func NewRepositoryFactoryFromDB(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, logger: logger}
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:         NewUserRepository(f.db, f.logger),
		Families:      NewFamilyRepository(f.db, f.logger),
		Tasks:         NewTaskRepository(f.db, f.logger),
		Expenses:      NewExpenseRepository(f.db, f.logger),
		Shopping:      NewShoppingRepository(f.db, f.logger),
		Kids:          NewKidRepository(f.db, f.logger),
		Services:      NewServiceRepository(f.db, f.logger),
		Providers:     NewProviderRepository(f.db, f.logger),
		Bookings:      NewBookingRepository(f.db, f.logger),
		Notifications: NewNotificationRepository(f.db, f.logger),
		AuditLogs:     NewAuditRepository(f.db, f.logger),
		Revocations:   NewRevocationRepository(f.db, f.logger),
		LoginAttempts: NewLoginAttemptRepository(f.db, f.logger),
	}
}

// GetTransactionManager returns a transaction manager
func (f *RepositoryFactory) GetTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
