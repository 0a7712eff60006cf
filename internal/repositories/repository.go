package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository used by the services.
type Repository interface {
	User() UserRepository
	Student() StudentRepository
	Course() CourseRepository
	ActivityLog() ActivityLogRepository

	// WithTransaction runs fn in one database transaction. Repository calls
	// inside fn must receive tx so they join the transaction.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
