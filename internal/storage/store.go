// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/paysplit/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when creating a record whose key is taken.
	ErrExists = errors.New("already exists")
	// ErrLocked is returned when deleting a locked method.
	ErrLocked = errors.New("method is locked")
)

// MethodStore persists payment split methods.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the web or service layers.
type MethodStore interface {
	// ListMethods returns all methods ordered by weight, then label.
	ListMethods(ctx context.Context) ([]*models.PaymentSplitMethod, error)

	// GetMethod retrieves a method by ID. Returns ErrNotFound if missing.
	GetMethod(ctx context.Context, id string) (*models.PaymentSplitMethod, error)

	// CreateMethod persists a new method. CreatedAt and UpdatedAt are set
	// by the store. Returns ErrExists if the ID is taken.
	CreateMethod(ctx context.Context, method *models.PaymentSplitMethod) error

	// UpdateMethod saves label, weight, status and settings of an existing method.
	UpdateMethod(ctx context.Context, method *models.PaymentSplitMethod) error

	// DeleteMethod removes a method. Returns ErrLocked for locked methods.
	DeleteMethod(ctx context.Context, id string) error

	// SaveWeights updates the weight of each method ID in a single transaction.
	SaveWeights(ctx context.Context, weights map[string]int) error
}

// AdminStore persists admin accounts.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	// GetAdminByUsername returns ErrNotFound if there is no such admin.
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// Store is the full storage backend.
type Store interface {
	MethodStore
	AdminStore

	// Close releases any resources held by the store.
	Close() error
}
