// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const methodColumns = "id, label, weight, status, locked, plugin_id, settings, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanMethod(row scanner) (*models.PaymentSplitMethod, error) {
	m := &models.PaymentSplitMethod{}
	var settings string
	if err := row.Scan(&m.ID, &m.Label, &m.Weight, &m.Status, &m.Locked, &m.PluginID, &settings, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(settings), &m.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings of %s: %w", m.ID, err)
	}
	return m, nil
}

func encodeSettings(settings map[string]string) (string, error) {
	if settings == nil {
		return "{}", nil
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(b), nil
}

// ListMethods returns all methods ordered by weight, then label.
func (s *SQLiteStore) ListMethods(ctx context.Context) ([]*models.PaymentSplitMethod, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+methodColumns+" FROM payment_split_methods ORDER BY weight, label",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list methods: %w", err)
	}
	defer rows.Close()

	var methods []*models.PaymentSplitMethod
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate methods: %w", err)
	}
	return methods, nil
}

// GetMethod retrieves a method by ID.
func (s *SQLiteStore) GetMethod(ctx context.Context, id string) (*models.PaymentSplitMethod, error) {
	m, err := scanMethod(s.db.QueryRowContext(ctx,
		"SELECT "+methodColumns+" FROM payment_split_methods WHERE id = ?", id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("method %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get method: %w", err)
	}
	return m, nil
}

// CreateMethod persists a new method.
func (s *SQLiteStore) CreateMethod(ctx context.Context, method *models.PaymentSplitMethod) error {
	settings, err := encodeSettings(method.Settings)
	if err != nil {
		return err
	}
	// Stamp timestamps if not set
	now := time.Now().Unix()
	if method.CreatedAt == 0 {
		method.CreatedAt = now
	}
	method.UpdatedAt = now

	// Insert method
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO payment_split_methods ("+methodColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		method.ID, method.Label, method.Weight, method.Status, method.Locked,
		method.PluginID, settings, method.CreatedAt, method.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("method %s: %w", method.ID, storage.ErrExists)
		}
		return fmt.Errorf("failed to insert method: %w", err)
	}
	return nil
}

// UpdateMethod saves the mutable fields of an existing method.
// The plugin and locked flag never change after creation.
func (s *SQLiteStore) UpdateMethod(ctx context.Context, method *models.PaymentSplitMethod) error {
	settings, err := encodeSettings(method.Settings)
	if err != nil {
		return err
	}
	method.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		"UPDATE payment_split_methods SET label = ?, weight = ?, status = ?, settings = ?, updated_at = ? WHERE id = ?",
		method.Label, method.Weight, method.Status, settings, method.UpdatedAt, method.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update method: %w", err)
	}
	return expectOne(res, method.ID)
}

// DeleteMethod removes an unlocked method.
func (s *SQLiteStore) DeleteMethod(ctx context.Context, id string) error {
	// Get method to check the lock
	m, err := s.GetMethod(ctx, id)
	if err != nil {
		return err
	}
	if m.Locked {
		return fmt.Errorf("method %s: %w", id, storage.ErrLocked)
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM payment_split_methods WHERE id = ? AND locked = 0", id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete method: %w", err)
	}
	return expectOne(res, id)
}

// SaveWeights updates the weight of each given method in one transaction.
func (s *SQLiteStore) SaveWeights(ctx context.Context, weights map[string]int) error {
	if len(weights) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Update weights; any missing method rolls back the whole save
	now := time.Now().Unix()
	for id, weight := range weights {
		res, err := tx.ExecContext(ctx,
			"UPDATE payment_split_methods SET weight = ?, updated_at = ? WHERE id = ?",
			weight, now, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update weight of %s: %w", id, err)
		}
		if err := expectOne(res, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("method %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
