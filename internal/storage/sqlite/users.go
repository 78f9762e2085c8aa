package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	driver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/paysplit/internal/models"
	"github.com/mmynk/paysplit/internal/storage"
)

// CreateAdmin inserts a new admin account.
func (s *SQLiteStore) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admins (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)",
		admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("admin %s: %w", admin.Username, storage.ErrExists)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetAdminByUsername retrieves an admin by username.
func (s *SQLiteStore) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM admins WHERE username = ?",
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin %s: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

// isUniqueViolation reports whether err is a SQLite constraint failure on a
// unique or primary key.
func isUniqueViolation(err error) bool {
	var sqliteErr *driver.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
