package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store is the record store boundary: parameterized statements with
// positional `?` placeholders, executed against a single table-like backend.
type Store interface {
	// Exec runs a mutating statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// First scans the first matching row into dest and reports whether one was found.
	First(ctx context.Context, dest any, query string, args ...any) (bool, error)
	// All scans every matching row into dest, which must point to a slice.
	All(ctx context.Context, dest any, query string, args ...any) error
	// Close releases the underlying connection pool.
	Close() error
}

// gormStore implements the Store interface using GORM raw SQL.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tx := s.db.WithContext(ctx).Exec(query, args...)
	if tx.Error != nil {
		return 0, fmt.Errorf("exec %q: %w", query, tx.Error)
	}
	return tx.RowsAffected, nil
}

func (s *gormStore) First(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	tx := s.db.WithContext(ctx).Raw(query, args...).Scan(dest)
	if tx.Error != nil {
		return false, fmt.Errorf("query %q: %w", query, tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (s *gormStore) All(ctx context.Context, dest any, query string, args ...any) error {
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return fmt.Errorf("query %q: %w", query, err)
	}
	return nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
