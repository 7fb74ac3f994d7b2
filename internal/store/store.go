// Package store is the SQLite implementation of the ledger repository
// contracts.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps a GORM handle and implements ledger.AccountRepository
// and ledger.LineItemRepository.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	log.Info("store opened", zap.String("path", path))
	return s, nil
}

// OpenMemory opens an in-memory database, used by tests.
func OpenMemory(log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if err := s.db.AutoMigrate(&accountRow{}, &voucherRow{}, &lineItemRow{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
