// Package sqlstore implements store.Store on MySQL through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"citas-medicas-server/internal/config"
	"citas-medicas-server/internal/store"
)

const mysqlDuplicateEntry = 1062

// Store is the MySQL-backed store. It owns the connection pool.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to MySQL, sizes the pool and verifies the connection.
//
// The pool blocks callers once MaxConns connections are in use; it never
// rejects an acquisition.
func Open(cfg config.DatabaseConfig, logger zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(gormmysql.Open(cfg.DSN()), &gorm.Config{
		Logger:                 newGormLogger(logger),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return New(db), nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// notFound maps gorm's missing-row error onto store.ErrNotFound.
func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// affected is the existence check for mutating statements: zero matched rows
// means the target does not exist.
func affected(res *gorm.DB, op string) error {
	if res.Error != nil {
		return classify(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func classify(err error, op string) error {
	if isDuplicateKey(err) {
		return store.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
