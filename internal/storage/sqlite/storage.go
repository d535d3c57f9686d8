// Package sqlite provides a SQLite-backed implementation of the storage interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/storage"
	"github.com/valnor-game/valnor/internal/storage/sqlite/migrations"
)

// Storage persists client snapshots and accounts in SQLite
type Storage struct {
	sqlDB *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite database at path and applies embedded migrations
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Storage{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Storage) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Snapshot operations

func (s *Storage) GetSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey) ([]byte, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM client_snapshots WHERE client_id = ? AND snapshot_key = ?`,
		string(clientID), string(key),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

func (s *Storage) PutSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey, data []byte) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO client_snapshots (client_id, snapshot_key, data, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(client_id, snapshot_key) DO UPDATE SET
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		string(clientID), string(key), data, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

func (s *Storage) DeleteSnapshot(ctx context.Context, clientID model.ClientID, key storage.SnapshotKey) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM client_snapshots WHERE client_id = ? AND snapshot_key = ?`,
		string(clientID), string(key),
	)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO accounts (id, username, display_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   username = excluded.username,
		   display_name = excluded.display_name,
		   password_hash = excluded.password_hash,
		   updated_at = excluded.updated_at`,
		string(account.ID),
		normalizeUsername(account.Username),
		account.DisplayName,
		account.PasswordHash,
		toMillis(account.CreatedAt),
		toMillis(account.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAccountExists
		}
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, username, display_name, password_hash, created_at, updated_at
		 FROM accounts WHERE id = ?`, string(id))
	return scanAccount(row)
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, username, display_name, password_hash, created_at, updated_at
		 FROM accounts WHERE username = ?`, normalizeUsername(username))
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*model.Account, error) {
	var (
		account   model.Account
		id        string
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(&id, &account.Username, &account.DisplayName, &account.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	account.ID = model.AccountID(id)
	account.CreatedAt = fromMillis(createdAt)
	account.UpdatedAt = fromMillis(updatedAt)
	return &account, nil
}

// normalizeUsername stores usernames lower-cased so lookups are case-insensitive
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
