package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements TokenStore using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

var _ TokenStore = (*SQLiteStorage)(nil)

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// ExpandPath resolves a leading "~/" against the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// NewSQLiteStorage creates a new SQLite storage instance.
// dbPath may be ":memory:" or a file path; parent directories are created.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath != ":memory:" {
		expanded, err := ExpandPath(dbPath)
		if err != nil {
			return nil, err
		}
		dbPath = expanded

		if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) SaveToken(ctx context.Context, account string, token *Token) error {
	if account == "" {
		return fmt.Errorf("account is required")
	}
	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		return fmt.Errorf("access or refresh token is required")
	}

	var expiry int64
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.Unix()
	}
	now := time.Now()

	query := `
		INSERT INTO oauth_tokens (account, access_token, refresh_token, token_type, scope, expiry_unix, updated_unix)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = CASE WHEN excluded.refresh_token = '' THEN oauth_tokens.refresh_token ELSE excluded.refresh_token END,
			token_type = excluded.token_type,
			scope = excluded.scope,
			expiry_unix = excluded.expiry_unix,
			updated_unix = excluded.updated_unix
	`
	_, err := s.db.ExecContext(ctx, query,
		account, token.AccessToken, token.RefreshToken, token.TokenType,
		token.Scope, expiry, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	token.UpdatedAt = time.Unix(now.Unix(), 0)
	return nil
}

func (s *SQLiteStorage) LoadToken(ctx context.Context, account string) (*Token, error) {
	query := `
		SELECT access_token, refresh_token, token_type, scope, expiry_unix, updated_unix
		FROM oauth_tokens
		WHERE account = ?
	`
	var token Token
	var expiry, updated int64
	err := s.db.QueryRowContext(ctx, query, account).Scan(
		&token.AccessToken, &token.RefreshToken, &token.TokenType,
		&token.Scope, &expiry, &updated,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if expiry > 0 {
		token.Expiry = time.Unix(expiry, 0)
	}
	token.UpdatedAt = time.Unix(updated, 0)
	return &token, nil
}

func (s *SQLiteStorage) DeleteToken(ctx context.Context, account string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM oauth_tokens WHERE account = ?", account); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
