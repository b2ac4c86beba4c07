package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"droplink/internal/model"
	"droplink/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveCredential stores the pairing, replacing any previous one.
func (s *SQLite) SaveCredential(ctx context.Context, cred *model.Credential) error {
	if cred.PairedAt.IsZero() {
		cred.PairedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (id, server_url, client_token, server_name, paired_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   server_url = excluded.server_url,
		   client_token = excluded.client_token,
		   server_name = excluded.server_name,
		   paired_at = excluded.paired_at`,
		cred.ServerURL, cred.ClientToken, cred.ServerName, cred.PairedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Credential returns the stored pairing, or ErrNotFound.
func (s *SQLite) Credential(ctx context.Context) (*model.Credential, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT server_url, client_token, server_name, paired_at FROM credentials WHERE id = 1`)

	var cred model.Credential
	var pairedAt string
	err := row.Scan(&cred.ServerURL, &cred.ClientToken, &cred.ServerName, &pairedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query credential: %w", err)
	}

	cred.PairedAt, err = time.Parse(timeLayout, pairedAt)
	if err != nil {
		return nil, fmt.Errorf("parse paired_at: %w", err)
	}
	return &cred, nil
}

// DeleteCredential removes the stored pairing, if any.
func (s *SQLite) DeleteCredential(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// HasValidCredential reports whether a usable pairing is stored.
func (s *SQLite) HasValidCredential(ctx context.Context) (bool, error) {
	cred, err := s.Credential(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cred.ServerURL != "" && cred.ClientToken != "", nil
}
