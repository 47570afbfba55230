package directory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	username      TEXT PRIMARY KEY COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	games_played  INTEGER NOT NULL DEFAULT 0,
	games_won     INTEGER NOT NULL DEFAULT 0,
	created_at    TEXT NOT NULL
);`

type SQLiteDirectory struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the user-directory database.
// WAL journaling and a busy timeout keep concurrent request handlers from
// tripping over each other on write contention.
func OpenSQLite(dsn string) (*SQLiteDirectory, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create users table: %w", err)
	}
	return &SQLiteDirectory{db: db}, nil
}

func (d *SQLiteDirectory) Register(ctx context.Context, username, password string) error {
	if err := ValidateSignup(username, password); err != nil {
		return err
	}
	username = normalizeUsername(username)

	var exists int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username = ?`, username).Scan(&exists)
	if err == nil {
		return ErrUserExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, hash, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (d *SQLiteDirectory) Authenticate(ctx context.Context, username, password string) (*UserRecord, error) {
	if username == "" || password == "" {
		return nil, ErrBadCredentials
	}
	username = normalizeUsername(username)

	var rec UserRecord
	var hash string
	err := d.db.QueryRowContext(ctx,
		`SELECT username, password_hash, games_played, games_won FROM users WHERE username = ?`,
		username).Scan(&rec.Username, &hash, &rec.GamesPlayed, &rec.GamesWon)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(hash, password) {
		return nil, ErrWrongPassword
	}
	return &rec, nil
}

func (d *SQLiteDirectory) RecordResult(ctx context.Context, username string, won bool) error {
	wonInc := 0
	if won {
		wonInc = 1
	}
	res, err := d.db.ExecContext(ctx,
		`UPDATE users SET games_played = games_played + 1, games_won = games_won + ? WHERE username = ?`,
		wonInc, normalizeUsername(username))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (d *SQLiteDirectory) Close() error {
	return d.db.Close()
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
