// Package directory is the user-directory collaborator: it authenticates
// players and records per-user win/loss tallies. The engine only talks to the
// Service interface; the SQLite and in-memory implementations below are the
// adapters a binary wires in.
package directory

import (
	"context"
	"errors"
)

type UserRecord struct {
	Username    string `json:"username"`
	GamesPlayed int    `json:"games_played"`
	GamesWon    int    `json:"games_won"`
}

var (
	ErrUserExists     = errors.New("username already exists")
	ErrUserNotFound   = errors.New("user does not exist")
	ErrWrongPassword  = errors.New("incorrect password")
	ErrBadCredentials = errors.New("username and password are required")
)

type Service interface {
	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (*UserRecord, error)
	RecordResult(ctx context.Context, username string, won bool) error
	Close() error
}

// ValidateSignup enforces the directory's minimum credential rules.
func ValidateSignup(username, password string) error {
	if username == "" || password == "" {
		return ErrBadCredentials
	}
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters long")
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}
