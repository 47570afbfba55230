package main

import (
	"context"
	"testing"

	directory "wordduel/internal/directory"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	dir := directory.NewMemory()
	ctx := context.Background()

	if err := dir.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := dir.Authenticate(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Username != "alice" || user.GamesPlayed != 0 || user.GamesWon != 0 {
		t.Errorf("unexpected record %+v", user)
	}
}

func TestRegisterValidation(t *testing.T) {
	dir := directory.NewMemory()
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret1"},
		{"empty password", "alice", ""},
		{"short username", "al", "secret1"},
		{"short password", "alice", "12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := dir.Register(ctx, tc.username, tc.password); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	dir := directory.NewMemory()
	ctx := context.Background()

	if err := dir.Register(ctx, "alice", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Usernames are case-insensitive.
	if err := dir.Register(ctx, "Alice", "secret2"); err != directory.ErrUserExists {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	dir := directory.NewMemory()
	ctx := context.Background()

	dir.Register(ctx, "alice", "secret1")

	if _, err := dir.Authenticate(ctx, "alice", "wrong"); err != directory.ErrWrongPassword {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	if _, err := dir.Authenticate(ctx, "bob", "secret1"); err != directory.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := dir.Authenticate(ctx, "", ""); err != directory.ErrBadCredentials {
		t.Errorf("expected ErrBadCredentials, got %v", err)
	}
}

func TestRecordResult(t *testing.T) {
	dir := directory.NewMemory()
	ctx := context.Background()

	dir.Register(ctx, "alice", "secret1")

	if err := dir.RecordResult(ctx, "alice", true); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	if err := dir.RecordResult(ctx, "alice", false); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}

	user, _ := dir.Authenticate(ctx, "alice", "secret1")
	if user.GamesPlayed != 2 || user.GamesWon != 1 {
		t.Errorf("expected 2 played / 1 won, got %+v", user)
	}

	if err := dir.RecordResult(ctx, "ghost", true); err != directory.ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
