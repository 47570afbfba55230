package directory

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type memoryUser struct {
	hash        string
	gamesPlayed int
	gamesWon    int
}

// MemoryDirectory is a process-local directory used in development and tests
// when no DIRECTORY_DB is configured. Accounts do not survive a restart.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]*memoryUser
	cost  int
}

func NewMemory() *MemoryDirectory {
	return &MemoryDirectory{
		users: make(map[string]*memoryUser),
		cost:  bcrypt.MinCost,
	}
}

func (d *MemoryDirectory) Register(_ context.Context, username, password string) error {
	if err := ValidateSignup(username, password); err != nil {
		return err
	}
	username = normalizeUsername(username)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[username]; ok {
		return ErrUserExists
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return err
	}
	d.users[username] = &memoryUser{hash: string(b)}
	return nil
}

func (d *MemoryDirectory) Authenticate(_ context.Context, username, password string) (*UserRecord, error) {
	if username == "" || password == "" {
		return nil, ErrBadCredentials
	}
	username = normalizeUsername(username)

	d.mu.RLock()
	u, ok := d.users[username]
	d.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	if !checkPassword(u.hash, password) {
		return nil, ErrWrongPassword
	}
	return &UserRecord{Username: username, GamesPlayed: u.gamesPlayed, GamesWon: u.gamesWon}, nil
}

func (d *MemoryDirectory) RecordResult(_ context.Context, username string, won bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[normalizeUsername(username)]
	if !ok {
		return ErrUserNotFound
	}
	u.gamesPlayed++
	if won {
		u.gamesWon++
	}
	return nil
}

func (d *MemoryDirectory) Close() error { return nil }
