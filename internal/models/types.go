package models

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"wordduel/internal/directory"
)

// GuessResult is one evaluated letter of a guess.
type GuessResult struct {
	Letter string `json:"letter"`
	Status string `json:"status"`
}

// PlayerProgress tracks one player's attempts within one session.
// CurrentRound always equals len(Guesses).
type PlayerProgress struct {
	CurrentRound int
	MaxRounds    int
	GameOver     bool
	Won          bool
	Guesses      []string
	GuessResults [][]GuessResult
	LetterStatus map[string]string
}

// MatchSession owns the shared secret word and the per-player progress of one
// contest, solo or dual. All mutable fields are guarded by Mu; the TargetWord
// never leaves this struct until the whole match is complete.
type MatchSession struct {
	Mu sync.Mutex

	ID         string
	Mode       string
	TargetWord string
	Players    map[string]*PlayerProgress
	// PlayerOrder preserves join order so each player can find their opponent.
	PlayerOrder []string
	// Winner is a username, WinnerDraw, or empty while undecided.
	Winner   string
	Complete bool
	// Reported flips once results have been handed to the user directory.
	Reported bool
	RoomID   int
	Created  time.Time

	LastAccessTime time.Time
}

// Room is one matchmaking slot. A username occupies at most one room at a time.
type Room struct {
	Mu sync.Mutex

	ID        int
	Players   []string
	SessionID string
}

// GameStateView is the client-facing projection of one player's progress.
// Winner and Answer are populated only once the entire match is complete.
type GameStateView struct {
	GameID         string            `json:"game_id"`
	Mode           string            `json:"mode"`
	CurrentRound   int               `json:"current_round"`
	MaxRounds      int               `json:"max_rounds"`
	GameOver       bool              `json:"game_over"`
	Won            bool              `json:"won"`
	Guesses        []string          `json:"guesses"`
	GuessResults   [][]GuessResult   `json:"guess_results"`
	LetterStatus   map[string]string `json:"letter_status"`
	EntireGameOver bool              `json:"entire_game_over"`
	Winner         string            `json:"winner,omitempty"`
	Answer         string            `json:"answer,omitempty"`
}

type RateLimiterWithTime struct {
	Limiter    *rate.Limiter
	LastAccess time.Time
}

type App struct {
	WordList []string
	WordSet  map[string]struct{}

	Sessions     map[string]*MatchSession
	SessionMutex sync.RWMutex

	Rooms []*Room

	Directory directory.Service

	DefaultMaxRounds int
	SessionTTL       time.Duration
	DirectoryTimeout time.Duration

	JWTSecret []byte
	JWTTTL    time.Duration

	RateLimitRPS   int
	RateLimitBurst int
	RateLimiterTTL time.Duration
	LimiterMap     map[string]*RateLimiterWithTime
	LimiterMutex   sync.RWMutex

	IsProduction bool
	StartTime    time.Time
}
