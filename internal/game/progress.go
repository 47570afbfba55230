package game

import (
	"errors"
	"slices"
	"strings"

	constants "wordduel/internal/constants"
	models "wordduel/internal/models"
)

// Guess rejection reasons. The string values double as stable error codes in
// API responses; none of them mutate progress state.
var (
	ErrGameOver        = errors.New(constants.ErrorCodeGameOver)
	ErrInvalidLength   = errors.New(constants.ErrorCodeInvalidLength)
	ErrNonAlphabetic   = errors.New(constants.ErrorCodeNonAlphabetic)
	ErrNoMoreGuesses   = errors.New(constants.ErrorCodeNoMoreGuesses)
	ErrNotInWordList   = errors.New(constants.ErrorCodeNotInWordList)
	ErrDuplicateGuess  = errors.New(constants.ErrorCodeDuplicateGuess)
	ErrInvalidMaxRound = errors.New(constants.ErrorCodeInvalidMaxRounds)
)

// NewProgress initializes an empty attempt record for one player.
func NewProgress(maxRounds int) *models.PlayerProgress {
	return &models.PlayerProgress{
		CurrentRound: 0,
		MaxRounds:    maxRounds,
		Guesses:      []string{},
		GuessResults: [][]models.GuessResult{},
		LetterStatus: NewLetterStatus(),
	}
}

// ValidateMaxRounds bounds the configurable attempt limit.
func ValidateMaxRounds(maxRounds int) error {
	if maxRounds <= 0 || maxRounds > constants.MaxRoundsCeiling {
		return ErrInvalidMaxRound
	}
	return nil
}

// NormalizeGuess uppercases and trims raw client input.
func NormalizeGuess(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// CheckAcceptable reports whether a normalized guess may be recorded against
// this progress. Order matters: stale-state guards first, then shape, then
// dictionary membership, so clients get the most actionable rejection.
func CheckAcceptable(wordSet map[string]struct{}, p *models.PlayerProgress, guess string) error {
	if p.GameOver {
		return ErrGameOver
	}
	if p.CurrentRound >= p.MaxRounds {
		return ErrNoMoreGuesses
	}
	if len(guess) != constants.WordLength {
		return ErrInvalidLength
	}
	if !IsAlphabetic(guess) {
		return ErrNonAlphabetic
	}
	if !IsValidWord(wordSet, guess) {
		return ErrNotInWordList
	}
	if slices.Contains(p.Guesses, guess) {
		return ErrDuplicateGuess
	}
	return nil
}

// RecordGuess evaluates an accepted guess and folds it into the progress:
// appends the guess and its verdicts, promotes letter statuses, advances the
// round, and settles won/gameOver.
func RecordGuess(p *models.PlayerProgress, guess, target string) []models.GuessResult {
	result := Evaluate(guess, target)

	p.Guesses = append(p.Guesses, guess)
	p.GuessResults = append(p.GuessResults, result)
	ApplyLetterStatus(p.LetterStatus, result)
	p.CurrentRound++

	if guess == target {
		p.Won = true
		p.GameOver = true
	} else if p.CurrentRound >= p.MaxRounds {
		p.GameOver = true
	}

	return result
}

// ForceComplete marks a player's progress finished without a win. Used when
// the opponent solves the word mid-match.
func ForceComplete(p *models.PlayerProgress) {
	if !p.GameOver {
		p.GameOver = true
		p.Won = false
	}
}
