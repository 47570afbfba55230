// Package match owns the per-contest state machine: solo and dual sessions,
// guess routing, forced completion, and the hit-count tie-break.
package match

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	constants "wordduel/internal/constants"
	game "wordduel/internal/game"
	models "wordduel/internal/models"
	util "wordduel/internal/util"
)

var (
	ErrPlayerNotInGame = errors.New(constants.ErrorCodePlayerNotInGame)
	ErrGameNotOver     = errors.New(constants.ErrorCodeGameNotOver)
)

// soloKey indexes the single progress of a SOLO session; solo clients do not
// send a username.
const soloKey = ""

// Result is one player's outcome, handed to the user directory once the
// match completes.
type Result struct {
	Username string
	Won      bool
}

// NewSolo creates a single-player session and registers it in the active
// table. Solo sessions are IN_PROGRESS from birth.
func NewSolo(app *models.App, ctx context.Context, maxRounds int) *models.MatchSession {
	s := &models.MatchSession{
		ID:             uuid.NewString(),
		Mode:           constants.ModeSolo,
		TargetWord:     game.RandomWord(app.WordList, ctx),
		Players:        map[string]*models.PlayerProgress{soloKey: game.NewProgress(maxRounds)},
		PlayerOrder:    []string{soloKey},
		Created:        time.Now(),
		LastAccessTime: time.Now(),
	}

	app.SessionMutex.Lock()
	app.Sessions[s.ID] = s
	app.SessionMutex.Unlock()

	util.LogInfo("New solo game %s created, max_rounds: %d", shortID(s.ID), maxRounds)
	return s
}

// NewDual creates a head-to-head session for two matched players sharing one
// target word. Matchmaking guarantees both players are bound before creation.
func NewDual(app *models.App, ctx context.Context, roomID int, players []string) *models.MatchSession {
	s := &models.MatchSession{
		ID:         uuid.NewString(),
		Mode:       constants.ModeDual,
		TargetWord: game.RandomWord(app.WordList, ctx),
		Players: lo.SliceToMap(players, func(name string) (string, *models.PlayerProgress) {
			return name, game.NewProgress(app.DefaultMaxRounds)
		}),
		PlayerOrder:    append([]string{}, players...),
		RoomID:         roomID,
		Created:        time.Now(),
		LastAccessTime: time.Now(),
	}

	app.SessionMutex.Lock()
	app.Sessions[s.ID] = s
	app.SessionMutex.Unlock()

	util.LogInfo("New dual game %s created for room %d, players: %v", shortID(s.ID), roomID, players)
	return s
}

// SubmitGuess validates and records a guess for one player, then settles
// match-level consequences: an outright win force-completes the opponent; if
// both players are finished without a solver, the hit-count tie-break runs.
// The returned results, if any, must be reported to the directory by the
// caller after this function returns, so no external call happens under the
// session lock.
func SubmitGuess(app *models.App, s *models.MatchSession, username, rawGuess string) (*models.GameStateView, []Result, error) {
	guess := game.NormalizeGuess(rawGuess)

	s.Mu.Lock()
	defer s.Mu.Unlock()

	p, err := progressFor(s, username)
	if err != nil {
		return nil, nil, err
	}

	if err := game.CheckAcceptable(app.WordSet, p, guess); err != nil {
		return nil, nil, err
	}

	game.RecordGuess(p, guess, s.TargetWord)
	s.LastAccessTime = time.Now()
	util.LogInfo("Game %s: %q guessed %s (round %d/%d)", shortID(s.ID), username, guess, p.CurrentRound, p.MaxRounds)

	if p.Won {
		// Solving always wins, even on the last attempt after the opponent
		// already exhausted theirs.
		s.Winner = username
		s.Complete = true
		for name, other := range s.Players {
			if name != username {
				game.ForceComplete(other)
			}
		}
		util.LogInfo("Game %s won by %q, answer: %s", shortID(s.ID), username, s.TargetWord)
	} else if allOver(s) {
		resolveWinner(s)
	}

	return viewLocked(s, username), takeResultsLocked(s), nil
}

// View returns the requesting player's projection of the session. The target
// word is included only once the entire match is complete.
func View(s *models.MatchSession, username string) (*models.GameStateView, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if _, err := progressFor(s, username); err != nil {
		return nil, err
	}
	s.LastAccessTime = time.Now()
	return viewLocked(s, username), nil
}

// OpponentView is the post-match summary exposed by GetOpponentSummary.
type OpponentView struct {
	Opponent string `json:"opponent"`
	Winner   string `json:"winner,omitempty"`
	Answer   string `json:"answer"`
}

// OpponentSummary reveals the opponent's name, the winner, and the answer.
// Gated on full match completion.
func OpponentSummary(s *models.MatchSession, username string) (*OpponentView, error) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if _, ok := s.Players[username]; !ok {
		return nil, ErrPlayerNotInGame
	}
	if !s.Complete {
		return nil, ErrGameNotOver
	}

	opponent := ""
	for _, name := range s.PlayerOrder {
		if name != username {
			opponent = name
		}
	}
	return &OpponentView{Opponent: opponent, Winner: s.Winner, Answer: s.TargetWord}, nil
}

// IsComplete reports whether the entire match is over.
func IsComplete(s *models.MatchSession) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.Complete
}

func progressFor(s *models.MatchSession, username string) (*models.PlayerProgress, error) {
	if s.Mode == constants.ModeSolo {
		return s.Players[soloKey], nil
	}
	p, ok := s.Players[username]
	if !ok {
		return nil, ErrPlayerNotInGame
	}
	return p, nil
}

func allOver(s *models.MatchSession) bool {
	for _, p := range s.Players {
		if !p.GameOver {
			return false
		}
	}
	return true
}

// resolveWinner settles a match where every player exhausted their attempts
// without solving. Highest total HIT count wins; a tie is a DRAW.
func resolveWinner(s *models.MatchSession) {
	s.Complete = true
	if s.Mode == constants.ModeSolo || s.Winner != "" {
		return
	}

	bestName, bestHits, tied := "", -1, false
	for _, name := range s.PlayerOrder {
		hits := game.TotalHits(s.Players[name])
		switch {
		case hits > bestHits:
			bestName, bestHits, tied = name, hits, false
		case hits == bestHits:
			tied = true
		}
	}

	if tied {
		s.Winner = constants.WinnerDraw
	} else {
		s.Winner = bestName
	}
	util.LogInfo("Game %s resolved by tie-break: winner=%s (best hits: %d)", shortID(s.ID), s.Winner, bestHits)
}

// takeResultsLocked hands out the directory results exactly once, when a dual
// match transitions to complete.
func takeResultsLocked(s *models.MatchSession) []Result {
	if !s.Complete || s.Reported || s.Mode != constants.ModeDual {
		return nil
	}
	s.Reported = true

	results := make([]Result, 0, len(s.PlayerOrder))
	for _, name := range s.PlayerOrder {
		results = append(results, Result{Username: name, Won: name == s.Winner})
	}
	return results
}

func viewLocked(s *models.MatchSession, username string) *models.GameStateView {
	p, _ := progressFor(s, username)

	view := &models.GameStateView{
		GameID:         s.ID,
		Mode:           s.Mode,
		CurrentRound:   p.CurrentRound,
		MaxRounds:      p.MaxRounds,
		GameOver:       p.GameOver,
		Won:            p.Won,
		Guesses:        append([]string{}, p.Guesses...),
		GuessResults:   append([][]models.GuessResult{}, p.GuessResults...),
		LetterStatus:   lo.Assign(map[string]string{}, p.LetterStatus),
		EntireGameOver: s.Complete,
	}
	if s.Complete {
		view.Winner = s.Winner
		view.Answer = s.TargetWord
	}
	return view
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
