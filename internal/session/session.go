// Package session manages the active-session table: lookup, removal, and the
// stale-session sweeper that backstops lazy room reclamation.
package session

import (
	"errors"
	"time"

	constants "wordduel/internal/constants"
	models "wordduel/internal/models"
	util "wordduel/internal/util"
)

var ErrSessionNotFound = errors.New(constants.ErrorCodeSessionNotFound)

// Get looks up an active session and bumps its last-access time.
func Get(app *models.App, sessionID string) (*models.MatchSession, error) {
	app.SessionMutex.RLock()
	s, ok := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.Mu.Lock()
	s.LastAccessTime = time.Now()
	s.Mu.Unlock()
	return s, nil
}

// Remove drops a session from the active table and clears any room reference
// to it. It is never called in the same request that first exposed the
// terminal state; callers defer it to the next Join/Leave/delete so both
// players can observe entire_game_over at least once.
func Remove(app *models.App, sessionID string) bool {
	app.SessionMutex.Lock()
	_, ok := app.Sessions[sessionID]
	if ok {
		delete(app.Sessions, sessionID)
	}
	remaining := len(app.Sessions)
	app.SessionMutex.Unlock()

	if !ok {
		util.LogWarn("Attempted to delete non-existent game: %s", sessionID)
		return false
	}

	clearRoomReference(app, sessionID)
	util.LogInfo("Game %s deleted, active_games: %d", sessionID, remaining)
	return true
}

// ActiveCount reports the number of live sessions.
func ActiveCount(app *models.App) int {
	app.SessionMutex.RLock()
	defer app.SessionMutex.RUnlock()
	return len(app.Sessions)
}

// CleanupStale removes sessions idle past the TTL. This catches solo games
// that were abandoned and dual games whose players never triggered lazy
// reclamation by rejoining a room.
func CleanupStale(app *models.App) {
	cutoff := time.Now().Add(-app.SessionTTL)

	app.SessionMutex.Lock()
	var stale []string
	for id, s := range app.Sessions {
		s.Mu.Lock()
		idle := s.LastAccessTime.Before(cutoff)
		s.Mu.Unlock()
		if idle {
			delete(app.Sessions, id)
			stale = append(stale, id)
		}
	}
	app.SessionMutex.Unlock()

	for _, id := range stale {
		clearRoomReference(app, id)
	}
	if len(stale) > 0 {
		util.LogInfo("Cleaned up %d stale sessions", len(stale))
	}
}

func clearRoomReference(app *models.App, sessionID string) {
	for _, r := range app.Rooms {
		r.Mu.Lock()
		if r.SessionID == sessionID {
			r.SessionID = ""
			r.Players = nil
		}
		r.Mu.Unlock()
	}
}
