// Package rooms implements matchmaking: a fixed pool of three rooms with
// capacity two, auto-start when a room fills, and lazy reclamation of
// finished sessions.
package rooms

import (
	"context"
	"errors"
	"slices"
	"strconv"

	constants "wordduel/internal/constants"
	match "wordduel/internal/match"
	models "wordduel/internal/models"
	session "wordduel/internal/session"
	util "wordduel/internal/util"
)

var (
	ErrRoomNotFound = errors.New(constants.ErrorCodeRoomNotFound)
	ErrRoomFull     = errors.New(constants.ErrorCodeRoomFull)
	ErrNotInRoom    = errors.New(constants.ErrorCodeNotInRoom)
)

// NewRooms builds the fixed pool. Rooms live for the whole process; cleanup
// resets them to empty, never destroys them.
func NewRooms() []*models.Room {
	rooms := make([]*models.Room, constants.RoomCount)
	for i := range rooms {
		rooms[i] = &models.Room{ID: i + 1}
	}
	return rooms
}

// JoinResult reports the outcome of a successful join.
type JoinResult struct {
	Started bool
	Players []string
	Session *models.MatchSession
}

// Join adds a player to a room. A player occupies at most one room, so any
// other membership is dropped first. If the room references a fully finished
// session, it is reclaimed before the capacity check. The second distinct
// player to arrive starts a dual match immediately.
func Join(app *models.App, ctx context.Context, roomID int, username string) (*JoinResult, error) {
	room := roomByID(app, roomID)
	if room == nil {
		return nil, ErrRoomNotFound
	}

	// Membership invariant. Rooms are visited in id order and locked one at a
	// time, so this never nests room locks.
	for _, other := range app.Rooms {
		if other.ID == roomID {
			continue
		}
		other.Mu.Lock()
		if idx := slices.Index(other.Players, username); idx >= 0 {
			other.Players = slices.Delete(other.Players, idx, idx+1)
			util.LogInfo("Removed %q from room %d before joining room %d", username, other.ID, roomID)
		}
		other.Mu.Unlock()
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	reclaimLocked(app, room)

	if slices.Contains(room.Players, username) {
		// Stale retry of a join that already succeeded.
		res := &JoinResult{Players: append([]string{}, room.Players...)}
		if room.SessionID != "" {
			if s, err := session.Get(app, room.SessionID); err == nil {
				res.Started = true
				res.Session = s
			}
		}
		return res, nil
	}

	if len(room.Players) >= constants.RoomCapacity {
		return nil, ErrRoomFull
	}

	room.Players = append(room.Players, username)
	util.LogInfo("%q joined room %d (%d/%d)", username, roomID, len(room.Players), constants.RoomCapacity)

	res := &JoinResult{Players: append([]string{}, room.Players...)}
	if len(room.Players) == constants.RoomCapacity {
		s := match.NewDual(app, ctx, roomID, room.Players)
		room.SessionID = s.ID
		res.Started = true
		res.Session = s
	}
	return res, nil
}

// Leave removes a player's membership. If the room is empty and its session
// fully complete, the session is reclaimed.
func Leave(app *models.App, roomID int, username string) error {
	room := roomByID(app, roomID)
	if room == nil {
		return ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	idx := slices.Index(room.Players, username)
	if idx < 0 {
		return ErrNotInRoom
	}
	room.Players = slices.Delete(room.Players, idx, idx+1)
	util.LogInfo("%q left room %d", username, roomID)

	if len(room.Players) == 0 {
		reclaimLocked(app, room)
	}
	return nil
}

// RoomStatus is one room's entry in the lobby polling payload. A waiting
// player detects game start by the room acquiring a game_id.
type RoomStatus struct {
	Players []string `json:"players"`
	GameID  string   `json:"game_id,omitempty"`
}

// Status snapshots the whole pool. Polling never reclaims; a completed
// session stays visible here until the next Join or Leave on its room.
func Status(app *models.App) map[string]RoomStatus {
	statuses := make(map[string]RoomStatus, len(app.Rooms))
	for _, r := range app.Rooms {
		r.Mu.Lock()
		statuses[strconv.Itoa(r.ID)] = RoomStatus{
			Players: append([]string{}, r.Players...),
			GameID:  r.SessionID,
		}
		r.Mu.Unlock()
	}
	return statuses
}

// reclaimLocked resets the room if its session has fully finished. Caller
// holds the room lock. Room locks are always taken before session locks.
func reclaimLocked(app *models.App, room *models.Room) {
	if room.SessionID == "" {
		return
	}
	s, err := session.Get(app, room.SessionID)
	if err != nil {
		// Session already swept; just drop the dangling reference.
		room.SessionID = ""
		room.Players = nil
		return
	}
	if !match.IsComplete(s) {
		return
	}

	app.SessionMutex.Lock()
	delete(app.Sessions, s.ID)
	app.SessionMutex.Unlock()

	room.SessionID = ""
	room.Players = nil
	util.LogInfo("Reclaimed finished game %s from room %d", s.ID, room.ID)
}

func roomByID(app *models.App, roomID int) *models.Room {
	if roomID < 1 || roomID > len(app.Rooms) {
		return nil
	}
	return app.Rooms[roomID-1]
}
