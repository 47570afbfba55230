package main

import (
	"context"
	"testing"

	constants "wordduel/internal/constants"
	match "wordduel/internal/match"
	models "wordduel/internal/models"
	rooms "wordduel/internal/rooms"
)

func testApp(target string, guessable ...string) *models.App {
	wordSet := map[string]struct{}{target: {}}
	for _, w := range guessable {
		wordSet[w] = struct{}{}
	}
	return &models.App{
		WordList:         []string{target},
		WordSet:          wordSet,
		Sessions:         make(map[string]*models.MatchSession),
		Rooms:            rooms.NewRooms(),
		DefaultMaxRounds: constants.DefaultMaxRounds,
	}
}

func TestNewRoomsPool(t *testing.T) {
	pool := rooms.NewRooms()
	if len(pool) != constants.RoomCount {
		t.Fatalf("expected %d rooms, got %d", constants.RoomCount, len(pool))
	}
	for i, r := range pool {
		if r.ID != i+1 {
			t.Errorf("room %d has id %d", i, r.ID)
		}
	}
}

func TestJoinStartsMatchWhenRoomFills(t *testing.T) {
	app := testApp("CRANE")
	ctx := context.Background()

	res, err := rooms.Join(app, ctx, 1, "alice")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Started {
		t.Error("first player should wait, not start")
	}

	res, err = rooms.Join(app, ctx, 1, "bob")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !res.Started || res.Session == nil {
		t.Fatal("second distinct player should start a dual match")
	}
	if res.Session.Mode != constants.ModeDual {
		t.Errorf("expected DUAL mode, got %v", res.Session.Mode)
	}
	if _, ok := res.Session.Players["alice"]; !ok {
		t.Error("alice missing from session")
	}
	if _, ok := res.Session.Players["bob"]; !ok {
		t.Error("bob missing from session")
	}
	if app.Sessions[res.Session.ID] == nil {
		t.Error("session not registered in active table")
	}
}

func TestJoinFullRoomRejected(t *testing.T) {
	app := testApp("CRANE")
	ctx := context.Background()

	rooms.Join(app, ctx, 1, "alice")
	rooms.Join(app, ctx, 1, "bob")

	if _, err := rooms.Join(app, ctx, 1, "carol"); err != rooms.ErrRoomFull {
		t.Errorf("expected ErrRoomFull, got %v", err)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	app := testApp("CRANE")
	for _, id := range []int{0, 4, -1} {
		if _, err := rooms.Join(app, context.Background(), id, "alice"); err != rooms.ErrRoomNotFound {
			t.Errorf("room %d: expected ErrRoomNotFound, got %v", id, err)
		}
	}
}

func TestJoinMovesPlayerBetweenRooms(t *testing.T) {
	app := testApp("CRANE")
	ctx := context.Background()

	rooms.Join(app, ctx, 1, "alice")
	rooms.Join(app, ctx, 2, "alice")

	status := rooms.Status(app)
	if len(status["1"].Players) != 0 {
		t.Errorf("alice should have left room 1, players: %v", status["1"].Players)
	}
	if len(status["2"].Players) != 1 || status["2"].Players[0] != "alice" {
		t.Errorf("alice should be in room 2, players: %v", status["2"].Players)
	}
}

func TestRejoinSameRoomIsIdempotent(t *testing.T) {
	app := testApp("CRANE")
	ctx := context.Background()

	rooms.Join(app, ctx, 1, "alice")
	res, err := rooms.Join(app, ctx, 1, "alice")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if res.Started {
		t.Error("rejoin must not start a match")
	}
	if len(res.Players) != 1 {
		t.Errorf("alice duplicated in room: %v", res.Players)
	}
}

func TestLeaveRoom(t *testing.T) {
	app := testApp("CRANE")
	ctx := context.Background()

	rooms.Join(app, ctx, 1, "alice")
	if err := rooms.Leave(app, 1, "alice"); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if err := rooms.Leave(app, 1, "alice"); err != rooms.ErrNotInRoom {
		t.Errorf("expected ErrNotInRoom, got %v", err)
	}
	if err := rooms.Leave(app, 9, "alice"); err != rooms.ErrRoomNotFound {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

// A completed session stays visible to polls until a Join or Leave on the
// room triggers reclamation; afterwards the room is empty with no session.
func TestLazyReclamationAfterCompletion(t *testing.T) {
	app := testApp("CRANE", "SPEED")
	ctx := context.Background()

	rooms.Join(app, ctx, 1, "alice")
	res, _ := rooms.Join(app, ctx, 1, "bob")
	s := res.Session

	// Alice solves; the match is fully complete.
	if _, _, err := match.SubmitGuess(app, s, "alice", "CRANE"); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}

	status := rooms.Status(app)
	if status["1"].GameID != s.ID {
		t.Error("poll should still reflect the completed session before reclamation")
	}
	if app.Sessions[s.ID] == nil {
		t.Error("session should survive until reclamation")
	}

	// A new join reclaims the finished session before the capacity check.
	if _, err := rooms.Join(app, ctx, 1, "carol"); err != nil {
		t.Fatalf("Join after completion: %v", err)
	}

	if app.Sessions[s.ID] != nil {
		t.Error("finished session should be reclaimed")
	}
	status = rooms.Status(app)
	if len(status["1"].Players) != 1 || status["1"].Players[0] != "carol" {
		t.Errorf("room should contain only carol, got %v", status["1"].Players)
	}
	if status["1"].GameID != "" {
		t.Error("room should drop its session reference on reclamation")
	}
}

func TestLeaveReclaimsWhenRoomEmpties(t *testing.T) {
	app := testApp("CRANE", "SPEED")
	ctx := context.Background()

	rooms.Join(app, ctx, 1, "alice")
	res, _ := rooms.Join(app, ctx, 1, "bob")
	s := res.Session

	if _, _, err := match.SubmitGuess(app, s, "bob", "CRANE"); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}

	rooms.Leave(app, 1, "alice")
	if app.Sessions[s.ID] == nil {
		t.Error("session should survive while bob is still in the room")
	}

	rooms.Leave(app, 1, "bob")
	if app.Sessions[s.ID] != nil {
		t.Error("emptying the room should reclaim the finished session")
	}
}

func TestIncompleteSessionNotReclaimed(t *testing.T) {
	app := testApp("CRANE", "SPEED")
	ctx := context.Background()

	rooms.Join(app, ctx, 1, "alice")
	res, _ := rooms.Join(app, ctx, 1, "bob")
	s := res.Session

	// Only alice has finished; the match is still live.
	if _, _, err := match.SubmitGuess(app, s, "alice", "SPEED"); err != nil {
		t.Fatalf("SubmitGuess: %v", err)
	}
	if _, err := rooms.Join(app, ctx, 1, "carol"); err != rooms.ErrRoomFull {
		t.Fatalf("live session room must reject a third player, got %v", err)
	}
	if app.Sessions[s.ID] == nil {
		t.Error("live session must not be reclaimed")
	}
}
