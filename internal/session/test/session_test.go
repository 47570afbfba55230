package main

import (
	"context"
	"testing"
	"time"

	constants "wordduel/internal/constants"
	match "wordduel/internal/match"
	models "wordduel/internal/models"
	rooms "wordduel/internal/rooms"
	session "wordduel/internal/session"
)

func testApp(target string) *models.App {
	return &models.App{
		WordList:         []string{target},
		WordSet:          map[string]struct{}{target: {}},
		Sessions:         make(map[string]*models.MatchSession),
		Rooms:            rooms.NewRooms(),
		DefaultMaxRounds: constants.DefaultMaxRounds,
		SessionTTL:       time.Hour,
	}
}

func TestGetUnknownSession(t *testing.T) {
	app := testApp("CRANE")
	if _, err := session.Get(app, "missing"); err != session.ErrSessionNotFound {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGetBumpsLastAccess(t *testing.T) {
	app := testApp("CRANE")
	s := match.NewSolo(app, context.Background(), 3)
	s.LastAccessTime = time.Now().Add(-time.Minute)

	got, err := session.Get(app, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if time.Since(got.LastAccessTime) > time.Second {
		t.Error("Get should refresh the last-access time")
	}
}

func TestRemoveClearsRoomReference(t *testing.T) {
	app := testApp("CRANE")
	ctx := context.Background()

	rooms.Join(app, ctx, 2, "alice")
	res, _ := rooms.Join(app, ctx, 2, "bob")

	if !session.Remove(app, res.Session.ID) {
		t.Fatal("Remove should report success for a live session")
	}
	if session.Remove(app, res.Session.ID) {
		t.Error("second Remove should report failure")
	}

	status := rooms.Status(app)
	if status["2"].GameID != "" || len(status["2"].Players) != 0 {
		t.Errorf("room 2 should be reset, got %+v", status["2"])
	}
}

func TestCleanupStaleSweepsIdleSessions(t *testing.T) {
	app := testApp("CRANE")
	ctx := context.Background()

	fresh := match.NewSolo(app, ctx, 3)

	rooms.Join(app, ctx, 1, "alice")
	res, _ := rooms.Join(app, ctx, 1, "bob")
	stale := res.Session
	stale.LastAccessTime = time.Now().Add(-2 * time.Hour)

	session.CleanupStale(app)

	if app.Sessions[fresh.ID] == nil {
		t.Error("fresh session should survive the sweep")
	}
	if app.Sessions[stale.ID] != nil {
		t.Error("idle session should be swept")
	}
	status := rooms.Status(app)
	if status["1"].GameID != "" {
		t.Error("swept session's room reference should be cleared")
	}
}

func TestActiveCount(t *testing.T) {
	app := testApp("CRANE")
	if session.ActiveCount(app) != 0 {
		t.Error("expected no active sessions")
	}
	match.NewSolo(app, context.Background(), 3)
	match.NewSolo(app, context.Background(), 3)
	if got := session.ActiveCount(app); got != 2 {
		t.Errorf("expected 2 active sessions, got %d", got)
	}
}
