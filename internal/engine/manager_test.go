package engine

import (
	"testing"
	"time"

	"github.com/ruckboard/backend/internal/config"
)

func newTestManager() *BoardManager {
	return NewBoardManager(nil, nil, &config.Config{SessionExpiryMinutes: 120})
}

func TestCreateAndGetSession(t *testing.T) {
	bm := newTestManager()

	s := bm.CreateSession(800, 600)
	if s.Token == "" {
		t.Fatal("session created with empty token")
	}
	if s.Engine == nil {
		t.Fatal("session created without engine")
	}

	got, err := bm.GetSessionByToken(s.Token)
	if err != nil {
		t.Fatalf("GetSessionByToken failed: %v", err)
	}
	if got != s {
		t.Error("GetSessionByToken returned a different session")
	}
	if bm.ActiveSessionCount() != 1 {
		t.Errorf("active sessions = %d, want 1", bm.ActiveSessionCount())
	}
}

func TestGetSessionUnknownToken(t *testing.T) {
	bm := newTestManager()
	if _, err := bm.GetSessionByToken("nope"); err == nil {
		t.Error("unknown token resolved without error")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	bm := newTestManager()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := bm.CreateSession(800, 600)
		if seen[s.Token] {
			t.Fatalf("duplicate session token %q", s.Token)
		}
		seen[s.Token] = true
	}
}

func TestRemoveSession(t *testing.T) {
	bm := newTestManager()
	s := bm.CreateSession(800, 600)

	bm.RemoveSession(s.Token)

	if _, err := bm.GetSessionByToken(s.Token); err == nil {
		t.Error("removed session still resolvable")
	}
	// Removing twice is harmless.
	bm.RemoveSession(s.Token)
}

func TestExpiryCheckerDropsIdleSessions(t *testing.T) {
	bm := newTestManager()
	idle := bm.CreateSession(800, 600)
	fresh := bm.CreateSession(800, 600)

	bm.mu.Lock()
	bm.sessions[idle.Token].LastActivity = time.Now().Add(-3 * time.Hour)
	bm.mu.Unlock()

	bm.checkExpiredSessions()

	if _, err := bm.GetSessionByToken(idle.Token); err == nil {
		t.Error("idle session survived expiry check")
	}
	if _, err := bm.GetSessionByToken(fresh.Token); err != nil {
		t.Errorf("fresh session dropped by expiry check: %v", err)
	}
}

func TestTouchRefreshesActivity(t *testing.T) {
	bm := newTestManager()
	s := bm.CreateSession(800, 600)

	bm.mu.Lock()
	bm.sessions[s.Token].LastActivity = time.Now().Add(-3 * time.Hour)
	bm.mu.Unlock()

	bm.Touch(s.Token)
	bm.checkExpiredSessions()

	if _, err := bm.GetSessionByToken(s.Token); err == nil {
		return
	}
	t.Error("touched session expired anyway")
}
