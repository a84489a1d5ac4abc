package tracker

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hikarukin/gametrack/internal/models"
)

type fakeStore struct {
	sessions []models.GameSession
	err      error
}

func (f *fakeStore) Insert(session *models.GameSession) error {
	if f.err != nil {
		return f.err
	}
	f.sessions = append(f.sessions, *session)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestTracker(t *testing.T) (*Tracker, *fakeStore, *fakeClock) {
	t.Helper()
	store := &fakeStore{}
	clock := &fakeClock{now: time.Date(2025, 6, 2, 20, 0, 0, 0, time.Local)}
	trk := New(store, zerolog.Nop(), WithClock(func() time.Time { return clock.now }))
	return trk, store, clock
}

func playing(name string) Activity {
	return Activity{Kind: KindPlaying, Name: name}
}

func TestMatchedStartStopPersistsOneSession(t *testing.T) {
	trk, store, clock := newTestTracker(t)

	trk.HandlePresence("u1", "alice", nil, []Activity{playing("Chess")})
	clock.advance(10 * time.Minute)
	trk.HandlePresence("u1", "alice", []Activity{playing("Chess")}, nil)

	if len(store.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(store.sessions))
	}
	s := store.sessions[0]
	if s.UserID != "u1" || s.GameName != "Chess" {
		t.Fatalf("unexpected session %+v", s)
	}
	if got := s.EndTime.Sub(s.StartTime); got != 10*time.Minute {
		t.Fatalf("expected 10m elapsed, got %s", got)
	}
	if trk.ActiveCount() != 0 {
		t.Fatalf("expected no active sessions, got %d", trk.ActiveCount())
	}
}

func TestDuplicateStartIsSuppressed(t *testing.T) {
	trk, store, clock := newTestTracker(t)

	trk.HandlePresence("u1", "alice", nil, []Activity{playing("Chess")})
	clock.advance(5 * time.Minute)
	// Duplicate start notification for an already-open key.
	trk.HandlePresence("u1", "alice", nil, []Activity{playing("Chess")})
	clock.advance(5 * time.Minute)
	trk.HandlePresence("u1", "alice", []Activity{playing("Chess")}, nil)

	if len(store.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(store.sessions))
	}
	// The original start time must survive the duplicate.
	if got := store.sessions[0].EndTime.Sub(store.sessions[0].StartTime); got != 10*time.Minute {
		t.Fatalf("expected 10m elapsed, got %s", got)
	}
}

func TestUnmatchedStopPersistsNothing(t *testing.T) {
	trk, store, _ := newTestTracker(t)

	trk.HandlePresence("u1", "alice", []Activity{playing("Chess")}, nil)

	if len(store.sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(store.sessions))
	}
}

func TestStopOfOneGameAndStartOfAnotherInSameUpdate(t *testing.T) {
	trk, store, clock := newTestTracker(t)

	trk.HandlePresence("u1", "alice", nil, []Activity{playing("Chess")})
	clock.advance(30 * time.Minute)
	trk.HandlePresence("u1", "alice", []Activity{playing("Chess")}, []Activity{playing("Go")})

	if len(store.sessions) != 1 {
		t.Fatalf("expected 1 completed session, got %d", len(store.sessions))
	}
	if store.sessions[0].GameName != "Chess" {
		t.Fatalf("expected Chess to be closed, got %s", store.sessions[0].GameName)
	}
	active := trk.ActiveSessions()
	if len(active) != 1 || active[0].GameName != "Go" {
		t.Fatalf("expected Go to be open, got %+v", active)
	}
}

func TestNonPlayingActivitiesAreIgnored(t *testing.T) {
	trk, store, _ := newTestTracker(t)

	listening := Activity{Kind: KindOther, Name: "Spotify"}
	trk.HandlePresence("u1", "alice", nil, []Activity{listening})
	trk.HandlePresence("u1", "alice", []Activity{listening}, nil)

	if len(store.sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(store.sessions))
	}
	if trk.ActiveCount() != 0 {
		t.Fatalf("expected no active sessions, got %d", trk.ActiveCount())
	}
}

func TestConcurrentGamesTrackedIndependently(t *testing.T) {
	trk, store, clock := newTestTracker(t)

	trk.HandlePresence("u1", "alice", nil, []Activity{playing("Chess")})
	clock.advance(5 * time.Minute)
	trk.HandlePresence("u1", "alice",
		[]Activity{playing("Chess")},
		[]Activity{playing("Chess"), playing("Go")})
	clock.advance(5 * time.Minute)
	trk.HandlePresence("u1", "alice",
		[]Activity{playing("Chess"), playing("Go")},
		nil)

	if len(store.sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(store.sessions))
	}
	byGame := map[string]time.Duration{}
	for _, s := range store.sessions {
		byGame[s.GameName] = s.EndTime.Sub(s.StartTime)
	}
	if byGame["Chess"] != 10*time.Minute {
		t.Fatalf("expected Chess 10m, got %s", byGame["Chess"])
	}
	if byGame["Go"] != 5*time.Minute {
		t.Fatalf("expected Go 5m, got %s", byGame["Go"])
	}
}

func TestSameGameDifferentUsersTrackedIndependently(t *testing.T) {
	trk, store, clock := newTestTracker(t)

	trk.HandlePresence("u1", "alice", nil, []Activity{playing("Chess")})
	clock.advance(2 * time.Minute)
	trk.HandlePresence("u2", "bob", nil, []Activity{playing("Chess")})
	clock.advance(2 * time.Minute)
	trk.HandlePresence("u1", "alice", []Activity{playing("Chess")}, nil)

	if len(store.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(store.sessions))
	}
	if store.sessions[0].UserID != "u1" {
		t.Fatalf("expected alice's session, got %s", store.sessions[0].UserID)
	}
	if trk.ActiveCount() != 1 {
		t.Fatalf("expected bob still active, got %d", trk.ActiveCount())
	}
}

func TestActiveSessionsOrderedByStartTime(t *testing.T) {
	trk, _, clock := newTestTracker(t)

	trk.HandlePresence("u2", "bob", nil, []Activity{playing("Go")})
	clock.advance(time.Minute)
	trk.HandlePresence("u1", "alice", nil, []Activity{playing("Chess")})

	active := trk.ActiveSessions()
	if len(active) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(active))
	}
	if active[0].UserName != "bob" || active[1].UserName != "alice" {
		t.Fatalf("expected oldest first, got %+v", active)
	}
}

func TestDetailsCapturedAtStart(t *testing.T) {
	trk, store, clock := newTestTracker(t)

	start := Activity{Kind: KindPlaying, Name: "Chess", Details: "Ranked match"}
	trk.HandlePresence("u1", "alice", nil, []Activity{start})
	clock.advance(time.Minute)
	trk.HandlePresence("u1", "alice", []Activity{playing("Chess")}, nil)

	if len(store.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(store.sessions))
	}
	if store.sessions[0].Details != "Ranked match" {
		t.Fatalf("expected details to survive, got %q", store.sessions[0].Details)
	}
}
