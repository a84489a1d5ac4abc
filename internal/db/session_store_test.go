package db

import (
	"testing"
	"time"

	"github.com/hikarukin/gametrack/internal/models"
)

func openTestStore(t *testing.T) *SessionStore {
	t.Helper()
	gdb, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = Close(gdb) })
	return NewSessionStore(gdb)
}

func insert(t *testing.T, store *SessionStore, userID, userName, game string, start time.Time, duration time.Duration) {
	t.Helper()
	err := store.Insert(&models.GameSession{
		UserID:    userID,
		UserName:  userName,
		GameName:  game,
		StartTime: start,
		EndTime:   start.Add(duration),
	})
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
}

func TestInsertComputesDuration(t *testing.T) {
	store := openTestStore(t)

	start := time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC)
	session := &models.GameSession{
		UserID:    "u1",
		UserName:  "alice",
		GameName:  "Chess",
		StartTime: start,
		EndTime:   start.Add(10 * time.Minute),
	}
	if err := store.Insert(session); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if session.DurationSeconds != 600 {
		t.Fatalf("expected duration 600, got %d", session.DurationSeconds)
	}
}

func TestInsertCorrectsInvertedTimestamps(t *testing.T) {
	store := openTestStore(t)

	start := time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC)
	for _, end := range []time.Time{start, start.Add(-time.Hour)} {
		session := &models.GameSession{
			UserID:    "u1",
			UserName:  "alice",
			GameName:  "Chess",
			StartTime: start,
			EndTime:   end,
		}
		if err := store.Insert(session); err != nil {
			t.Fatalf("insert session: %v", err)
		}
		if session.DurationSeconds != 1 {
			t.Fatalf("expected minimum duration 1, got %d", session.DurationSeconds)
		}
		if !session.EndTime.After(session.StartTime) {
			t.Fatalf("expected corrected end after start, got %s <= %s", session.EndTime, session.StartTime)
		}
	}
}

func TestHistorySinceOrdersByPlaytime(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	insert(t, store, "u1", "alice", "Chess", now.Add(-2*time.Hour), 30*time.Minute)
	insert(t, store, "u2", "bob", "Go", now.Add(-3*time.Hour), 2*time.Hour)
	insert(t, store, "u1", "alice", "Chess", now.Add(-time.Hour), 15*time.Minute)

	rows, err := store.HistorySince(now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserName != "bob" || rows[0].TotalSeconds != 7200 {
		t.Fatalf("expected bob first with 7200s, got %+v", rows[0])
	}
	if rows[1].SessionCount != 2 || rows[1].TotalSeconds != 2700 {
		t.Fatalf("expected alice with 2 sessions and 2700s, got %+v", rows[1])
	}
}

func TestHistoryWindowExcludesOldSessions(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	insert(t, store, "u1", "alice", "Chess", now.AddDate(0, 0, -10), time.Hour)
	insert(t, store, "u1", "alice", "Go", now.Add(-time.Hour), time.Hour)

	rows, err := store.HistorySince(now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(rows) != 1 || rows[0].GameName != "Go" {
		t.Fatalf("expected only the recent Go session, got %+v", rows)
	}
}

func TestTopGamesRanksByPlayersThenPlaytime(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	// Chess: 2 players, 1h total. Go: 2 players, 3h total. Solitaire: 1 player.
	insert(t, store, "u1", "alice", "Chess", now.Add(-4*time.Hour), 30*time.Minute)
	insert(t, store, "u2", "bob", "Chess", now.Add(-4*time.Hour), 30*time.Minute)
	insert(t, store, "u1", "alice", "Go", now.Add(-3*time.Hour), time.Hour)
	insert(t, store, "u2", "bob", "Go", now.Add(-3*time.Hour), 2*time.Hour)
	insert(t, store, "u3", "carol", "Solitaire", now.Add(-2*time.Hour), 5*time.Hour)

	rows, err := store.TopGamesSince(now.AddDate(0, 0, -7), 10)
	if err != nil {
		t.Fatalf("top games: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].GameName != "Go" || rows[1].GameName != "Chess" || rows[2].GameName != "Solitaire" {
		t.Fatalf("unexpected order: %s, %s, %s", rows[0].GameName, rows[1].GameName, rows[2].GameName)
	}
	if rows[0].PlayerCount != 2 || rows[0].SessionCount != 2 {
		t.Fatalf("unexpected Go aggregates: %+v", rows[0])
	}
}

func TestUserGameStats(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 23, 0, 0, 0, time.Local).Add(-24 * time.Hour)

	// Chess 23:00-23:10 and 23:20-23:40 on the same day.
	insert(t, store, "u1", "alice", "Chess", day, 10*time.Minute)
	insert(t, store, "u1", "alice", "Chess", day.Add(20*time.Minute), 20*time.Minute)
	insert(t, store, "u2", "bob", "Chess", day, time.Hour)

	rows, err := store.UserGameStatsSince("u1", now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("user game stats: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.SessionCount != 2 {
		t.Fatalf("expected 2 sessions, got %d", row.SessionCount)
	}
	if row.TotalSeconds != 1800 {
		t.Fatalf("expected 1800s total, got %d", row.TotalSeconds)
	}
	if row.AvgSeconds != 900 {
		t.Fatalf("expected 900s average, got %f", row.AvgSeconds)
	}
}

func TestFavoriteGamesIsAllTime(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	insert(t, store, "u1", "alice", "Chess", now.AddDate(0, 0, -60), 10*time.Hour)
	insert(t, store, "u1", "alice", "Go", now.Add(-time.Hour), time.Hour)

	rows, err := store.FavoriteGames("u1", 5)
	if err != nil {
		t.Fatalf("favorite games: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].GameName != "Chess" {
		t.Fatalf("expected the old Chess hours to count, got %s first", rows[0].GameName)
	}
}

func TestActiveUserIDsSince(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	insert(t, store, "u1", "alice", "Chess", now.Add(-time.Hour), time.Minute)
	insert(t, store, "u1", "alice", "Go", now.Add(-2*time.Hour), time.Minute)
	insert(t, store, "u2", "bob", "Chess", now.AddDate(0, 0, -40), time.Minute)

	ids, err := store.ActiveUserIDsSince(now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("active users: %v", err)
	}
	if len(ids) != 1 || ids[0] != "u1" {
		t.Fatalf("expected only u1, got %v", ids)
	}
}

func TestUserNameForReturnsLatestName(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	insert(t, store, "u1", "alice", "Chess", now.Add(-2*time.Hour), time.Minute)
	insert(t, store, "u1", "alice_new", "Chess", now.Add(-time.Hour), time.Minute)

	name, err := store.UserNameFor("u1")
	if err != nil {
		t.Fatalf("user name: %v", err)
	}
	if name != "alice_new" {
		t.Fatalf("expected latest name, got %q", name)
	}
}

func TestUserSessionsBetween(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)

	insert(t, store, "u1", "alice", "Chess", base.Add(-time.Hour), time.Minute)
	insert(t, store, "u1", "alice", "Go", base.Add(time.Hour), time.Minute)
	insert(t, store, "u1", "alice", "Chess", base.Add(25*time.Hour), time.Minute)

	sessions, err := store.UserSessionsBetween("u1", base, base.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("sessions between: %v", err)
	}
	if len(sessions) != 1 || sessions[0].GameName != "Go" {
		t.Fatalf("expected only the in-range Go session, got %+v", sessions)
	}
}
