// Package analytics answers read-only aggregate queries over recorded game
// sessions. All durations are seconds; presentation layers convert to
// hours and minutes.
package analytics

import (
	"sort"
	"time"

	"github.com/hikarukin/gametrack/internal/db"
	"github.com/hikarukin/gametrack/internal/models"
	"github.com/hikarukin/gametrack/internal/timeutil"
)

const (
	// DefaultWindowDays is the lookback used when a command gives none.
	DefaultWindowDays = 7

	// TopGamesLimit caps the popularity ranking.
	TopGamesLimit = 10

	// FavoritesLimit caps the profile favorites list.
	FavoritesLimit = 5
)

// HourCount is one non-empty bucket of the session-start histogram.
type HourCount struct {
	Hour  int
	Count int
}

// Profile is a user's all-time summary: most played games plus the
// hour-of-day distribution of their session starts.
type Profile struct {
	Favorites []db.GameTotalRow
	Hours     []HourCount
}

// Engine exposes the aggregate views the chat commands are built on.
type Engine struct {
	store *db.SessionStore
	clock func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// NewEngine returns an engine reading from store.
func NewEngine(store *db.SessionStore, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) windowStart(days int) time.Time {
	if days <= 0 {
		days = DefaultWindowDays
	}
	return e.clock().AddDate(0, 0, -days)
}

// History returns per-(user, game) session counts and playtime in the
// window, most played first.
func (e *Engine) History(days int) ([]db.HistoryRow, error) {
	return e.store.HistorySince(e.windowStart(days))
}

// TopGames ranks the window's games by distinct players, then playtime.
func (e *Engine) TopGames(days int) ([]db.TopGameRow, error) {
	return e.store.TopGamesSince(e.windowStart(days), TopGamesLimit)
}

// MyGames returns one user's per-game statistics in the window.
func (e *Engine) MyGames(userID string, days int) ([]db.GameStatRow, error) {
	return e.store.UserGameStatsSince(userID, e.windowStart(days))
}

// Profile builds a user's all-time profile. Returns nil (not an error)
// when the user has no recorded sessions.
func (e *Engine) Profile(userID string) (*Profile, error) {
	favorites, err := e.store.FavoriteGames(userID, FavoritesLimit)
	if err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return nil, nil
	}

	histogram, err := e.HourHistogram(userID, 0)
	if err != nil {
		return nil, err
	}

	return &Profile{Favorites: favorites, Hours: sortedHours(histogram)}, nil
}

// HourHistogram buckets a user's session starts by hour of day. A
// non-positive days value means all-time.
func (e *Engine) HourHistogram(userID string, days int) (map[int]int, error) {
	since := time.Time{}
	if days > 0 {
		since = e.windowStart(days)
	}
	sessions, err := e.store.UserSessionsSince(userID, since)
	if err != nil {
		return nil, err
	}

	histogram := make(map[int]int)
	for _, s := range sessions {
		histogram[s.StartTime.Hour()]++
	}
	return histogram, nil
}

// UserGameTotals maps each game the user played in the window to summed
// playtime seconds.
func (e *Engine) UserGameTotals(userID string, days int) (map[string]int64, error) {
	rows, err := e.store.UserGameTotalsSince(userID, e.windowStart(days))
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.GameName] = row.TotalSeconds
	}
	return totals, nil
}

// ActiveUsers lists users with at least one session in the window.
func (e *Engine) ActiveUsers(days int) ([]string, error) {
	return e.store.ActiveUserIDsSince(e.windowStart(days))
}

// GamePopularity aggregates every game in the window across all users.
func (e *Engine) GamePopularity(days int) ([]db.PopularityRow, error) {
	return e.store.GamePopularitySince(e.windowStart(days))
}

// UserName resolves a user's last recorded display name.
func (e *Engine) UserName(userID string) (string, error) {
	return e.store.UserNameFor(userID)
}

// RecentSessions returns the user's sessions from the trailing 7 days,
// ordered by start time. This feeds the pixel calendar.
func (e *Engine) RecentSessions(userID string) ([]models.GameSession, error) {
	return e.store.UserSessionsSince(userID, e.clock().AddDate(0, 0, -7))
}

// WeekSessions returns the Monday-start week offset weeks back, plus the
// user's sessions that started inside it.
func (e *Engine) WeekSessions(userID string, offset int) (time.Time, []models.GameSession, error) {
	start := timeutil.WeekStart(e.clock(), offset)
	sessions, err := e.store.UserSessionsBetween(userID, start, start.AddDate(0, 0, 7))
	return start, sessions, err
}

// DaySessions returns the user's sessions that started on the given local
// calendar day.
func (e *Engine) DaySessions(userID string, day time.Time) ([]models.GameSession, error) {
	start, end := timeutil.DayBounds(day)
	return e.store.UserSessionsBetween(userID, start, end)
}

func sortedHours(histogram map[int]int) []HourCount {
	hours := make([]HourCount, 0, len(histogram))
	for hour, count := range histogram {
		hours = append(hours, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Count != hours[j].Count {
			return hours[i].Count > hours[j].Count
		}
		return hours[i].Hour < hours[j].Hour
	})
	return hours
}
