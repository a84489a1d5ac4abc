package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/hikarukin/gametrack/internal/models"
)

// HistoryRow is one (user, game) aggregate in the server-wide history.
type HistoryRow struct {
	UserName     string
	GameName     string
	SessionCount int64
	TotalSeconds int64
}

// TopGameRow is one game in the server popularity ranking.
type TopGameRow struct {
	GameName     string
	PlayerCount  int64
	SessionCount int64
	TotalSeconds int64
}

// GameStatRow is one game in a single user's statistics.
type GameStatRow struct {
	GameName     string
	SessionCount int64
	TotalSeconds int64
	AvgSeconds   float64
}

// GameTotalRow is a game with its summed playtime for one user.
type GameTotalRow struct {
	GameName     string
	TotalSeconds int64
}

// PopularityRow aggregates one game across all users.
type PopularityRow struct {
	GameName     string
	PlayerCount  int64
	TotalSeconds int64
}

// SessionStore wraps the append-only game_sessions table. All reads are
// aggregate or range queries; rows are never updated after Insert.
type SessionStore struct {
	gdb *gorm.DB
}

// NewSessionStore returns a store backed by an open gorm handle.
func NewSessionStore(gdb *gorm.DB) *SessionStore {
	return &SessionStore{gdb: gdb}
}

// Insert persists one completed session. Timestamps are corrected so that
// EndTime is always after StartTime by at least one second, and the cached
// duration is recomputed from the corrected pair before writing.
func (s *SessionStore) Insert(session *models.GameSession) error {
	if !session.EndTime.After(session.StartTime) {
		session.EndTime = session.StartTime.Add(time.Second)
	}
	session.DurationSeconds = int64(session.EndTime.Sub(session.StartTime) / time.Second)
	if session.DurationSeconds < 1 {
		session.DurationSeconds = 1
		session.EndTime = session.StartTime.Add(time.Second)
	}
	return s.gdb.Create(session).Error
}

// HistorySince groups completed sessions by (user, game), most played first.
func (s *SessionStore) HistorySince(since time.Time) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := s.gdb.Model(&models.GameSession{}).
		Select("user_name, game_name, COUNT(*) as session_count, SUM(duration_seconds) as total_seconds").
		Where("start_time >= ?", since).
		Group("user_name, game_name").
		Order("total_seconds DESC").
		Scan(&rows).Error
	return rows, err
}

// TopGamesSince ranks games by distinct player count, ties broken by
// total playtime.
func (s *SessionStore) TopGamesSince(since time.Time, limit int) ([]TopGameRow, error) {
	var rows []TopGameRow
	err := s.gdb.Model(&models.GameSession{}).
		Select("game_name, COUNT(DISTINCT user_id) as player_count, COUNT(*) as session_count, SUM(duration_seconds) as total_seconds").
		Where("start_time >= ?", since).
		Group("game_name").
		Order("player_count DESC, total_seconds DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// UserGameStatsSince returns per-game count/total/average for one user.
func (s *SessionStore) UserGameStatsSince(userID string, since time.Time) ([]GameStatRow, error) {
	var rows []GameStatRow
	err := s.gdb.Model(&models.GameSession{}).
		Select("game_name, COUNT(*) as session_count, SUM(duration_seconds) as total_seconds, AVG(duration_seconds) as avg_seconds").
		Where("user_id = ? AND start_time >= ?", userID, since).
		Group("game_name").
		Order("total_seconds DESC").
		Scan(&rows).Error
	return rows, err
}

// UserGameTotalsSince returns each game the user played in the window with
// its summed playtime.
func (s *SessionStore) UserGameTotalsSince(userID string, since time.Time) ([]GameTotalRow, error) {
	var rows []GameTotalRow
	err := s.gdb.Model(&models.GameSession{}).
		Select("game_name, SUM(duration_seconds) as total_seconds").
		Where("user_id = ? AND start_time >= ?", userID, since).
		Group("game_name").
		Scan(&rows).Error
	return rows, err
}

// FavoriteGames returns the user's all-time top games by playtime.
func (s *SessionStore) FavoriteGames(userID string, limit int) ([]GameTotalRow, error) {
	var rows []GameTotalRow
	err := s.gdb.Model(&models.GameSession{}).
		Select("game_name, SUM(duration_seconds) as total_seconds").
		Where("user_id = ?", userID).
		Group("game_name").
		Order("total_seconds DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ActiveUserIDsSince lists users with at least one session in the window.
func (s *SessionStore) ActiveUserIDsSince(since time.Time) ([]string, error) {
	var ids []string
	err := s.gdb.Model(&models.GameSession{}).
		Distinct("user_id").
		Where("start_time >= ?", since).
		Pluck("user_id", &ids).Error
	return ids, err
}

// UserNameFor returns the most recently recorded display name for a user,
// or "" when the user has no sessions.
func (s *SessionStore) UserNameFor(userID string) (string, error) {
	var names []string
	err := s.gdb.Model(&models.GameSession{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(1).
		Pluck("user_name", &names).Error
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}

// GamePopularitySince aggregates every game in the window across all users.
func (s *SessionStore) GamePopularitySince(since time.Time) ([]PopularityRow, error) {
	var rows []PopularityRow
	err := s.gdb.Model(&models.GameSession{}).
		Select("game_name, COUNT(DISTINCT user_id) as player_count, SUM(duration_seconds) as total_seconds").
		Where("start_time >= ?", since).
		Group("game_name").
		Order("player_count DESC, total_seconds DESC").
		Scan(&rows).Error
	return rows, err
}

// UserSessionsSince returns a user's raw sessions ordered by start time.
func (s *SessionStore) UserSessionsSince(userID string, since time.Time) ([]models.GameSession, error) {
	var sessions []models.GameSession
	err := s.gdb.
		Where("user_id = ? AND start_time >= ?", userID, since).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}

// UserSessionsBetween returns a user's raw sessions that started inside
// [start, end), ordered by start time.
func (s *SessionStore) UserSessionsBetween(userID string, start, end time.Time) ([]models.GameSession, error) {
	var sessions []models.GameSession
	err := s.gdb.
		Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, start, end).
		Order("start_time ASC").
		Find(&sessions).Error
	return sessions, err
}
