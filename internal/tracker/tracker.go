package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hikarukin/gametrack/internal/models"
)

// ActivityKind tags a presence activity. Only playing activities open and
// close game sessions; everything else (streaming, listening, custom
// statuses) is ignored.
type ActivityKind int

const (
	KindPlaying ActivityKind = iota
	KindOther
)

// Activity is one entry in a member's presence snapshot.
type Activity struct {
	Kind    ActivityKind
	Name    string
	Details string
}

// SessionWriter is the slice of the session store the tracker needs.
type SessionWriter interface {
	Insert(session *models.GameSession) error
}

type sessionKey struct {
	userID   string
	gameName string
}

type activeSession struct {
	userName  string
	startTime time.Time
	details   string
}

// ActiveInfo describes one open session for status displays.
type ActiveInfo struct {
	UserID    string
	UserName  string
	GameName  string
	StartTime time.Time
}

// Tracker turns before/after presence snapshots into completed game
// sessions. Open sessions live only in memory, keyed by (user, game); a
// process restart abandons them, which is accepted data loss.
type Tracker struct {
	store SessionWriter
	clock func() time.Time
	log   zerolog.Logger

	mu     sync.Mutex
	active map[sessionKey]activeSession
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

// New returns a tracker writing completed sessions to store.
func New(store SessionWriter, logger zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		clock:  time.Now,
		log:    logger,
		active: make(map[sessionKey]activeSession),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HandlePresence processes one presence change for a user. Start and stop
// detection are independent passes: a user can stop one game and start
// another in the same update.
//
// A start for a key that is already open is a no-op, so duplicate start
// notifications never spawn extra sessions. A stop for a key that is not
// open is dropped without emitting anything.
func (t *Tracker) HandlePresence(userID, userName string, before, after []Activity) {
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Start detection: playing activities present after but not before.
	for _, act := range after {
		if act.Kind != KindPlaying || containsName(before, act.Name) {
			continue
		}
		key := sessionKey{userID: userID, gameName: act.Name}
		if _, open := t.active[key]; open {
			continue
		}
		t.active[key] = activeSession{
			userName:  userName,
			startTime: now,
			details:   act.Details,
		}
		t.log.Info().
			Str("user", userName).
			Str("game", act.Name).
			Msg("game session started")
	}

	// Stop detection: playing activities present before but not after.
	for _, act := range before {
		if act.Kind != KindPlaying || containsName(after, act.Name) {
			continue
		}
		key := sessionKey{userID: userID, gameName: act.Name}
		open, ok := t.active[key]
		if !ok {
			continue
		}
		delete(t.active, key)

		session := &models.GameSession{
			UserID:    userID,
			UserName:  userName,
			GameName:  act.Name,
			StartTime: open.startTime,
			EndTime:   now,
			Details:   open.details,
		}
		if err := t.store.Insert(session); err != nil {
			t.log.Error().Err(err).
				Str("user", userName).
				Str("game", act.Name).
				Msg("failed to persist game session")
			continue
		}
		t.log.Info().
			Str("user", userName).
			Str("game", act.Name).
			Int64("duration_seconds", session.DurationSeconds).
			Msg("game session ended")
	}
}

// ActiveSessions snapshots the currently open sessions, oldest first.
func (t *Tracker) ActiveSessions() []ActiveInfo {
	t.mu.Lock()
	defer t.mu.Unlock()

	infos := make([]ActiveInfo, 0, len(t.active))
	for key, open := range t.active {
		infos = append(infos, ActiveInfo{
			UserID:    key.userID,
			UserName:  open.userName,
			GameName:  key.gameName,
			StartTime: open.startTime,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartTime.Before(infos[j].StartTime)
	})
	return infos
}

// ActiveCount returns the number of open sessions.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

func containsName(activities []Activity, name string) bool {
	for _, act := range activities {
		if act.Name == name {
			return true
		}
	}
	return false
}

