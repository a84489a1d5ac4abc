// Package bot connects the session tracker and analytics engines to the
// Discord gateway: presence updates feed the tracker, chat commands are
// answered with statistics, recommendations and calendar renderings.
package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/hikarukin/gametrack/internal/analytics"
	"github.com/hikarukin/gametrack/internal/calendar"
	"github.com/hikarukin/gametrack/internal/recommend"
	"github.com/hikarukin/gametrack/internal/tracker"
)

// Bot owns the gateway session and dispatches events to the engines.
type Bot struct {
	session     *discordgo.Session
	tracker     *tracker.Tracker
	engine      *analytics.Engine
	recommender *recommend.Recommender
	renderer    *calendar.Renderer
	prefix      string
	log         zerolog.Logger

	// The gateway only delivers the new presence, so the adapter keeps the
	// last snapshot per user to synthesize the (before, after) pair the
	// tracker consumes.
	mu             sync.Mutex
	lastActivities map[string][]tracker.Activity
}

// New builds a bot around an authenticated gateway session.
func New(
	token, prefix string,
	trk *tracker.Tracker,
	engine *analytics.Engine,
	recommender *recommend.Recommender,
	renderer *calendar.Renderer,
	logger zerolog.Logger,
) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &Bot{
		session:        session,
		tracker:        trk,
		engine:         engine,
		recommender:    recommender,
		renderer:       renderer,
		prefix:         prefix,
		log:            logger,
		lastActivities: make(map[string][]tracker.Activity),
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onPresenceUpdate)
	session.AddHandler(b.onMessageCreate)

	return b, nil
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("logged in")
}

func (b *Bot) onPresenceUpdate(s *discordgo.Session, p *discordgo.PresenceUpdate) {
	if p.User == nil {
		return
	}

	after := convertActivities(p.Activities)

	b.mu.Lock()
	before := b.lastActivities[p.User.ID]
	if len(after) == 0 {
		delete(b.lastActivities, p.User.ID)
	} else {
		b.lastActivities[p.User.ID] = after
	}
	b.mu.Unlock()

	b.tracker.HandlePresence(p.User.ID, b.resolveName(s, p), before, after)
}

// resolveName finds a display name for the presence's user. Presence
// payloads often carry a partial user object, so fall back to the member
// cache, then to the raw ID.
func (b *Bot) resolveName(s *discordgo.Session, p *discordgo.PresenceUpdate) string {
	if p.User.Username != "" {
		return p.User.Username
	}
	if member, err := s.State.Member(p.GuildID, p.User.ID); err == nil && member.User != nil {
		return member.User.Username
	}
	return p.User.ID
}

func convertActivities(activities []*discordgo.Activity) []tracker.Activity {
	converted := make([]tracker.Activity, 0, len(activities))
	for _, a := range activities {
		if a == nil {
			continue
		}
		kind := tracker.KindOther
		if a.Type == discordgo.ActivityTypeGame {
			kind = tracker.KindPlaying
		}
		converted = append(converted, tracker.Activity{
			Kind:    kind,
			Name:    a.Name,
			Details: a.Details,
		})
	}
	return converted
}
