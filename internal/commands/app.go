package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hikarukin/gametrack/internal/analytics"
	"github.com/hikarukin/gametrack/internal/bot"
	"github.com/hikarukin/gametrack/internal/calendar"
	"github.com/hikarukin/gametrack/internal/config"
	"github.com/hikarukin/gametrack/internal/db"
	"github.com/hikarukin/gametrack/internal/recommend"
	"github.com/hikarukin/gametrack/internal/tracker"
)

// app wires configuration, storage, engines and the gateway adapter.
type app struct {
	cfg     *config.Config
	gdb     *gorm.DB
	tracker *tracker.Tracker
	bot     *bot.Bot
	log     zerolog.Logger
}

func buildApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	path := cfg.DatabasePath
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	gdb, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	store := db.NewSessionStore(gdb)
	trk := tracker.New(store, logger.With().Str("component", "tracker").Logger())
	engine := analytics.NewEngine(store)
	recommender := recommend.New(engine)

	renderer, err := calendar.NewRenderer(logger.With().Str("component", "calendar").Logger())
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	discordBot, err := bot.New(cfg.DiscordToken, cfg.CommandPrefix, trk, engine, recommender, renderer,
		logger.With().Str("component", "bot").Logger())
	if err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	return &app{
		cfg:     cfg,
		gdb:     gdb,
		tracker: trk,
		bot:     discordBot,
		log:     logger,
	}, nil
}

func (a *app) close() {
	if err := db.Close(a.gdb); err != nil {
		a.log.Error().Err(err).Msg("failed to close database")
	}
}
