package bot

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/hikarukin/gametrack/internal/analytics"
	"github.com/hikarukin/gametrack/internal/calendar"
	"github.com/hikarukin/gametrack/internal/recommend"
	"github.com/hikarukin/gametrack/internal/timeutil"
)

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.prefix))
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch command {
	case "history":
		err = b.cmdHistory(s, m, args)
	case "top":
		err = b.cmdTop(s, m, args)
	case "mygames":
		err = b.cmdMyGames(s, m, args)
	case "profile":
		err = b.cmdProfile(s, m)
	case "similar":
		err = b.cmdSimilar(s, m, args)
	case "recommend":
		err = b.cmdRecommend(s, m, args)
	case "calendar":
		err = b.cmdCalendar(s, m)
	case "week":
		err = b.cmdWeek(s, m, args)
	case "day":
		err = b.cmdDay(s, m, args)
	default:
		return
	}

	if err != nil {
		b.log.Error().Err(err).Str("command", command).Msg("command failed")
		b.reply(s, m, "Something went wrong while processing the command.")
	}
}

func (b *Bot) cmdHistory(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	days, ok := b.parseCount(s, m, args, analytics.DefaultWindowDays)
	if !ok {
		return nil
	}

	rows, err := b.engine.History(days)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		b.reply(s, m, fmt.Sprintf("No play records in the last %d days.", days))
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Play records for the last %d days:\n```", days)
	for _, row := range rows {
		fmt.Fprintf(&sb, "\n%s - %s:\n", row.UserName, row.GameName)
		fmt.Fprintf(&sb, "  sessions: %d\n", row.SessionCount)
		fmt.Fprintf(&sb, "  total playtime: %s\n", formatHours(row.TotalSeconds))
	}
	sb.WriteString("```")
	b.reply(s, m, sb.String())
	return nil
}

func (b *Bot) cmdTop(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	days, ok := b.parseCount(s, m, args, analytics.DefaultWindowDays)
	if !ok {
		return nil
	}

	rows, err := b.engine.TopGames(days)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		b.reply(s, m, fmt.Sprintf("No play records in the last %d days.", days))
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Popular games over the last %d days:\n```", days)
	for _, row := range rows {
		fmt.Fprintf(&sb, "\n%s:\n", row.GameName)
		fmt.Fprintf(&sb, "  players: %d\n", row.PlayerCount)
		fmt.Fprintf(&sb, "  sessions: %d\n", row.SessionCount)
		fmt.Fprintf(&sb, "  total playtime: %s\n", formatHours(row.TotalSeconds))
	}
	sb.WriteString("```")
	b.reply(s, m, sb.String())
	return nil
}

func (b *Bot) cmdMyGames(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	days, ok := b.parseCount(s, m, args, analytics.DefaultWindowDays)
	if !ok {
		return nil
	}

	rows, err := b.engine.MyGames(m.Author.ID, days)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		b.reply(s, m, fmt.Sprintf("No play records in the last %d days.", days))
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Your play records for the last %d days:\n```", days)
	for _, row := range rows {
		fmt.Fprintf(&sb, "\n%s:\n", row.GameName)
		fmt.Fprintf(&sb, "  sessions: %d\n", row.SessionCount)
		fmt.Fprintf(&sb, "  total playtime: %s\n", formatHours(row.TotalSeconds))
		fmt.Fprintf(&sb, "  average session: %.1fm\n", row.AvgSeconds/60)
	}
	sb.WriteString("```")
	b.reply(s, m, sb.String())
	return nil
}

func (b *Bot) cmdProfile(s *discordgo.Session, m *discordgo.MessageCreate) error {
	target := m.Author
	if len(m.Mentions) > 0 {
		target = m.Mentions[0]
	}

	profile, err := b.engine.Profile(target.ID)
	if err != nil {
		return err
	}
	if profile == nil {
		b.sendEmbed(s, m, &discordgo.MessageEmbed{
			Title:       "No profile",
			Description: "No play records found.",
			Color:       colorOrange,
		})
		return nil
	}

	var favorites strings.Builder
	for _, game := range profile.Favorites {
		fmt.Fprintf(&favorites, "🎮 %s: %s\n", game.GameName, formatHours(game.TotalSeconds))
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s's game profile", target.Username),
		Color: colorPurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🏆 Favorite games", Value: favorites.String(), Inline: false},
		},
	}

	if len(profile.Hours) == 0 {
		b.sendEmbed(s, m, embed)
		return nil
	}

	counts, err := b.engine.HourHistogram(target.ID, 0)
	if err != nil {
		return err
	}
	png, err := b.renderer.HourHistogram(counts)
	if err != nil {
		return err
	}

	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://playtime_distribution.png"}
	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embed: embed,
		Files: []*discordgo.File{{
			Name:        "playtime_distribution.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(png),
		}},
	})
	return err
}

func (b *Bot) cmdSimilar(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	days, ok := b.parseCount(s, m, args, recommend.DefaultWindowDays)
	if !ok {
		return nil
	}

	matches, err := b.recommender.SimilarUsers(m.Author.ID, days)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		b.sendEmbed(s, m, &discordgo.MessageEmbed{
			Title:       "No similar players",
			Description: fmt.Sprintf("No matching players found in the last %d days.", days),
			Color:       colorOrange,
		})
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Similar players",
		Description: fmt.Sprintf("Players whose habits look like %s's:", m.Author.Username),
		Color:       colorBlue,
	}
	for _, match := range matches {
		percent := int(match.Score * 100)
		value := fmt.Sprintf("Match: %s %d%%\nCommon games: %s",
			progressBar(percent), percent, strings.Join(match.CommonGames, ", "))
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "👤 " + match.UserName,
			Value:  value,
			Inline: false,
		})
	}
	b.sendEmbed(s, m, embed)
	return nil
}

func (b *Bot) cmdRecommend(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	days, ok := b.parseCount(s, m, args, recommend.DefaultWindowDays)
	if !ok {
		return nil
	}

	recommendations, err := b.recommender.Recommend(m.Author.ID, days)
	if err != nil {
		return err
	}
	if len(recommendations) == 0 {
		b.sendEmbed(s, m, &discordgo.MessageEmbed{
			Title:       "😅 No recommendations",
			Description: "Not enough play history to recommend new games.",
			Color:       colorOrange,
		})
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎯 Recommended games",
		Description: fmt.Sprintf("Games %s might enjoy:", m.Author.Username),
		Color:       colorGreen,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Scores are based on how many other players play and for how long.",
		},
	}
	for _, rec := range recommendations {
		percent := int(rec.Share * 100)
		value := fmt.Sprintf("Popularity: %s %d players\nAverage playtime: %.1fh",
			progressBar(percent), rec.PlayerCount, rec.AvgHoursPerPlayer)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "🎮 " + rec.GameName,
			Value:  value,
			Inline: false,
		})
	}
	b.sendEmbed(s, m, embed)
	return nil
}

func (b *Bot) cmdCalendar(s *discordgo.Session, m *discordgo.MessageCreate) error {
	sessions, err := b.engine.RecentSessions(m.Author.ID)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		b.reply(s, m, "No play records found.")
		return nil
	}

	png, err := b.renderer.WeeklyImage(time.Now(), sessions)
	if err != nil {
		return err
	}

	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content: fmt.Sprintf("%s's weekly gaming calendar", m.Author.Username),
		Files: []*discordgo.File{{
			Name:        "calendar.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(png),
		}},
	})
	return err
}

func (b *Bot) cmdWeek(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	offset, ok := b.parseCount(s, m, args, 0)
	if !ok {
		return nil
	}

	weekStart, sessions, err := b.engine.WeekSessions(m.Author.ID, offset)
	if err != nil {
		return err
	}

	grid := calendar.WeekGrid(weekStart, sessions)
	b.reply(s, m, fmt.Sprintf("Activity for the week of %s:\n```\n%s```",
		weekStart.Format(timeutil.DayFormat), grid))
	return nil
}

func (b *Bot) cmdDay(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	day := time.Now()
	if len(args) > 0 {
		parsed, err := timeutil.ParseDay(args[0])
		if err != nil {
			b.reply(s, m, "Invalid date format. Use YYYY-MM-DD.")
			return nil
		}
		day = parsed
	}

	sessions, err := b.engine.DaySessions(m.Author.ID, day)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		b.reply(s, m, fmt.Sprintf("No play records on %s.", day.Format(timeutil.DayFormat)))
		return nil
	}

	detail := calendar.DayDetail(day, sessions)
	b.reply(s, m, fmt.Sprintf("Play records for %s:\n```\n%s```",
		day.Format(timeutil.DayFormat), detail))
	return nil
}

// parseCount parses an optional leading integer argument, replying with a
// validation message itself when the input is malformed. A zero default is
// allowed (the week command's offset).
func (b *Bot) parseCount(s *discordgo.Session, m *discordgo.MessageCreate, args []string, fallback int) (int, bool) {
	if len(args) == 0 {
		return fallback, true
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		b.reply(s, m, fmt.Sprintf("Invalid number %q.", args[0]))
		return 0, false
	}
	return n, true
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		b.log.Error().Err(err).Msg("failed to send reply")
	}
}

func (b *Bot) sendEmbed(s *discordgo.Session, m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		b.log.Error().Err(err).Msg("failed to send embed")
	}
}
