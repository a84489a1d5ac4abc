package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hikarukin/gametrack/internal/models"
	"github.com/hikarukin/gametrack/internal/timeutil"
)

var weekdayAbbrevs = [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// WeekGrid renders one week of sessions as a compact text grid: rows are
// 3-hour buckets, columns are weekdays starting Monday. Each occupied cell
// shows the first letter of the first game whose hour range touches the
// bucket; a legend below maps letters back to full names.
func WeekGrid(weekStart time.Time, sessions []models.GameSession) string {
	byDay := make(map[int][]models.GameSession)
	games := make(map[string]struct{})
	for _, s := range sessions {
		day := int(timeutil.Midnight(s.StartTime).Sub(weekStart).Hours() / 24)
		if day < 0 || day > 6 {
			continue
		}
		byDay[day] = append(byDay[day], s)
		games[s.GameName] = struct{}{}
	}

	var b strings.Builder

	b.WriteString("     ")
	for day := 0; day < 7; day++ {
		b.WriteString(" |" + centered(weekdayAbbrevs[day]))
	}
	b.WriteString("\n")
	b.WriteString("-----+" + strings.Repeat("----+", 6) + "----\n")

	for bucket := 0; bucket < 24; bucket += 3 {
		b.WriteString(fmt.Sprintf("%02d-%02d", bucket, bucket+3))
		for day := 0; day < 7; day++ {
			b.WriteString(" |" + centered(bucketInitial(byDay[day], bucket)))
		}
		b.WriteString("\n")
	}

	if len(games) > 0 {
		b.WriteString("\nLegend:\n")
		names := make([]string, 0, len(games))
		for game := range games {
			names = append(names, game)
		}
		sort.Strings(names)
		for _, game := range names {
			b.WriteString(fmt.Sprintf("%s: %s\n", initialOf(game), game))
		}
	}

	return b.String()
}

// bucketInitial picks the cell letter for one 3-hour bucket: the first
// session (in start-time order) whose [start_hour, end_hour] range touches
// the bucket wins, later matches never overwrite it.
func bucketInitial(sessions []models.GameSession, bucket int) string {
	for _, s := range sessions {
		startHour := s.StartTime.Hour()
		endHour := s.EndTime.Hour()
		for h := startHour; h <= endHour; h++ {
			if h >= bucket && h < bucket+3 {
				return initialOf(s.GameName)
			}
		}
	}
	return ""
}

// DayDetail lists one day's sessions grouped by game, with per-session
// time ranges and a per-game total in minutes.
func DayDetail(day time.Time, sessions []models.GameSession) string {
	order := make([]string, 0)
	byGame := make(map[string][]models.GameSession)
	for _, s := range sessions {
		if _, seen := byGame[s.GameName]; !seen {
			order = append(order, s.GameName)
		}
		byGame[s.GameName] = append(byGame[s.GameName], s)
	}

	var b strings.Builder
	for _, game := range order {
		b.WriteString(fmt.Sprintf("%s:\n", game))
		var total int64
		for _, s := range byGame[game] {
			total += s.DurationSeconds
			b.WriteString(fmt.Sprintf("  %s-%s (%dm)\n",
				s.StartTime.Format("15:04"),
				s.EndTime.Format("15:04"),
				s.DurationSeconds/60))
		}
		b.WriteString(fmt.Sprintf("  total: %dm\n", total/60))
	}
	return b.String()
}

func initialOf(game string) string {
	for _, r := range game {
		return string(r)
	}
	return ""
}

func centered(s string) string {
	switch len(s) {
	case 0:
		return "   "
	case 1:
		return " " + s + " "
	case 2:
		return s + " "
	default:
		return s[:3]
	}
}
