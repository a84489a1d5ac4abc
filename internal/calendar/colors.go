package calendar

import (
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GameColors assigns each game a pastel color on an evenly spaced hue
// wheel. Names are sorted first so repeated renders of the same data are
// visually identical regardless of input order.
func GameColors(games []string) map[string]color.Color {
	names := append([]string(nil), games...)
	sort.Strings(names)

	colors := make(map[string]color.Color, len(names))
	hueStep := 1.0 / float64(len(names)+1)
	for i, game := range names {
		hue := float64(i) * hueStep
		colors[game] = colorful.Hsv(hue*360, 0.4, 0.95)
	}
	return colors
}

// sortedGames returns the distinct game names in a session list,
// lexicographically ordered.
func sortedGames(names map[string]color.Color) []string {
	games := make([]string, 0, len(names))
	for game := range names {
		games = append(games, game)
	}
	sort.Strings(games)
	return games
}
