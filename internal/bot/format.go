package bot

import (
	"fmt"
	"strings"
)

// Embed colors matching the reply palette.
const (
	colorBlue   = 0x3498DB
	colorGreen  = 0x2ECC71
	colorOrange = 0xE67E22
	colorPurple = 0x9B59B6
)

const progressBarLength = 10

// progressBar renders a percentage as a fixed-width block bar.
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := progressBarLength * percent / 100
	return strings.Repeat("█", filled) + strings.Repeat("▒", progressBarLength-filled)
}

// formatHours renders a seconds total as fractional hours.
func formatHours(seconds int64) string {
	return fmt.Sprintf("%.1fh", float64(seconds)/3600)
}
