package calendar

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

const (
	histWidth  = 1000
	histHeight = 400
	histMargin = 60
)

var histBarColor = color.RGBA{128, 90, 213, 153}

// HourHistogram renders a 24-bucket bar chart of session starts per hour
// of day, used by the profile reply.
func (r *Renderer) HourHistogram(counts map[int]int) ([]byte, error) {
	dc := gg.NewContext(histWidth, histHeight)
	dc.SetColor(backgroundColor)
	dc.Clear()

	maxCount := 0
	for _, count := range counts {
		if count > maxCount {
			maxCount = count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	plotWidth := float64(histWidth - histMargin*2)
	plotHeight := float64(histHeight - histMargin*2)
	barWidth := plotWidth / 24
	baseY := float64(histHeight - histMargin)

	dc.SetFontFace(r.titleFace)
	dc.SetColor(labelTextColor)
	dc.DrawStringAnchored("Distribution of Playing Time", histWidth/2, float64(histMargin)/2, 0.5, 0.5)

	// Horizontal guide lines.
	dc.SetFontFace(r.smallFace)
	for i := 0; i <= 4; i++ {
		y := baseY - plotHeight*float64(i)/4
		dc.SetColor(gridLineColor)
		dc.SetLineWidth(1)
		dc.DrawLine(histMargin, y, histWidth-histMargin, y)
		dc.Stroke()

		dc.SetColor(labelTextColor)
		label := fmt.Sprintf("%d", maxCount*i/4)
		dc.DrawStringAnchored(label, histMargin-10, y, 1, 0.35)
	}

	// Bars for every hour, including empty ones.
	for hour := 0; hour < 24; hour++ {
		count := counts[hour]
		if count > 0 {
			barHeight := plotHeight * float64(count) / float64(maxCount)
			x := float64(histMargin) + float64(hour)*barWidth
			dc.SetColor(histBarColor)
			dc.DrawRectangle(x+2, baseY-barHeight, barWidth-4, barHeight)
			dc.Fill()
		}

		// Tick labels every two hours.
		if hour%2 == 0 {
			x := float64(histMargin) + (float64(hour)+0.5)*barWidth
			dc.SetColor(labelTextColor)
			dc.DrawStringAnchored(fmt.Sprintf("%d", hour), x, baseY+14, 0.5, 0.5)
		}
	}

	dc.SetFontFace(r.bodyFace)
	dc.SetColor(labelTextColor)
	dc.DrawStringAnchored("Playing Time", histWidth/2, float64(histHeight)-18, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode histogram image: %w", err)
	}
	return buf.Bytes(), nil
}
