package calendar

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/hikarukin/gametrack/internal/models"
	"github.com/hikarukin/gametrack/internal/timeutil"
)

// Canvas geometry. The vertical axis maps minutes since midnight onto
// pixels at a fixed scale; the horizontal axis splits into seven equal
// day columns.
const (
	imgWidth        = 1200
	calendarHeight  = 830
	imgPadding      = 50
	imgMargin       = 60
	minutesPerPixel = 2

	gridTop  = imgMargin + 50
	dayWidth = (imgWidth - imgMargin*2) / 7

	labelMaxChars = 15
	minLabelBoxPx = 30
)

var (
	backgroundColor = color.RGBA{248, 250, 252, 255}
	gridLineColor   = color.RGBA{203, 213, 225, 255}
	labelTextColor  = color.RGBA{51, 65, 85, 255}
	hourBandColor   = color.RGBA{245, 247, 250, 255}
	saturdayColor   = color.RGBA{66, 153, 225, 255}
	sundayColor     = color.RGBA{236, 72, 153, 255}
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Renderer draws the weekly calendar and profile histogram images.
type Renderer struct {
	log       zerolog.Logger
	titleFace font.Face
	bodyFace  font.Face
	smallFace font.Face
}

// NewRenderer loads the embedded font and returns a ready renderer.
func NewRenderer(logger zerolog.Logger) (*Renderer, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	faces := make([]font.Face, 0, 3)
	for _, size := range []float64{24, 16, 14} {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create font face: %w", err)
		}
		faces = append(faces, face)
	}

	return &Renderer{
		log:       logger,
		titleFace: faces[0],
		bodyFace:  faces[1],
		smallFace: faces[2],
	}, nil
}

// sessionRect is one rectangle on the calendar grid: a day column and a
// minute span within it.
type sessionRect struct {
	day      int
	startMin int
	endMin   int
}

// sessionRects maps a session onto grid rectangles. A session that ends
// on a later calendar day splits into two: start to end-of-day in the
// start's column, midnight to end in the next column (wrapping past
// Sunday). A zero or inverted same-day span is stretched to one minute so
// a visible sliver is always drawn.
func sessionRects(s models.GameSession) []sessionRect {
	day := timeutil.WeekdayIndex(s.StartTime)
	startMin := s.StartTime.Hour()*60 + s.StartTime.Minute()
	endMin := s.EndTime.Hour()*60 + s.EndTime.Minute()

	sameDay := timeutil.Midnight(s.StartTime).Equal(timeutil.Midnight(s.EndTime))
	if !sameDay {
		return []sessionRect{
			{day: day, startMin: startMin, endMin: 24 * 60},
			{day: (day + 1) % 7, startMin: 0, endMin: endMin},
		}
	}

	if endMin <= startMin {
		endMin = startMin + 1
	}
	return []sessionRect{{day: day, startMin: startMin, endMin: endMin}}
}

// WeeklyImage renders the trailing week of sessions as a PNG calendar.
// A malformed session is skipped and logged; rendering continues.
func (r *Renderer) WeeklyImage(now time.Time, sessions []models.GameSession) ([]byte, error) {
	games := make([]string, 0)
	seen := make(map[string]struct{})
	for _, s := range sessions {
		if _, ok := seen[s.GameName]; !ok {
			seen[s.GameName] = struct{}{}
			games = append(games, s.GameName)
		}
	}
	colors := GameColors(games)

	legend := layoutLegend(len(colors), imgWidth-imgMargin*2-40)
	totalHeight := calendarHeight + imgPadding + legend.Height

	dc := gg.NewContext(imgWidth, totalHeight)
	dc.SetColor(backgroundColor)
	dc.Clear()

	// Title.
	year, week := now.ISOWeek()
	dc.SetFontFace(r.titleFace)
	dc.SetColor(labelTextColor)
	dc.DrawString(fmt.Sprintf("Gaming Activity - %d/%02d Week %d", year, int(now.Month()), week),
		imgMargin, 20+24)

	// Weekday headers, weekend tinted.
	dc.SetFontFace(r.bodyFace)
	for i, day := range weekdayNames {
		x := float64(imgMargin + i*dayWidth)
		dc.SetColor(labelTextColor)
		if i == 5 {
			dc.SetColor(saturdayColor)
		} else if i == 6 {
			dc.SetColor(sundayColor)
		}
		dc.DrawString(day, x+10, float64(imgMargin+10)+16)
	}

	// Hour bands, grid lines and time labels.
	dc.SetFontFace(r.smallFace)
	for hour := 0; hour <= 24; hour++ {
		y := float64(gridTop + hour*60/minutesPerPixel)
		if hour < 24 && hour%2 == 0 {
			dc.SetColor(hourBandColor)
			dc.DrawRectangle(imgMargin, y, imgWidth-imgMargin*2, 60/minutesPerPixel)
			dc.Fill()
		}
		dc.SetColor(gridLineColor)
		dc.SetLineWidth(2)
		dc.DrawLine(imgMargin, y, imgWidth-imgMargin, y)
		dc.Stroke()

		dc.SetColor(labelTextColor)
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hour), imgMargin-15, y, 1, 0.35)
	}
	for i := 0; i <= 7; i++ {
		x := float64(imgMargin + i*dayWidth)
		dc.SetColor(gridLineColor)
		dc.DrawLine(x, gridTop, x, calendarHeight)
		dc.Stroke()
	}

	// Session rectangles.
	for _, s := range sessions {
		if s.StartTime.IsZero() || s.EndTime.IsZero() {
			r.log.Warn().Str("game", s.GameName).Uint("id", s.ID).
				Msg("skipping session with malformed timestamps")
			continue
		}
		rects := sessionRects(s)
		for _, rect := range rects {
			x := float64(imgMargin + rect.day*dayWidth)
			startY := float64(gridTop + rect.startMin/minutesPerPixel)
			endY := float64(gridTop + rect.endMin/minutesPerPixel)

			dc.SetColor(colors[s.GameName])
			drawRoundedBox(dc, x+5, startY, x+float64(dayWidth)-5, endY, 5)

			// Label only uncut same-day boxes that are tall enough.
			if len(rects) == 1 && endY-startY > minLabelBoxPx {
				name := s.GameName
				if len(name) > labelMaxChars {
					name = name[:labelMaxChars] + "..."
				}
				dc.SetColor(labelTextColor)
				dc.DrawStringAnchored(name, x+10, (startY+endY)/2, 0, 0.35)
			}
		}
	}

	r.drawLegend(dc, colors, legend)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode calendar image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLegend paints the legend panel below the grid. The legend always
// shows untruncated game names.
func (r *Renderer) drawLegend(dc *gg.Context, colors map[string]color.Color, legend legendLayout) {
	legendY := float64(calendarHeight + imgPadding)

	dc.SetColor(color.White)
	drawRoundedBox(dc, imgMargin, legendY, imgWidth-imgMargin, legendY+float64(legend.Height), 10)

	dc.SetFontFace(r.bodyFace)
	dc.SetColor(labelTextColor)
	dc.DrawString("Game List", imgMargin+20, legendY+20+16)

	dc.SetFontFace(r.smallFace)
	for i, game := range sortedGames(colors) {
		row := i / legend.ItemsPerRow
		col := i % legend.ItemsPerRow

		x := float64(imgMargin + 30 + col*legendItemWidth)
		y := legendY + legendPaddingTop + float64(row*legend.RowHeight)

		dc.SetColor(colors[game])
		drawRoundedBox(dc, x, y, x+legendColorBoxSize, y+legendColorBoxSize, 3)

		dc.SetColor(labelTextColor)
		dc.DrawString(game, x+legendTextOffsetX, y+legendTextOffsetY+12)
	}
}

// drawRoundedBox fills a rounded rectangle given opposite corners. Boxes
// shorter than the corner diameter collapse to a centered 4px sliver so a
// tiny session still shows up.
func drawRoundedBox(dc *gg.Context, x1, y1, x2, y2, radius float64) {
	if y2-y1 < radius*2 {
		centerY := (y1 + y2) / 2
		dc.DrawRectangle(x1, centerY-2, x2-x1, 4)
		dc.Fill()
		return
	}
	dc.DrawRoundedRectangle(x1, y1, x2-x1, y2-y1, radius)
	dc.Fill()
}
