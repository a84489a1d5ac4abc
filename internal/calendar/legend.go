package calendar

// Legend layout parameters for the weekly calendar image.
const (
	legendItemWidth     = 200
	legendPaddingTop    = 60
	legendPaddingBottom = 30
	legendItemHeight    = 35
	legendRowSpacing    = 15
	legendColorBoxSize  = 25
	legendTextOffsetX   = 35
	legendTextOffsetY   = 4
)

// legendLayout sizes the legend panel for a number of games. The canvas
// height depends on this, so it must be computed before the canvas is
// allocated.
type legendLayout struct {
	Height      int
	ItemsPerRow int
	RowHeight   int
}

func layoutLegend(gameCount, availableWidth int) legendLayout {
	itemsPerRow := availableWidth / legendItemWidth
	if itemsPerRow < 1 {
		itemsPerRow = 1
	}
	rows := (gameCount + itemsPerRow - 1) / itemsPerRow

	rowHeight := legendItemHeight + legendRowSpacing
	height := legendPaddingTop + rowHeight*rows - legendRowSpacing + legendPaddingBottom

	return legendLayout{
		Height:      height,
		ItemsPerRow: itemsPerRow,
		RowHeight:   rowHeight,
	}
}
