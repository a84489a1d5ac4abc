package tui

// Color constants for the control panel theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#16213E" // Dark navy
	ColorBorder         = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (titles, session rows)
	ColorSecondaryText = "#B1B8C7" // Secondary text
	ColorDisabledText  = "#6D7383" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (blurple theme)
	ColorAccentMain   = "#5865F2" // Logo, accent elements, active borders
	ColorAccentBright = "#7983F5" // Highlights

	// State Colors
	ColorError   = "#EF4444" // Errors
	ColorSuccess = "#22C55E" // Bot running
	ColorWarning = "#F59E0B" // Transitions
)
