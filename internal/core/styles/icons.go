package styles

// Severity glyphs.
var (
	IconSuccess = "✓"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconError   = "✗"
	IconClose   = "×"
)
