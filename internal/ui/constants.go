package ui

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconRefresh  = "⟳"
	IconFolder   = "📁"
	IconError    = "❌"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	StateLabelWidth   float32 = 96
	PercentLabelWidth float32 = 48

	RowMinWidth  float32 = 260
	RowMinHeight float32 = 48

	SettingsDialogWidth  float32 = 520
	SettingsDialogHeight float32 = 360
)

// File size formatting
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)
