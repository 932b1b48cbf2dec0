package config

import (
	"strings"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir  = "download_directory"
	KeyInstanceDir  = "instance_directory"
	KeyCatalogPath  = "catalog_path"
	KeyDebugLogging = "debug_logging"
	KeyLanguage     = "language"
)

// Default values
const (
	DefaultDebugLogging = false
	DefaultLanguage     = "en"
)

// Provider exposes the directory settings consumed by the acquisition
// pipeline. Empty values are valid and mean "use the fallback location".
type Provider interface {
	GetDownloadDirectory() string
	GetInstanceDirectory() string
}

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory, or ""
func (s *Settings) GetDownloadDirectory() string {
	return strings.TrimSpace(s.app.Preferences().String(KeyDownloadDir))
}

// SetDownloadDirectory sets the download directory; "" restores the fallback
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, strings.TrimSpace(dir))
}

// GetInstanceDirectory returns the configured instance root, or ""
func (s *Settings) GetInstanceDirectory() string {
	return strings.TrimSpace(s.app.Preferences().String(KeyInstanceDir))
}

// SetInstanceDirectory sets the instance root; "" restores the fallback
func (s *Settings) SetInstanceDirectory(dir string) {
	s.app.Preferences().SetString(KeyInstanceDir, strings.TrimSpace(dir))
}

// GetCatalogPath returns the explicit catalog document path, or ""
func (s *Settings) GetCatalogPath() string {
	return strings.TrimSpace(s.app.Preferences().String(KeyCatalogPath))
}

// SetCatalogPath sets the catalog document path
func (s *Settings) SetCatalogPath(path string) {
	s.app.Preferences().SetString(KeyCatalogPath, strings.TrimSpace(path))
}

// GetDebugLogging returns whether debug logging is enabled
func (s *Settings) GetDebugLogging() bool {
	return s.app.Preferences().BoolWithFallback(KeyDebugLogging, DefaultDebugLogging)
}

// SetDebugLogging enables or disables debug logging
func (s *Settings) SetDebugLogging(enabled bool) {
	s.app.Preferences().SetBool(KeyDebugLogging, enabled)
}

// GetLanguage returns the UI language code
func (s *Settings) GetLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyLanguage, DefaultLanguage)
}

// SetLanguage sets the UI language code
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// Static is a Provider with fixed values, used by the command line tool
type Static struct {
	DownloadDir string
	InstanceDir string
}

// GetDownloadDirectory returns the fixed download directory
func (s Static) GetDownloadDirectory() string {
	return s.DownloadDir
}

// GetInstanceDirectory returns the fixed instance root
func (s Static) GetInstanceDirectory() string {
	return s.InstanceDir
}

var (
	_ Provider = (*Settings)(nil)
	_ Provider = Static{}
)
