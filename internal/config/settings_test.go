package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Unset means fallback, so nothing is invented here
	if dir := settings.GetDownloadDirectory(); dir != "" {
		t.Errorf("Expected empty download directory by default, got %s", dir)
	}

	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}

	settings.SetDownloadDirectory("   ")
	if dir := settings.GetDownloadDirectory(); dir != "" {
		t.Errorf("Expected blank value to clear the setting, got %q", dir)
	}
}

func TestInstanceDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if dir := settings.GetInstanceDirectory(); dir != "" {
		t.Errorf("Expected empty instance directory by default, got %s", dir)
	}

	settings.SetInstanceDirectory(" /games/instances ")
	if dir := settings.GetInstanceDirectory(); dir != "/games/instances" {
		t.Errorf("Expected trimmed instance directory, got %q", dir)
	}
}

func TestCatalogPath(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if path := settings.GetCatalogPath(); path != "" {
		t.Errorf("Expected empty catalog path by default, got %s", path)
	}

	settings.SetCatalogPath("/srv/builds.json")
	if path := settings.GetCatalogPath(); path != "/srv/builds.json" {
		t.Errorf("Expected catalog path /srv/builds.json, got %s", path)
	}
}

func TestDebugLogging(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetDebugLogging() != DefaultDebugLogging {
		t.Errorf("Expected default debug logging %v", DefaultDebugLogging)
	}

	settings.SetDebugLogging(true)
	if !settings.GetDebugLogging() {
		t.Error("Expected debug logging to be enabled")
	}
}

func TestStatic(t *testing.T) {
	var provider Provider = Static{DownloadDir: "/d", InstanceDir: "/i"}

	if provider.GetDownloadDirectory() != "/d" {
		t.Errorf("Expected /d, got %s", provider.GetDownloadDirectory())
	}
	if provider.GetInstanceDirectory() != "/i" {
		t.Errorf("Expected /i, got %s", provider.GetInstanceDirectory())
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if lang := settings.GetLanguage(); lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("ru")
	if lang := settings.GetLanguage(); lang != "ru" {
		t.Errorf("Expected language ru, got %s", lang)
	}
}
