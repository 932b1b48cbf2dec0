package ui

// Package ui contains the Fyne-based desktop user interface for the launcher.
// It shows the build catalog, starts acquisitions and renders their progress
// and outcome. All UI strings are localized via Localization.
