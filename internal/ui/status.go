package ui

import (
	"fmt"

	"github.com/ytget/launcher/internal/model"
)

// BuildStatus is what the UI knows about the latest acquisition of a build
type BuildStatus struct {
	State       model.AcquisitionState
	Current     int64
	Total       int64
	ArchivePath string
	InstanceDir string // known once an acquisition has succeeded
	Reason      string
}

// Apply returns the status after event
func (s BuildStatus) Apply(event model.AcquisitionEvent) BuildStatus {
	switch event.Kind {
	case model.EventProgress:
		return BuildStatus{State: model.StateFetching, Current: event.Current, Total: event.Total, InstanceDir: s.InstanceDir}
	case model.EventSucceeded:
		return BuildStatus{
			State:       model.StateSucceeded,
			Current:     s.Current,
			Total:       s.Total,
			ArchivePath: event.ArchivePath,
			InstanceDir: event.InstanceDir,
		}
	case model.EventFailed:
		return BuildStatus{State: model.StateFailed, Reason: event.Reason, InstanceDir: s.InstanceDir}
	default:
		return s
	}
}

// Progress returns the fraction shown by a progress bar
func (s BuildStatus) Progress() float64 {
	if s.State == model.StateSucceeded {
		return 1
	}
	if s.Total <= 0 {
		return 0
	}
	progress := float64(s.Current) / float64(s.Total)
	if progress > 1 {
		progress = 1
	}
	return progress
}

// Percent returns the progress as 0-100, or -1 when the size is unknown
func (s BuildStatus) Percent() int {
	if s.State == model.StateSucceeded {
		return 100
	}
	if s.Total <= 0 {
		return -1
	}
	percent := int(s.Current * 100 / s.Total)
	if percent > 100 {
		percent = 100
	}
	return percent
}

// Text renders the status line, e.g. "Downloading · 42%"
func (s BuildStatus) Text(l *Localization) string {
	state := l.StateText(s.State)
	switch s.State {
	case model.StateFetching:
		if percent := s.Percent(); percent >= 0 {
			return state + MiddleDotSeparator + fmt.Sprintf(ProgressLabelFormat, percent)
		}
		return state + MiddleDotSeparator + formatFileSize(s.Current)
	case model.StateFailed:
		if s.Reason != "" {
			return state + MiddleDotSeparator + s.Reason
		}
	}
	return state
}

// formatFileSize formats file size in bytes to human readable format
func formatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}
