package model

import (
	"fmt"
	"time"
)

// AcquisitionRequest represents one fetch-then-extract run for a build
type AcquisitionRequest struct {
	ID          string           // request id for log correlation
	BuildID     string           // catalog id being acquired
	URL         string           // resolved download URL
	ArchivePath string           // where the archive is downloaded to
	InstanceDir string           // where the archive is extracted to
	State       AcquisitionState // current pipeline stage
	LastError   string           // failure reason, if any
	StartedAt   time.Time
	FinishedAt  time.Time
}

// EventKind distinguishes the notifications emitted for an acquisition
type EventKind string

const (
	EventProgress  EventKind = "progress"
	EventSucceeded EventKind = "succeeded"
	EventFailed    EventKind = "failed"
)

// AcquisitionEvent is a build-scoped progress or outcome notification
type AcquisitionEvent struct {
	BuildID     string
	Kind        EventKind
	Current     int64  // bytes transferred, progress only
	Total       int64  // total bytes or -1 if unknown, progress only
	ArchivePath string // success payload
	InstanceDir string // success payload: where the build was extracted
	Reason      string // failure reason
	Err         error  // failure cause
}

// IsTerminal returns true for success and failure events
func (e AcquisitionEvent) IsTerminal() bool {
	return e.Kind == EventSucceeded || e.Kind == EventFailed
}

// Percent returns progress as 0-100, or -1 when the total is unknown
func (e AcquisitionEvent) Percent() int {
	if e.Total <= 0 {
		return -1
	}
	percent := int(e.Current * 100 / e.Total)
	if percent > 100 {
		percent = 100
	}
	return percent
}

// String renders the event for logs and CLI output
func (e AcquisitionEvent) String() string {
	switch e.Kind {
	case EventProgress:
		if e.Total > 0 {
			return fmt.Sprintf("%s: %d/%d bytes (%d%%)", e.BuildID, e.Current, e.Total, e.Percent())
		}
		return fmt.Sprintf("%s: %d bytes", e.BuildID, e.Current)
	case EventSucceeded:
		return fmt.Sprintf("%s: done (%s)", e.BuildID, e.ArchivePath)
	case EventFailed:
		return fmt.Sprintf("%s: failed: %s", e.BuildID, e.Reason)
	default:
		return e.BuildID
	}
}

// TaskUpdate is sent by a background task over its update channel. A task
// sends zero or more progress updates, then exactly one update with Done set,
// then closes the channel.
type TaskUpdate struct {
	Current int64
	Total   int64
	Done    bool
	Err     error
}
