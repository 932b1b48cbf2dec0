package acquire

import (
	"github.com/sirupsen/logrus"

	"github.com/ytget/launcher/internal/download"
	"github.com/ytget/launcher/internal/extract"
	"github.com/ytget/launcher/internal/model"
)

// Task is a one-shot background operation reporting over a channel. It sends
// zero or more progress updates, then one update with Done set, then closes.
type Task interface {
	Start() <-chan model.TaskUpdate
}

// FetchFunc creates the task that downloads url to dest
type FetchFunc func(url, dest string) Task

// ExtractFunc creates the task that unpacks archivePath into targetDir
type ExtractFunc func(archivePath, targetDir string) Task

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithFetchFunc replaces the HTTP fetch task factory
func WithFetchFunc(fn FetchFunc) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.fetch = fn
		}
	}
}

// WithExtractFunc replaces the archive extraction task factory
func WithExtractFunc(fn ExtractFunc) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.extract = fn
		}
	}
}

// WithLogger sets the logger used by the orchestrator and its default tasks
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDownloadOptions passes options to every default fetch task
func WithDownloadOptions(opts ...download.Option) Option {
	return func(o *Orchestrator) {
		o.downloadOpts = append(o.downloadOpts, opts...)
	}
}

// DefaultFetchFunc creates HTTP fetch tasks
func DefaultFetchFunc(logger logrus.FieldLogger, opts ...download.Option) FetchFunc {
	return func(url, dest string) Task {
		taskOpts := append([]download.Option{download.WithLogger(logger)}, opts...)
		return download.NewTask(url, dest, taskOpts...)
	}
}

// DefaultExtractFunc creates zip/tar extraction tasks
func DefaultExtractFunc(logger logrus.FieldLogger) ExtractFunc {
	return func(archivePath, targetDir string) Task {
		return extract.NewTask(archivePath, targetDir, logger)
	}
}
