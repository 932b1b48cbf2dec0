package acquire

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ytget/launcher/internal/config"
	"github.com/ytget/launcher/internal/download"
	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/model"
	"github.com/ytget/launcher/internal/platform"
)

// Failure reasons reported for requests that never start a task
var (
	ErrBuildNotFound  = errors.New("build not found")
	ErrNoDownloadURL  = errors.New("no download URL")
	ErrInProgress     = errors.New("acquisition already in progress")
	ErrInvalidBuildID = errors.New("invalid build id")
	ErrInstanceLocked = errors.New("instance is locked by another process")
	ErrNoResult       = errors.New("task ended without a result")
)

const (
	// DefaultArchiveExtension is used when the URL path carries no file name
	DefaultArchiveExtension = ".zip"
	LockFileSuffix          = ".lock"
	RequestIDPrefix         = "acquire-"
)

// Catalog resolves build ids to entries
type Catalog interface {
	Find(id string) (model.BuildEntry, bool)
}

// Orchestrator runs acquisitions: fetch the build archive, then extract it
// into <instances>/<id>
type Orchestrator struct {
	catalog  Catalog
	settings config.Provider
	paths    platform.PathProvider
	logger   logrus.FieldLogger

	fetch        FetchFunc
	extract      ExtractFunc
	downloadOpts []download.Option

	mu       sync.RWMutex
	requests map[string]*model.AcquisitionRequest // in flight, by build id
	wg       sync.WaitGroup

	callbackMu sync.RWMutex
	onUpdate   func(model.AcquisitionEvent) // callback for UI updates
}

// New creates an orchestrator. Without options it fetches over HTTP and
// extracts zip and tar archives.
func New(catalog Catalog, settings config.Provider, paths platform.PathProvider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:  catalog,
		settings: settings,
		paths:    paths,
		logger:   logging.Discard(),
		requests: make(map[string]*model.AcquisitionRequest),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.fetch == nil {
		o.fetch = DefaultFetchFunc(o.logger, o.downloadOpts...)
	}
	if o.extract == nil {
		o.extract = DefaultExtractFunc(o.logger)
	}
	return o
}

// SetUpdateCallback sets the function receiving every acquisition event.
// Events for one build id arrive in order and end with one terminal event.
func (o *Orchestrator) SetUpdateCallback(callback func(model.AcquisitionEvent)) {
	o.callbackMu.Lock()
	defer o.callbackMu.Unlock()
	o.onUpdate = callback
}

// Acquire starts fetching and extracting the build with the given id. It
// returns once the fetch task is started. Validation failures are emitted as
// a failure event and also returned. A second call for an id that is still in
// flight returns ErrInProgress and emits nothing.
func (o *Orchestrator) Acquire(id string) error {
	req := &model.AcquisitionRequest{
		ID:        generateRequestID(),
		BuildID:   id,
		State:     model.StateIdle,
		StartedAt: time.Now(),
	}

	o.mu.Lock()
	if _, exists := o.requests[id]; exists {
		o.mu.Unlock()
		return ErrInProgress
	}
	o.requests[id] = req
	req.State = model.StateResolving
	o.mu.Unlock()

	log := o.logger.WithFields(logrus.Fields{"build": id, "request": req.ID})

	entry, found := o.catalog.Find(id)
	if !found {
		o.fail(req, log, ErrBuildNotFound)
		return ErrBuildNotFound
	}
	if !entry.HasDownloadURL() {
		o.fail(req, log, ErrNoDownloadURL)
		return ErrNoDownloadURL
	}
	if !ValidBuildID(id) {
		o.fail(req, log, ErrInvalidBuildID)
		return ErrInvalidBuildID
	}

	downloadDir := o.resolveDir(o.settings.GetDownloadDirectory(), platform.DefaultDownloadsDir(o.paths), log)
	archivePath := filepath.Join(downloadDir, ArchiveName(entry.DownloadURL, id))

	o.mu.Lock()
	req.URL = entry.DownloadURL
	req.ArchivePath = archivePath
	o.mu.Unlock()

	if !o.transition(req, model.StateFetching, log) {
		err := fmt.Errorf("request %s: cannot start fetch", req.ID)
		o.fail(req, log, err)
		return err
	}
	log.WithFields(logrus.Fields{"url": req.URL, "archive": archivePath}).Info("acquisition started")

	updates := o.fetch(entry.DownloadURL, archivePath).Start()
	o.wg.Add(1)
	go o.run(req, updates, log)
	return nil
}

// run drives one request from Fetching to a terminal state
func (o *Orchestrator) run(req *model.AcquisitionRequest, fetchUpdates <-chan model.TaskUpdate, log *logrus.Entry) {
	defer o.wg.Done()

	fetchLog := log.WithField("stage", model.StateFetching.String())
	err := drain(fetchUpdates, func(update model.TaskUpdate) {
		o.emit(model.AcquisitionEvent{
			BuildID: req.BuildID,
			Kind:    model.EventProgress,
			Current: update.Current,
			Total:   update.Total,
		})
	})
	if err != nil {
		o.fail(req, fetchLog, err)
		return
	}
	fetchLog.Debug("fetch finished")

	root := o.resolveDir(o.settings.GetInstanceDirectory(), platform.DefaultInstancesDir(o.paths), log)
	target := filepath.Join(root, req.BuildID)
	if err := platform.CreateDirectoryIfNotExists(target); err != nil {
		o.fail(req, log, fmt.Errorf("failed to create instance directory: %w", err))
		return
	}

	o.mu.Lock()
	req.InstanceDir = target
	o.mu.Unlock()

	// the lock file stays next to the instance; removing it would race with
	// a process that has it open
	lock := flock.New(filepath.Join(root, req.BuildID+LockFileSuffix))
	locked, err := lock.TryLock()
	if err != nil {
		o.fail(req, log, fmt.Errorf("failed to lock instance: %w", err))
		return
	}
	if !locked {
		o.fail(req, log, ErrInstanceLocked)
		return
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.WithError(err).WithField("lock", lock.Path()).Warn("failed to release instance lock")
		}
	}()

	if !o.transition(req, model.StateExtracting, log) {
		o.fail(req, log, fmt.Errorf("request %s: cannot start extraction", req.ID))
		return
	}

	extractLog := log.WithFields(logrus.Fields{"stage": model.StateExtracting.String(), "target": target})
	// extraction reports no progress worth forwarding
	err = drain(o.extract(req.ArchivePath, target).Start(), func(model.TaskUpdate) {})
	if err != nil {
		o.fail(req, extractLog, err)
		return
	}

	o.finish(req, model.StateSucceeded, nil)
	extractLog.Info("acquisition finished")
	o.emit(model.AcquisitionEvent{
		BuildID:     req.BuildID,
		Kind:        model.EventSucceeded,
		ArchivePath: req.ArchivePath,
		InstanceDir: target,
	})
}

// drain forwards progress updates until the terminal one and returns its error
func drain(updates <-chan model.TaskUpdate, onProgress func(model.TaskUpdate)) error {
	for update := range updates {
		if update.Done {
			return update.Err
		}
		onProgress(update)
	}
	return ErrNoResult
}

// fail moves req to Failed and emits the failure event
func (o *Orchestrator) fail(req *model.AcquisitionRequest, log logrus.FieldLogger, err error) {
	o.finish(req, model.StateFailed, err)
	log.WithError(err).Warn("acquisition failed")
	o.emit(model.AcquisitionEvent{
		BuildID: req.BuildID,
		Kind:    model.EventFailed,
		Reason:  err.Error(),
		Err:     err,
	})
}

// finish records the terminal state and drops req from the in-flight set
// so the caller may retry from the terminal event's callback
func (o *Orchestrator) finish(req *model.AcquisitionRequest, state model.AcquisitionState, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	req.State = state
	req.FinishedAt = time.Now()
	if err != nil {
		req.LastError = err.Error()
	}
	if current, ok := o.requests[req.BuildID]; ok && current == req {
		delete(o.requests, req.BuildID)
	}
}

// transition advances req to the next state if the state machine allows it
func (o *Orchestrator) transition(req *model.AcquisitionRequest, to model.AcquisitionState, log logrus.FieldLogger) bool {
	o.mu.Lock()
	from := req.State
	allowed := from.CanTransition(to)
	if allowed {
		req.State = to
	}
	o.mu.Unlock()

	if !allowed {
		log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Error("invalid state transition")
	}
	return allowed
}

// resolveDir returns configured when it is set and can be created, otherwise
// fallback. The chosen directory is created if missing; a failure there is
// left for the task that writes into it to report.
func (o *Orchestrator) resolveDir(configured, fallback string, log logrus.FieldLogger) string {
	if configured != "" {
		err := platform.CreateDirectoryIfNotExists(configured)
		if err == nil {
			return configured
		}
		log.WithError(err).WithField("dir", configured).Warn("configured directory unusable, using fallback")
	}
	if err := platform.CreateDirectoryIfNotExists(fallback); err != nil {
		log.WithError(err).WithField("dir", fallback).Warn("failed to create directory")
	}
	return fallback
}

// Request returns a copy of the in-flight request for a build id
func (o *Orchestrator) Request(id string) (model.AcquisitionRequest, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	req, ok := o.requests[id]
	if !ok {
		return model.AcquisitionRequest{}, false
	}
	return *req, true
}

// Requests returns copies of all in-flight requests, oldest first
func (o *Orchestrator) Requests() []model.AcquisitionRequest {
	o.mu.RLock()
	result := make([]model.AcquisitionRequest, 0, len(o.requests))
	for _, req := range o.requests {
		result = append(result, *req)
	}
	o.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Wait blocks until every started request has emitted its terminal event
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// emit calls the update callback if set
func (o *Orchestrator) emit(event model.AcquisitionEvent) {
	o.callbackMu.RLock()
	callback := o.onUpdate
	o.callbackMu.RUnlock()
	if callback != nil {
		callback(event)
	}
}

// ValidBuildID reports whether id names exactly one directory below the
// instance root
func ValidBuildID(id string) bool {
	switch id {
	case "", ".", "..":
		return false
	}
	if strings.ContainsAny(id, `/\`) {
		return false
	}
	return filepath.IsLocal(id)
}

// InstanceDir returns where a build is extracted without creating anything:
// the configured root when it is an existing directory, otherwise the
// app-relative default
func InstanceDir(settings config.Provider, paths platform.PathProvider, id string) string {
	root := settings.GetInstanceDirectory()
	if root == "" || !platform.IsDirectory(root) {
		root = platform.DefaultInstancesDir(paths)
	}
	return filepath.Join(root, id)
}

// ArchiveName returns the last element of the URL path, or <id>.zip when the
// path names no file
func ArchiveName(rawURL, id string) string {
	u, err := url.Parse(rawURL)
	if err == nil && !strings.HasSuffix(u.Path, "/") {
		name := path.Base(u.Path)
		switch name {
		case "", ".", "/", "..":
		default:
			return filepath.Base(filepath.FromSlash(name))
		}
	}
	return id + DefaultArchiveExtension
}

// generateRequestID returns a time-ordered request id
func generateRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RequestIDPrefix+"%d", time.Now().UnixNano())
	}
	return RequestIDPrefix + id.String()
}
