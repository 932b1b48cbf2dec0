package extract

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/model"
)

// ErrAlreadyStarted is reported when Start is called twice on the same task
var ErrAlreadyStarted = errors.New("task already started")

// Task extracts one archive into one directory
type Task struct {
	ArchivePath string
	TargetDir   string

	logger  logrus.FieldLogger
	started atomic.Bool
}

// NewTask creates an extraction task. Nothing happens until Start is called.
func NewTask(archivePath, targetDir string, logger logrus.FieldLogger) *Task {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Task{
		ArchivePath: archivePath,
		TargetDir:   targetDir,
		logger:      logger,
	}
}

// Start begins extraction in the background. The returned channel carries a
// single terminal update and is then closed.
func (t *Task) Start() <-chan model.TaskUpdate {
	updates := make(chan model.TaskUpdate, 1)
	if !t.started.CompareAndSwap(false, true) {
		updates <- model.TaskUpdate{Done: true, Err: ErrAlreadyStarted}
		close(updates)
		return updates
	}

	go func() {
		defer close(updates)
		log := t.logger.WithField("archive", t.ArchivePath)

		startedAt := time.Now()
		files, err := Extract(t.ArchivePath, t.TargetDir, log)
		if err != nil {
			log.WithError(err).Debug("extraction failed")
		} else {
			log.WithFields(logrus.Fields{
				"files":    files,
				"duration": time.Since(startedAt).Round(time.Millisecond),
			}).Debug("extraction finished")
		}
		updates <- model.TaskUpdate{Done: true, Err: err}
	}()
	return updates
}
