package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/model"
	"github.com/ytget/launcher/internal/platform"
)

// ErrAlreadyStarted is reported when Start is called twice on the same task
var ErrAlreadyStarted = errors.New("task already started")

// Task downloads one URL to one destination file
type Task struct {
	URL  string
	Dest string

	client    *http.Client
	userAgent string
	interval  time.Duration
	logger    logrus.FieldLogger
	started   atomic.Bool
}

// NewTask creates a fetch task. Nothing happens until Start is called.
func NewTask(url, dest string, opts ...Option) *Task {
	t := &Task{
		URL:       url,
		Dest:      dest,
		client:    http.DefaultClient,
		userAgent: DefaultUserAgent,
		interval:  DefaultProgressInterval,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins the transfer in the background. The returned channel carries
// progress updates followed by one terminal update, then is closed.
func (t *Task) Start() <-chan model.TaskUpdate {
	updates := make(chan model.TaskUpdate, 1)
	if !t.started.CompareAndSwap(false, true) {
		updates <- model.TaskUpdate{Done: true, Err: ErrAlreadyStarted}
		close(updates)
		return updates
	}

	go func() {
		defer close(updates)
		err := t.run(updates)
		updates <- model.TaskUpdate{Done: true, Err: err}
	}()
	return updates
}

// run performs the transfer, writing to Dest+".part" and renaming on success
func (t *Task) run(updates chan<- model.TaskUpdate) error {
	log := t.logger.WithField("url", t.URL)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, t.URL, nil)
	if err != nil {
		return fmt.Errorf("invalid download URL: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s : %s", t.URL, resp.Status)
	}

	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(t.Dest)); err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	partPath := t.Dest + PartialSuffix
	out, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", partPath, err)
	}

	total := resp.ContentLength
	log.WithField("total", total).Debug("transfer started")

	progress := &progressWriter{
		total:    total,
		interval: t.interval,
		updates:  updates,
	}
	_, copyErr := io.CopyBuffer(io.MultiWriter(out, progress), resp.Body, make([]byte, copyBufferSize))
	closeErr := out.Close()

	if copyErr == nil && total >= 0 && progress.current != total {
		copyErr = fmt.Errorf("transfer incomplete: got %d of %d bytes", progress.current, total)
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(partPath)
		return copyErr
	}

	progress.flush()

	if err := os.Rename(partPath, t.Dest); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("failed to move download into place: %w", err)
	}

	log.WithField("bytes", progress.current).Debug("transfer finished")
	return nil
}

// progressWriter counts bytes and emits throttled progress updates
type progressWriter struct {
	current  int64
	total    int64
	reported int64
	interval time.Duration
	last     time.Time
	updates  chan<- model.TaskUpdate
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.current += int64(len(b))
	if p.interval == 0 || time.Since(p.last) >= p.interval {
		p.flush()
	}
	return len(b), nil
}

// flush reports the current count unless it was already reported
func (p *progressWriter) flush() {
	if p.current == p.reported {
		return
	}
	p.reported = p.current
	p.last = time.Now()
	p.updates <- model.TaskUpdate{Current: p.current, Total: p.total}
}
