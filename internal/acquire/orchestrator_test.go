package acquire

import (
	"archive/zip"
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ytget/launcher/internal/catalog"
	"github.com/ytget/launcher/internal/config"
	"github.com/ytget/launcher/internal/download"
	"github.com/ytget/launcher/internal/model"
	"github.com/ytget/launcher/internal/platform"
)

type fakeCatalog []model.BuildEntry

func (c fakeCatalog) Find(id string) (model.BuildEntry, bool) {
	for _, entry := range c {
		if entry.ID == id {
			return entry, true
		}
	}
	return model.BuildEntry{}, false
}

// scriptedTask replays fixed updates, optionally after release is closed
type scriptedTask struct {
	updates []model.TaskUpdate
	release chan struct{}
}

func (s *scriptedTask) Start() <-chan model.TaskUpdate {
	ch := make(chan model.TaskUpdate)
	go func() {
		defer close(ch)
		if s.release != nil {
			<-s.release
		}
		for _, update := range s.updates {
			ch <- update
		}
	}()
	return ch
}

type taskCall struct {
	source string
	target string
}

// recorder builds task factories that log their calls
type recorder struct {
	mu       sync.Mutex
	fetches  []taskCall
	extracts []taskCall
	events   []model.AcquisitionEvent
}

func (r *recorder) fetchFunc(task Task) FetchFunc {
	return func(url, dest string) Task {
		r.mu.Lock()
		r.fetches = append(r.fetches, taskCall{source: url, target: dest})
		r.mu.Unlock()
		return task
	}
}

func (r *recorder) extractFunc(task Task) ExtractFunc {
	return func(archivePath, targetDir string) Task {
		r.mu.Lock()
		r.extracts = append(r.extracts, taskCall{source: archivePath, target: targetDir})
		r.mu.Unlock()
		return task
	}
}

func (r *recorder) record(event model.AcquisitionEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recorder) snapshot() ([]taskCall, []taskCall, []model.AcquisitionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]taskCall(nil), r.fetches...),
		append([]taskCall(nil), r.extracts...),
		append([]model.AcquisitionEvent(nil), r.events...)
}

func done(err error) model.TaskUpdate {
	return model.TaskUpdate{Done: true, Err: err}
}

var testCatalog = fakeCatalog{
	{ID: "vanilla", Name: "Vanilla", DownloadURL: "https://example.com/builds/vanilla-1.2.zip"},
	{ID: "nourl", Name: "No URL"},
	{ID: "bare", DownloadURL: "https://example.com/"},
}

func newTestOrchestrator(t *testing.T, fetch, extractTask Task) (*Orchestrator, *recorder, string) {
	t.Helper()
	appDir := t.TempDir()
	rec := &recorder{}
	o := New(testCatalog, config.Static{}, platform.FixedPaths(appDir),
		WithFetchFunc(rec.fetchFunc(fetch)),
		WithExtractFunc(rec.extractFunc(extractTask)),
	)
	o.SetUpdateCallback(rec.record)
	return o, rec, appDir
}

func TestAcquire_UnknownBuild(t *testing.T) {
	o, rec, _ := newTestOrchestrator(t, &scriptedTask{}, &scriptedTask{})

	err := o.Acquire("nonexistent")
	require.ErrorIs(t, err, ErrBuildNotFound)
	o.Wait()

	fetches, extracts, events := rec.snapshot()
	assert.Empty(t, fetches)
	assert.Empty(t, extracts)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventFailed, events[0].Kind)
	assert.Equal(t, "build not found", events[0].Reason)
	assert.Equal(t, "nonexistent", events[0].BuildID)
	assert.Empty(t, o.Requests())
}

func TestAcquire_MissingURL(t *testing.T) {
	o, rec, _ := newTestOrchestrator(t, &scriptedTask{}, &scriptedTask{})

	err := o.Acquire("nourl")
	require.ErrorIs(t, err, ErrNoDownloadURL)

	// the failure is emitted before Acquire returns
	fetches, extracts, events := rec.snapshot()
	assert.Empty(t, fetches)
	assert.Empty(t, extracts)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventFailed, events[0].Kind)
	assert.Equal(t, "no download URL", events[0].Reason)
}

func TestAcquire_HappyPath(t *testing.T) {
	fetch := &scriptedTask{updates: []model.TaskUpdate{
		{Current: 10, Total: 30},
		{Current: 20, Total: 30},
		{Current: 30, Total: 30},
		done(nil),
	}}
	o, rec, appDir := newTestOrchestrator(t, fetch, &scriptedTask{updates: []model.TaskUpdate{done(nil)}})

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	archive := filepath.Join(appDir, platform.DownloadsDirName, "vanilla-1.2.zip")
	instance := filepath.Join(appDir, platform.InstancesDirName, "vanilla")

	fetches, extracts, events := rec.snapshot()
	require.Len(t, fetches, 1)
	assert.Equal(t, taskCall{source: "https://example.com/builds/vanilla-1.2.zip", target: archive}, fetches[0])
	require.Len(t, extracts, 1)
	assert.Equal(t, taskCall{source: archive, target: instance}, extracts[0])

	require.Len(t, events, 4)
	var last int64
	for _, event := range events[:3] {
		assert.Equal(t, model.EventProgress, event.Kind)
		assert.GreaterOrEqual(t, event.Current, last)
		assert.Equal(t, int64(30), event.Total)
		last = event.Current
	}
	assert.Equal(t, model.EventSucceeded, events[3].Kind)
	assert.Equal(t, archive, events[3].ArchivePath)
	assert.Equal(t, instance, events[3].InstanceDir)

	assert.True(t, platform.IsDirectory(instance))
	assert.True(t, platform.IsDirectory(filepath.Join(appDir, platform.DownloadsDirName)))
	assert.Empty(t, o.Requests())

	// the instance lock is released once the request finishes
	lock := flock.New(filepath.Join(appDir, platform.InstancesDirName, "vanilla"+LockFileSuffix))
	locked, err := lock.TryLock()
	require.NoError(t, err)
	assert.True(t, locked)
	require.NoError(t, lock.Unlock())
}

func TestAcquire_UnsafeBuildID(t *testing.T) {
	ids := []string{"../../escaped", "../x", "", ".", "..", "a/..", "nested/build", `a\b`}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			base := t.TempDir()
			appDir := filepath.Join(base, "app")
			rec := &recorder{}
			o := New(fakeCatalog{{ID: id, DownloadURL: "https://example.com/a.zip"}}, config.Static{}, platform.FixedPaths(appDir),
				WithFetchFunc(rec.fetchFunc(&scriptedTask{updates: []model.TaskUpdate{done(nil)}})),
				WithExtractFunc(rec.extractFunc(&scriptedTask{updates: []model.TaskUpdate{done(nil)}})),
			)
			o.SetUpdateCallback(rec.record)

			err := o.Acquire(id)
			require.ErrorIs(t, err, ErrInvalidBuildID)
			o.Wait()

			fetches, extracts, events := rec.snapshot()
			assert.Empty(t, fetches)
			assert.Empty(t, extracts)
			require.Len(t, events, 1)
			assert.Equal(t, model.EventFailed, events[0].Kind)
			assert.Equal(t, "invalid build id", events[0].Reason)
			assert.Empty(t, o.Requests())
			assert.NoDirExists(t, filepath.Join(base, "escaped"))
			assert.NoDirExists(t, filepath.Join(appDir, platform.InstancesDirName))
		})
	}
}

func TestValidBuildID(t *testing.T) {
	tests := []struct {
		id       string
		expected bool
	}{
		{"vanilla", true},
		{"build-1.2_rc", true},
		{"..hidden", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../x", false},
		{"a/..", false},
		{"a/b", false},
		{`a\b`, false},
		{"/abs", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidBuildID(tt.id))
		})
	}
}

func TestInstanceDir(t *testing.T) {
	appDir := t.TempDir()
	configured := t.TempDir()
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	fallback := filepath.Join(appDir, platform.InstancesDirName, "vanilla")

	paths := platform.FixedPaths(appDir)
	assert.Equal(t, filepath.Join(configured, "vanilla"), InstanceDir(config.Static{InstanceDir: configured}, paths, "vanilla"))
	assert.Equal(t, fallback, InstanceDir(config.Static{InstanceDir: blocker}, paths, "vanilla"))
	assert.Equal(t, fallback, InstanceDir(config.Static{}, paths, "vanilla"))
}

func TestAcquire_FetchFailure(t *testing.T) {
	fetch := &scriptedTask{updates: []model.TaskUpdate{
		{Current: 5, Total: 100},
		done(errors.New("network unreachable")),
	}}
	o, rec, appDir := newTestOrchestrator(t, fetch, &scriptedTask{updates: []model.TaskUpdate{done(nil)}})

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	_, extracts, events := rec.snapshot()
	assert.Empty(t, extracts)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventProgress, events[0].Kind)
	assert.Equal(t, model.EventFailed, events[1].Kind)
	assert.Equal(t, "network unreachable", events[1].Reason)
	assert.False(t, platform.IsDirectory(filepath.Join(appDir, platform.InstancesDirName, "vanilla")))
}

func TestAcquire_ExtractFailure(t *testing.T) {
	o, rec, _ := newTestOrchestrator(t,
		&scriptedTask{updates: []model.TaskUpdate{done(nil)}},
		&scriptedTask{updates: []model.TaskUpdate{done(errors.New("zip: not a valid zip file"))}},
	)

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	_, extracts, events := rec.snapshot()
	assert.Len(t, extracts, 1)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventFailed, events[0].Kind)
	assert.Equal(t, "zip: not a valid zip file", events[0].Reason)
}

func TestAcquire_TaskWithoutResult(t *testing.T) {
	o, rec, _ := newTestOrchestrator(t,
		&scriptedTask{updates: []model.TaskUpdate{{Current: 1, Total: -1}}},
		&scriptedTask{updates: []model.TaskUpdate{done(nil)}},
	)

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	_, extracts, events := rec.snapshot()
	assert.Empty(t, extracts)
	require.Len(t, events, 2)
	assert.ErrorIs(t, events[1].Err, ErrNoResult)
}

func TestAcquire_FallbackArchiveName(t *testing.T) {
	o, rec, appDir := newTestOrchestrator(t,
		&scriptedTask{updates: []model.TaskUpdate{done(nil)}},
		&scriptedTask{updates: []model.TaskUpdate{done(nil)}},
	)

	require.NoError(t, o.Acquire("bare"))
	o.Wait()

	fetches, _, _ := rec.snapshot()
	require.Len(t, fetches, 1)
	assert.Equal(t, filepath.Join(appDir, platform.DownloadsDirName, "bare.zip"), fetches[0].target)
}

func TestAcquire_DuplicateInFlight(t *testing.T) {
	release := make(chan struct{})
	fetch := &scriptedTask{updates: []model.TaskUpdate{done(nil)}, release: release}
	o, rec, _ := newTestOrchestrator(t, fetch, &scriptedTask{updates: []model.TaskUpdate{done(nil)}})

	require.NoError(t, o.Acquire("vanilla"))

	requests := o.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "vanilla", requests[0].BuildID)
	assert.Equal(t, model.StateFetching, requests[0].State)
	assert.NotEmpty(t, requests[0].ID)

	assert.ErrorIs(t, o.Acquire("vanilla"), ErrInProgress)
	_, _, events := rec.snapshot()
	assert.Empty(t, events)

	close(release)
	o.Wait()

	fetches, _, events := rec.snapshot()
	assert.Len(t, fetches, 1)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventSucceeded, events[0].Kind)

	_, inFlight := o.Request("vanilla")
	assert.False(t, inFlight)
}

func TestAcquire_RetryFromTerminalEvent(t *testing.T) {
	o, rec, _ := newTestOrchestrator(t,
		&scriptedTask{updates: []model.TaskUpdate{done(errors.New("timeout"))}},
		&scriptedTask{updates: []model.TaskUpdate{done(nil)}},
	)

	var retried atomic.Bool
	var retryErr error
	o.SetUpdateCallback(func(event model.AcquisitionEvent) {
		rec.record(event)
		if event.Kind == model.EventFailed && retried.CompareAndSwap(false, true) {
			retryErr = o.Acquire(event.BuildID)
		}
	})

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	assert.NoError(t, retryErr)
	fetches, _, events := rec.snapshot()
	assert.Len(t, fetches, 2)
	assert.Len(t, events, 2)
}

func TestAcquire_InstanceLocked(t *testing.T) {
	o, rec, appDir := newTestOrchestrator(t,
		&scriptedTask{updates: []model.TaskUpdate{done(nil)}},
		&scriptedTask{updates: []model.TaskUpdate{done(nil)}},
	)

	root := filepath.Join(appDir, platform.InstancesDirName)
	require.NoError(t, os.MkdirAll(root, 0755))
	held := flock.New(filepath.Join(root, "vanilla"+LockFileSuffix))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	_, extracts, events := rec.snapshot()
	assert.Empty(t, extracts)
	require.Len(t, events, 1)
	assert.Equal(t, "instance is locked by another process", events[0].Reason)
}

func TestAcquire_ConfiguredDirectories(t *testing.T) {
	base := t.TempDir()
	downloads := filepath.Join(base, "dl")
	instances := filepath.Join(base, "inst")
	rec := &recorder{}
	o := New(testCatalog, config.Static{DownloadDir: downloads, InstanceDir: instances}, platform.FixedPaths(t.TempDir()),
		WithFetchFunc(rec.fetchFunc(&scriptedTask{updates: []model.TaskUpdate{done(nil)}})),
		WithExtractFunc(rec.extractFunc(&scriptedTask{updates: []model.TaskUpdate{done(nil)}})),
	)

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	fetches, extracts, _ := rec.snapshot()
	require.Len(t, fetches, 1)
	assert.Equal(t, filepath.Join(downloads, "vanilla-1.2.zip"), fetches[0].target)
	require.Len(t, extracts, 1)
	assert.Equal(t, filepath.Join(instances, "vanilla"), extracts[0].target)
	assert.True(t, platform.IsDirectory(filepath.Join(instances, "vanilla")))
}

func TestAcquire_UnusableConfiguredDirectoryFallsBack(t *testing.T) {
	appDir := t.TempDir()
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	rec := &recorder{}
	o := New(testCatalog, config.Static{DownloadDir: blocker, InstanceDir: blocker}, platform.FixedPaths(appDir),
		WithFetchFunc(rec.fetchFunc(&scriptedTask{updates: []model.TaskUpdate{done(nil)}})),
		WithExtractFunc(rec.extractFunc(&scriptedTask{updates: []model.TaskUpdate{done(nil)}})),
	)

	require.NoError(t, o.Acquire("vanilla"))
	o.Wait()

	fetches, extracts, _ := rec.snapshot()
	require.Len(t, fetches, 1)
	assert.Equal(t, filepath.Join(appDir, platform.DownloadsDirName, "vanilla-1.2.zip"), fetches[0].target)
	require.Len(t, extracts, 1)
	assert.Equal(t, filepath.Join(appDir, platform.InstancesDirName, "vanilla"), extracts[0].target)
}

func TestAcquire_ProgressForwardedVerbatim(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.Int64Range(-1, 1<<30).Draw(rt, "total")
		steps := rapid.SliceOfN(rapid.Int64Range(0, 1<<20), 0, 20).Draw(rt, "steps")
		fail := rapid.Bool().Draw(rt, "fail")

		var updates []model.TaskUpdate
		var current int64
		for _, step := range steps {
			current += step
			updates = append(updates, model.TaskUpdate{Current: current, Total: total})
		}
		var fetchErr error
		if fail {
			fetchErr = errors.New("connection reset")
		}
		updates = append(updates, done(fetchErr))

		o, rec, _ := newTestOrchestrator(t, &scriptedTask{updates: updates}, &scriptedTask{updates: []model.TaskUpdate{done(nil)}})
		if err := o.Acquire("vanilla"); err != nil {
			rt.Fatalf("acquire: %v", err)
		}
		o.Wait()

		_, extracts, events := rec.snapshot()
		if len(events) != len(steps)+1 {
			rt.Fatalf("got %d events, want %d", len(events), len(steps)+1)
		}
		for i, event := range events[:len(steps)] {
			if event.Kind != model.EventProgress || event.Current != updates[i].Current || event.Total != total {
				rt.Fatalf("event %d = %+v, want progress %d/%d", i, event, updates[i].Current, total)
			}
		}
		terminal := events[len(events)-1]
		if fail {
			if terminal.Kind != model.EventFailed || len(extracts) != 0 {
				rt.Fatalf("expected failure without extraction, got %+v and %d extractions", terminal, len(extracts))
			}
		} else if terminal.Kind != model.EventSucceeded {
			rt.Fatalf("expected success, got %+v", terminal)
		}
	})
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://example.com/files/build-1.zip", "build-1.zip"},
		{"https://example.com/a/b/pack.tar.gz?token=abc", "pack.tar.gz"},
		{"https://example.com/files/my%20build.zip", "my build.zip"},
		{"https://example.com/", "id.zip"},
		{"https://example.com/builds/", "id.zip"},
		{"https://example.com", "id.zip"},
		{"https://example.com/..", "id.zip"},
		{"::not a url", "id.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArchiveName(tt.url, "id"))
		})
	}
}

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestAcquire_EndToEnd(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"mods/a.jar":  "aaaa",
		"options.txt": "fov=90",
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/builds/modded.zip" {
			http.NotFound(w, r)
			return
		}
		w.Write(archive)
	}))
	defer server.Close()

	appDir := filepath.Join(t.TempDir(), "bin")
	require.NoError(t, os.MkdirAll(appDir, 0755))
	document := `[
		{"id": "modded", "name": "Modded", "download_url": "` + server.URL + `/builds/modded.zip"},
		{"id": "gone", "download_url": "` + server.URL + `/builds/gone.zip"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "..", platform.CatalogFileName), []byte(document), 0644))

	paths := platform.FixedPaths(appDir)
	store := catalog.NewStore(paths, nil)
	store.Reload("")
	require.Equal(t, 2, store.Len())

	rec := &recorder{}
	o := New(store, config.Static{}, paths, WithDownloadOptions(download.WithProgressInterval(0)))
	o.SetUpdateCallback(rec.record)

	require.NoError(t, o.Acquire("modded"))
	require.NoError(t, o.Acquire("gone"))

	waited := make(chan struct{})
	go func() {
		o.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for acquisitions")
	}

	_, _, events := rec.snapshot()
	byBuild := map[string][]model.AcquisitionEvent{}
	for _, event := range events {
		byBuild[event.BuildID] = append(byBuild[event.BuildID], event)
	}

	modded := byBuild["modded"]
	require.NotEmpty(t, modded)
	final := modded[len(modded)-1]
	require.Equal(t, model.EventSucceeded, final.Kind, final.Reason)
	assert.Equal(t, filepath.Join(appDir, platform.DownloadsDirName, "modded.zip"), final.ArchivePath)
	for _, event := range modded[:len(modded)-1] {
		assert.Equal(t, model.EventProgress, event.Kind)
		assert.Equal(t, int64(len(archive)), event.Total)
	}

	data, err := os.ReadFile(filepath.Join(appDir, platform.InstancesDirName, "modded", "options.txt"))
	require.NoError(t, err)
	assert.Equal(t, "fov=90", string(data))

	gone := byBuild["gone"]
	require.Len(t, gone, 1)
	assert.Equal(t, model.EventFailed, gone[0].Kind)
	assert.Contains(t, gone[0].Reason, "404")
}
