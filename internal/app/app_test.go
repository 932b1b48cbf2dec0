package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/launcher/internal/acquire"
	"github.com/ytget/launcher/internal/config"
	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/model"
	"github.com/ytget/launcher/internal/platform"
)

type doneTask struct{}

func (doneTask) Start() <-chan model.TaskUpdate {
	ch := make(chan model.TaskUpdate, 1)
	ch <- model.TaskUpdate{Done: true}
	close(ch)
	return ch
}

func TestNew_AcquirerResolvesAgainstCatalog(t *testing.T) {
	appDir := t.TempDir()
	catalogPath := filepath.Join(t.TempDir(), "builds.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`[{"id": "a", "download_url": "https://example.com/a.zip"}]`), 0644))

	var fetched []string
	ctx := New(config.Static{}, platform.FixedPaths(appDir), logging.Discard(),
		acquire.WithFetchFunc(func(url, dest string) acquire.Task {
			fetched = append(fetched, url)
			return doneTask{}
		}),
		acquire.WithExtractFunc(func(string, string) acquire.Task { return doneTask{} }),
	)

	var events []model.AcquisitionEvent
	ctx.Acquirer.SetUpdateCallback(func(event model.AcquisitionEvent) {
		events = append(events, event)
	})

	// Nothing loaded yet
	assert.ErrorIs(t, ctx.Acquirer.Acquire("a"), acquire.ErrBuildNotFound)

	ctx.Catalog.Reload(catalogPath)
	require.NoError(t, ctx.Acquirer.Acquire("a"))
	ctx.Acquirer.Wait()

	assert.Equal(t, []string{"https://example.com/a.zip"}, fetched)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventFailed, events[0].Kind)
	assert.Equal(t, model.EventSucceeded, events[1].Kind)
}
