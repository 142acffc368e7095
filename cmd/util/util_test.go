package util

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/groovepush/pkg/blobstore"
	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

func mockExit(t *testing.T) (*bytes.Buffer, *int) {
	out := bytes.NewBuffer(nil)
	code := -1
	stderr = out
	exit = func(c int) { code = c }
	return out, &code
}

func TestHandleFatalError(t *testing.T) {
	out, code := mockExit(t)
	HandleFatalError(errors.WithContext(errors.New("connection refused"), "upload"))
	assert.Equal(t, 1, *code)
	assert.Equal(t, "upload: connection refused\n", out.String())

	out, code = mockExit(t)
	HandleFatalError(errors.NewFriendlyError("Project not found."))
	assert.Equal(t, 1, *code)
	assert.Equal(t, "Project not found.\n", out.String())
}

func TestHandlePanic(t *testing.T) {
	out, code := mockExit(t)
	func() {
		defer HandlePanic()
		panic("boom")
	}()
	assert.Equal(t, 1, *code)
	assert.Contains(t, out.String(), "boom")
}

func TestNewSyncer(t *testing.T) {
	var storeConfig config.Store
	parseUserConfig = func() (config.User, error) {
		return config.User{
			Store:       config.Store{Type: config.StoreTypeFS, Path: "/store"},
			Concurrency: 2,
		}, nil
	}
	newStore = func(_ context.Context, cfg config.Store) (blobstore.Store, error) {
		storeConfig = cfg
		return nil, nil
	}

	syncer, err := NewSyncer(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, syncer)
	assert.Equal(t, "/store", storeConfig.Path)

	parseUserConfig = func() (config.User, error) {
		return config.User{}, errors.New("bad config")
	}
	_, err = NewSyncer(context.Background())
	assert.Error(t, err)
}

func TestProgressPrinter(t *testing.T) {
	out := bytes.NewBuffer(nil)
	pp := NewProgressPrinter(out, "Uploading")
	pp.interval = 10 * time.Millisecond

	go pp.Run()
	time.Sleep(35 * time.Millisecond)
	pp.Stop()

	assert.Regexp(t, `^Uploading\.+\n$`, out.String())
}
