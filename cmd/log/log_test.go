package log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/groovepush/pkg/blobstore"
	"github.com/sidkik/groovepush/pkg/sync"
)

func TestLog(t *testing.T) {
	root := filepath.Join(t.TempDir(), "song")
	require.NoError(t, os.MkdirAll(root, 0755))

	store, err := blobstore.NewFSStore(afero.NewMemMapFs(), "/store")
	require.NoError(t, err)
	log, _ := test.NewNullLogger()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC))
	syncer := sync.NewSyncer(store, log, clock, 2)

	newSyncer = func(context.Context) (*sync.Syncer, error) { return syncer, nil }
	getWorkingDirectory = func() (string, error) { return root, nil }
	out := bytes.NewBuffer(nil)
	stdout = out

	require.NoError(t, run(context.Background(), "", 10))
	assert.Equal(t, "No history found for project \"song\".\n"+
		"Run `gp push` to create the first snapshot.\n", out.String())

	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.wav"), []byte("v1"), 0644))
	_, err = syncer.Push(ctx, root, sync.PushOptions{Message: "Intro"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.wav"), []byte("take"), 0644))
	_, err = syncer.Push(ctx, root, sync.PushOptions{})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, run(ctx, "song", 1))
	assert.Equal(t, "Project: song\n\n"+
		"snapshot 20240101T133000Z\n"+
		"Date:    2024-01-01 13:30:00 UTC\n"+
		"Files:   2 (1 changed)\n"+
		"Size:    6 B\n\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, "", 0))
	assert.Contains(t, out.String(), "snapshot 20240101T123000Z\nMessage: Intro\n")
}
