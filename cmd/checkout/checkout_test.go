package checkout

import (
	"bytes"
	"context"
	"io"
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
	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/sync"
)

func TestCheckout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "song")
	require.NoError(t, os.MkdirAll(root, 0755))

	store, err := blobstore.NewFSStore(afero.NewMemMapFs(), "/store")
	require.NoError(t, err)
	log, _ := test.NewNullLogger()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	syncer := sync.NewSyncer(store, log, clock, 2)

	newSyncer = func(context.Context) (*sync.Syncer, error) { return syncer, nil }
	getWorkingDirectory = func() (string, error) { return root, nil }
	out := bytes.NewBuffer(nil)
	stdout = out
	stderr = io.Discard

	ctx := context.Background()
	err = run(ctx, "2024", "")
	assert.Equal(t, "No history found for project \"song\".", errors.GetPrintableMessage(err))

	wavPath := filepath.Join(root, "Audio", "a.wav")
	require.NoError(t, os.MkdirAll(filepath.Dir(wavPath), 0755))
	require.NoError(t, os.WriteFile(wavPath, []byte("v1"), 0644))
	_, err = syncer.Push(ctx, root, sync.PushOptions{Message: "First"})
	require.NoError(t, err)

	clock.Advance(time.Second)
	require.NoError(t, os.WriteFile(wavPath, []byte("v2"), 0644))
	_, err = syncer.Push(ctx, root, sync.PushOptions{})
	require.NoError(t, err)

	err = run(ctx, "2023", "")
	assert.Equal(t, "Snapshot not found: 2023", errors.GetPrintableMessage(err))

	require.NoError(t, run(ctx, "20240101T000000Z", ""))
	contents, err := os.ReadFile(wavPath)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(contents))

	resolvedRoot, err := sync.CanonicalRoot(root)
	require.NoError(t, err)
	assert.Equal(t, "Restored snapshot: 20240101T000000Z\n"+
		"Message: First\n"+
		"Files: 1\n"+
		"Directory: "+resolvedRoot+"\n", out.String())
}
