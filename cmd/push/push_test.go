package push

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
	"github.com/sidkik/groovepush/pkg/sync"
)

func setup(t *testing.T) (string, *bytes.Buffer) {
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
	stderr = io.Discard
	return root, out
}

func TestPush(t *testing.T) {
	root, out := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.wav"), []byte("audio"), 0644))

	require.NoError(t, run(context.Background(), sync.PushOptions{DryRun: true}))
	assert.Equal(t, "Project: song\n"+
		"Files: 1 (5 B)\n"+
		"Changed files: 1\n\n"+
		"Dry run. The following files would be uploaded:\n"+
		"  a.wav\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), sync.PushOptions{Message: "Verse"}))
	assert.Equal(t, "Project: song\n"+
		"Files: 1 (5 B)\n"+
		"Changed files: 1\n"+
		"New blobs: 1\n\n"+
		"Snapshot: 20240101T123000Z\n"+
		"Message: Verse\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), sync.PushOptions{}))
	assert.Equal(t, "Project: song\n"+
		"Files: 1 (5 B)\n"+
		"No changes to push.\n", out.String())
}

func TestPushFlags(t *testing.T) {
	cmd := New()
	require.NoError(t, cmd.ParseFlags([]string{"-m", "Chorus", "--dry-run"}))

	msg, err := cmd.Flags().GetString("message")
	require.NoError(t, err)
	assert.Equal(t, "Chorus", msg)

	dryRun, err := cmd.Flags().GetBool("dry-run")
	require.NoError(t, err)
	assert.True(t, dryRun)
}
