package status

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/groovepush/pkg/blobstore"
	"github.com/sidkik/groovepush/pkg/sync"
)

func TestStatus(t *testing.T) {
	root := filepath.Join(t.TempDir(), "song")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.wav"), []byte("a"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.wav"), []byte("b"), 0644))

	store, err := blobstore.NewFSStore(afero.NewMemMapFs(), "/store")
	require.NoError(t, err)
	log, _ := test.NewNullLogger()
	syncer := sync.NewSyncer(store, log, clockwork.NewFakeClock(), 2)

	newSyncer = func(context.Context) (*sync.Syncer, error) { return syncer, nil }
	getWorkingDirectory = func() (string, error) { return root, nil }
	out := bytes.NewBuffer(nil)
	stdout = out

	ctx := context.Background()
	require.NoError(t, run(ctx, false))
	assert.Equal(t, "Project: song\n"+
		"Local files: 2\n"+
		"Total size: 2 B\n"+
		"Remote: not pushed yet\n", out.String())

	_, err = syncer.Push(ctx, root, sync.PushOptions{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.wav"), []byte("a2"), 0644))
	require.NoError(t, os.Remove(filepath.Join(root, "b.wav")))

	out.Reset()
	require.NoError(t, run(ctx, true))
	assert.Equal(t, "Project: song\n"+
		"Local files: 1\n"+
		"Total size: 2 B\n"+
		"Changed files: 1\n"+
		"Deleted files: 1\n"+
		"  modified: a.wav\n"+
		"  deleted:  b.wav\n", out.String())
}
