package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/fswatch"
)

type mockNotifier struct {
	events chan struct{}
	closed bool
}

func (n *mockNotifier) Events() <-chan struct{} {
	return n.events
}

func (n *mockNotifier) Close() error {
	n.closed = true
	return nil
}

type pushAttempt struct {
	result PushResult
	err    error
}

func runWatch(t *testing.T, env testEnv, opts WatchOptions) (
	chan pushAttempt, context.CancelFunc, chan error) {

	pushes := make(chan pushAttempt, 16)
	opts.OnPush = func(result PushResult, err error) {
		pushes <- pushAttempt{result, err}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- env.syncer.Watch(ctx, projectRoot, opts)
	}()
	return pushes, cancel, done
}

func nextPush(t *testing.T, pushes chan pushAttempt) pushAttempt {
	select {
	case push := <-pushes:
		return push
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for push")
	}
	return pushAttempt{}
}

func TestWatchEvents(t *testing.T) {
	env := newTestEnv(t)
	writeFiles(t, projectRoot, map[string]string{"a.wav": "a1"})

	notifier := &mockNotifier{events: make(chan struct{}, 1)}
	watchFiles = func(string, fswatch.Ignorer) (changeNotifier, error) {
		return notifier, nil
	}

	pushes, cancel, done := runWatch(t, env, WatchOptions{Message: "autosave"})

	first := nextPush(t, pushes)
	require.NoError(t, first.err)
	assert.Equal(t, Done, first.result.State)
	assert.Equal(t, "autosave", first.result.Snapshot.Message)

	env.clock.Advance(time.Second)
	writeFiles(t, projectRoot, map[string]string{"a.wav": "a2"})
	notifier.events <- struct{}{}

	second := nextPush(t, pushes)
	require.NoError(t, second.err)
	assert.Equal(t, Done, second.result.State)
	assert.Equal(t, first.result.Snapshot.ID, second.result.Snapshot.ParentID)

	cancel()
	assert.NoError(t, <-done)
	assert.True(t, notifier.closed)
}

func TestWatchPollsWhenWatchFails(t *testing.T) {
	env := newTestEnv(t)
	writeFiles(t, projectRoot, map[string]string{"a.wav": "a1"})

	watchFiles = func(string, fswatch.Ignorer) (changeNotifier, error) {
		return nil, errors.New("too many open files")
	}

	pushes, cancel, done := runWatch(t, env, WatchOptions{PollInterval: time.Minute})
	require.NoError(t, nextPush(t, pushes).err)

	// Nothing changed, so the poll doesn't create a snapshot.
	env.clock.BlockUntil(1)
	env.clock.Advance(time.Minute)
	assert.Equal(t, NoChanges, nextPush(t, pushes).result.State)

	writeFiles(t, projectRoot, map[string]string{"a.wav": "a2"})
	env.clock.Advance(time.Minute)
	assert.Equal(t, Done, nextPush(t, pushes).result.State)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchMissingDirectory(t *testing.T) {
	env := newTestEnv(t)
	err := env.syncer.Watch(context.Background(), "/projects/missing", WatchOptions{})
	assert.True(t, errors.Is(err, errors.DirectoryNotFound))
}
