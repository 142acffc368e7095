package sync

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sidkik/groovepush/pkg/errors"
	"github.com/sidkik/groovepush/pkg/fswatch"
)

// DefaultPollInterval is how often a watched project is pushed when file
// system notifications aren't available.
const DefaultPollInterval = 30 * time.Second

// WatchOptions configures Watch.
type WatchOptions struct {
	// Message is stored in every snapshot created by the watch.
	Message string

	PollInterval time.Duration

	// OnPush, if set, is called after every push attempt.
	OnPush func(PushResult, error)
}

type changeNotifier interface {
	Events() <-chan struct{}
	Close() error
}

// Mocked out for unit testing.
var watchFiles = func(root string, ignore fswatch.Ignorer) (changeNotifier, error) {
	return fswatch.Watch(root, ignore)
}

// Watch pushes the project at `root` once, and then again whenever its files
// change. If the files can't be watched, the project is pushed every poll
// interval instead. Failed pushes are logged and retried on the next change.
// Watch returns when `ctx` is cancelled.
func (s *Syncer) Watch(ctx context.Context, root string, opts WatchOptions) error {
	root, err := CanonicalRoot(root)
	if err != nil {
		return err
	}

	scanner, err := NewScanner(root)
	if err != nil {
		return errors.WithContext(err, "scan")
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	log := s.log.WithField("project", ProjectName(root))

	push := func() {
		result, err := s.Push(ctx, root, PushOptions{Message: opts.Message})
		switch {
		case err != nil:
			log.WithError(err).Warn("Push failed")
		case result.State == Done:
			log.WithFields(logrus.Fields{
				"snapshot": result.Snapshot.ID,
				"changed":  len(result.Changed),
			}).Info("Pushed changes")
		default:
			log.Debug("No changes")
		}
		if opts.OnPush != nil {
			opts.OnPush(result, err)
		}
	}
	push()

	var changes <-chan struct{}
	var poll <-chan time.Time
	notifier, err := watchFiles(root, scanner.IgnoreRules())
	if err != nil {
		log.WithError(err).Warnf("Failed to watch files. Pushing every %s instead.",
			opts.PollInterval)
		ticker := s.clock.NewTicker(opts.PollInterval)
		defer ticker.Stop()
		poll = ticker.Chan()
	} else {
		defer notifier.Close()
		changes = notifier.Events()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return errors.New("file watcher stopped")
			}
			push()
		case <-poll:
			push()
		}
	}
}
