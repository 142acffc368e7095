package fswatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/errors"
)

var fs = afero.NewOsFs()

// metadataDir is never watched since only groovepush writes to it.
const metadataDir = ".gp"

// Ignorer decides whether a slash-separated path relative to the project
// root is excluded from backups.
type Ignorer interface {
	Match(relPath string, isDir bool) bool
}

// Watcher notifies about changes to the tracked files in a project.
type Watcher struct {
	root    string
	ignore  Ignorer
	watcher *fsnotify.Watcher
	events  chan struct{}

	// add registers a directory with the underlying watcher.
	add func(path string) error
}

// Watch watches for changes in the files below `root` that aren't ignored.
// Since fsnotify doesn't watch directories recursively, every directory is
// registered individually, including directories created after Watch
// returns.
func Watch(root string, ignore Ignorer) (*Watcher, error) {
	dirs, err := getDirsToWatch(root, ignore)
	if err != nil {
		return nil, errors.WithContext(err, "get paths")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WithContext(err, "create watcher")
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			// Close the watcher so that we release the file handlers for the
			// previously added paths.
			if err := watcher.Close(); err != nil {
				log.WithError(err).Warn("Failed to close file watcher")
			}

			return nil, errors.WithContext(err, fmt.Sprintf("watch %q", dir))
		}
	}

	w := &Watcher{
		root:    root,
		ignore:  ignore,
		watcher: watcher,
		add:     watcher.Add,
	}
	w.events = combineUpdates(w.filter(watcher.Events))
	go logErrors(watcher.Errors)
	return w, nil
}

// Events returns a channel that receives a value after files change. Bursts
// of changes are combined into a single value.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops watching. The events channel is closed once pending events
// are drained.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// filter drops events for ignored paths, and starts watching directories as
// they're created.
func (w *Watcher) filter(events <-chan fsnotify.Event) <-chan fsnotify.Event {
	filtered := make(chan fsnotify.Event, 16)
	go func() {
		defer close(filtered)
		for event := range events {
			if w.handle(event) {
				filtered <- event
			}
		}
	}()
	return filtered
}

// handle returns whether `event` is relevant to the project.
func (w *Watcher) handle(event fsnotify.Event) bool {
	relPath, ok := w.relPath(event.Name)
	if !ok {
		return false
	}

	isDir := false
	if event.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := fs.Stat(event.Name); err == nil && fi.IsDir() {
			isDir = true
		}
	}

	if w.ignore.Match(relPath, isDir) {
		return false
	}

	if isDir {
		dirs, err := getDirsToWatch(event.Name, prefixedIgnorer{relPath, w.ignore})
		if err != nil {
			log.WithError(err).WithField("path", event.Name).
				Warn("Failed to list new directory")
		}
		for _, dir := range dirs {
			if err := w.add(dir); err != nil {
				log.WithError(err).WithField("path", dir).
					Warn("Failed to watch new directory")
			}
		}
	}
	return true
}

func (w *Watcher) relPath(path string) (string, bool) {
	relPath, err := filepath.Rel(w.root, path)
	if err != nil || relPath == "." {
		return "", false
	}

	relPath = filepath.ToSlash(relPath)
	if relPath == metadataDir || strings.HasPrefix(relPath, metadataDir+"/") {
		return "", false
	}
	return relPath, true
}

func combineUpdates(updates <-chan fsnotify.Event) chan struct{} {
	combined := make(chan struct{}, 1)
	go func() {
		defer close(combined)
		for range updates {
			select {
			case combined <- struct{}{}:
			default:
			}
		}
	}()
	return combined
}

func logErrors(errs <-chan error) {
	for err := range errs {
		log.WithError(err).Debug("File watcher error")
	}
}

// getDirsToWatch returns `root` and every directory below it that isn't
// ignored.
func getDirsToWatch(root string, ignore Ignorer) (paths []string, err error) {
	fi, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: root}
		}
		return nil, errors.WithContext(err, "stat")
	}
	if !fi.IsDir() {
		return nil, errors.NewDirectoryNotFound(root)
	}

	err = afero.Walk(fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.WithContext(err, "walk error")
		}

		if !fi.IsDir() {
			return nil
		}

		if path == root {
			paths = append(paths, path)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return errors.WithContext(err, "normalized path")
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == metadataDir || ignore.Match(relPath, true) {
			return filepath.SkipDir
		}

		paths = append(paths, path)
		return nil
	})
	return paths, err
}

// prefixedIgnorer applies ignore rules for the project root to paths that
// are relative to one of its subdirectories.
type prefixedIgnorer struct {
	prefix string
	ignore Ignorer
}

func (i prefixedIgnorer) Match(relPath string, isDir bool) bool {
	return i.ignore.Match(i.prefix+"/"+relPath, isDir)
}
