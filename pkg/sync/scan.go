package sync

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/config"
	"github.com/sidkik/groovepush/pkg/errors"
)

// Scanner finds and hashes the tracked files in a project.
type Scanner struct {
	root   string
	ignore *IgnoreRules
}

// NewScanner creates a scanner for the project at `root`. The project's
// ignore rules are loaded once, here.
func NewScanner(root string) (*Scanner, error) {
	fi, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDirectoryNotFound(root)
		}
		return nil, errors.NewLocalIoError(root, err)
	}
	if !fi.IsDir() {
		return nil, errors.NewDirectoryNotFound(root)
	}

	ignore, err := LoadIgnoreRules(root)
	if err != nil {
		return nil, errors.WithContext(err, "load ignore rules")
	}
	return &Scanner{root: root, ignore: ignore}, nil
}

// Root returns the directory being scanned.
func (s *Scanner) Root() string {
	return s.root
}

// IgnoreRules returns the rules the scanner applies.
func (s *Scanner) IgnoreRules() *IgnoreRules {
	return s.ignore
}

// Scan returns an entry for every regular file below the root that isn't
// ignored. Symlinks and other special files are skipped. The order of the
// entries is unspecified.
func (s *Scanner) Scan() ([]Entry, error) {
	var entries []Entry
	err := afero.Walk(fs, s.root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return errors.NewLocalIoError(path, err)
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil {
			return errors.NewLocalIoError(path, err)
		}
		if relPath == "." {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if fi.IsDir() {
			if relPath == config.MetadataDir || s.ignore.Match(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !fi.Mode().IsRegular() || s.ignore.Match(relPath, false) {
			return nil
		}

		hash, err := HashFile(path)
		if err != nil {
			return err
		}

		entries = append(entries, Entry{
			Path:         relPath,
			Hash:         hash,
			Size:         uint64(fi.Size()),
			ContentsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
