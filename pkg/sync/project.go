package sync

import (
	"path/filepath"
	"strings"

	"github.com/sidkik/groovepush/pkg/errors"
)

// unnamedProject is used when a project name can't be derived from a path,
// e.g. for the filesystem root.
const unnamedProject = "unnamed_project"

// CanonicalRoot returns the absolute path of `root` with symlinks resolved.
// If the path can't be resolved, e.g. because it doesn't exist, the absolute
// path is returned and the scanner reports the problem.
func CanonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.NewLocalIoError(root, err)
	}

	if resolved, err := evalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// Mocked out for unit testing.
var evalSymlinks = filepath.EvalSymlinks

// ProjectName returns the name a project is stored under, which is the base
// name of its directory.
func ProjectName(root string) string {
	name := filepath.Base(filepath.Clean(root))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return unnamedProject
	}
	return name
}

// ValidateProjectName checks that `name` is usable both as a key namespace
// and as a directory name.
func ValidateProjectName(name string) error {
	if name == "" || strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) {
		return errors.NewInvalidProjectName(name)
	}
	return nil
}
