package config

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/errors"
)

const (
	// MetadataDir is the per-project directory reserved for gp. It's never
	// scanned or synced.
	MetadataDir = ".gp"

	// IgnoreFile contains the project's gitignore-style exclusion rules.
	IgnoreFile = ".gp-ignore"
)

// DefaultIgnoreTemplate is written to IgnoreFile by InitProject.
const DefaultIgnoreTemplate = `# GroovePush ignore rules
# Temporary and backup files created by DAWs are excluded.
# Prefix a pattern with ! to include files excluded by the built-in rules.

# Ableton Live
*.tmp
Backup/
*.asd

# Logic Pro
*.autosave

# FL Studio
*.flpbackup

# Common temporary files
.DS_Store
Thumbs.db
*.bak
`

// InitProject creates the metadata directory and a default ignore file in
// `root`. Existing files are left untouched, so it's safe to run repeatedly.
func InitProject(root string) error {
	if err := fs.MkdirAll(filepath.Join(root, MetadataDir), 0755); err != nil {
		return errors.NewLocalIoError(filepath.Join(root, MetadataDir), err)
	}

	ignorePath := filepath.Join(root, IgnoreFile)
	exists, err := afero.Exists(fs, ignorePath)
	if err != nil {
		return errors.NewLocalIoError(ignorePath, err)
	}
	if exists {
		return nil
	}

	if err := afero.WriteFile(fs, ignorePath, []byte(DefaultIgnoreTemplate), 0644); err != nil {
		return errors.NewLocalIoError(ignorePath, err)
	}
	return nil
}
