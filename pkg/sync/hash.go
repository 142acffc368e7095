package sync

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/spf13/afero"

	"github.com/sidkik/groovepush/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// HashBytes returns the hex encoded sha256 of `data`.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile returns the hex encoded sha256 of the file at the given path.
// The whole file is read into memory.
func HashFile(path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.NewLocalIoError(path, err)
	}
	return HashBytes(data), nil
}
