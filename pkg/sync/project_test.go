package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/groovepush/pkg/errors"
)

func TestProjectName(t *testing.T) {
	tests := []struct {
		path string
		exp  string
	}{
		{"/projects/song", "song"},
		{"/projects/song/", "song"},
		{"/projects/My Song (v2)", "My Song (v2)"},
		{"/", unnamedProject},
		{"", unnamedProject},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, ProjectName(test.path), test.path)
	}
}

func TestValidateProjectName(t *testing.T) {
	for _, name := range []string{"song", "My Song (v2)", "song.v1"} {
		assert.NoError(t, ValidateProjectName(name), name)
	}

	for _, name := range []string{"", "..", "song..v1", "a/b", `a\b`} {
		err := ValidateProjectName(name)
		assert.True(t, errors.Is(err, errors.InvalidProjectName), name)
	}
}

func TestCanonicalRoot(t *testing.T) {
	evalSymlinks = func(path string) (string, error) {
		if path == "/links/song" {
			return "/projects/song", nil
		}
		return "", errors.New("no such file")
	}

	root, err := CanonicalRoot("/links/song")
	assert.NoError(t, err)
	assert.Equal(t, "/projects/song", root)

	root, err = CanonicalRoot("/missing/../song")
	assert.NoError(t, err)
	assert.Equal(t, "/song", root)
}
