package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes uint64
		exp   string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{5 * 1024 * 1024 / 2, "2.50 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{2048 * 1024 * 1024 * 1024, "2048.00 GB"},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, FormatSize(test.bytes), "%d bytes", test.bytes)
	}
}
