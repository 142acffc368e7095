// Package units formats quantities for display.
package units

import (
	"fmt"

	goUnits "github.com/docker/go-units"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize returns a human readable size using binary multiples, e.g.
// "512 B" or "1.50 KB". Sizes of a terabyte or more are shown in GB.
func FormatSize(bytes uint64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}
	return goUnits.CustomSize("%.2f %s", float64(bytes), 1024.0, sizeUnits)
}
