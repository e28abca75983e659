package console

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders milliseconds as "850ms" or "1.25s"
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000)
}

// FormatCount renders n with thousands separators
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
