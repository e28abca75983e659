// Package highlight colors SQL for terminal display.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

const (
	// DefaultStyle matches the default theme palette
	DefaultStyle = "nord"

	formatter = "terminal256"
)

// SQL returns sql with 256-color ANSI highlighting in the named chroma style.
// The input is returned unchanged when highlighting fails.
func SQL(sql, style string) string {
	if strings.TrimSpace(sql) == "" {
		return sql
	}
	if style == "" {
		style = DefaultStyle
	}

	var b strings.Builder
	if err := quick.Highlight(&b, sql, "sql", formatter, style); err != nil {
		return sql
	}
	return strings.TrimRight(b.String(), "\n")
}
