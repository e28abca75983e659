// Package export turns result sets into files the user can take away.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/nhath/silver/internal/api"
)

// DefaultFilename is used when the caller supplies no name
const DefaultFilename = "query-results.csv"

// CSV renders columns and rows as CSV text. NULL cells become empty fields.
// A field is quoted only when it contains a comma, a double quote or a newline.
func CSV(columns []string, rows [][]any) string {
	var b strings.Builder

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = escapeField(c)
	}
	b.WriteString(strings.Join(header, ","))

	fields := make([]string, 0, len(columns))
	for _, row := range rows {
		fields = fields[:0]
		for _, cell := range row {
			s, isNull := api.FormatValue(cell)
			if isNull {
				s = ""
			}
			fields = append(fields, escapeField(s))
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(fields, ","))
	}
	return b.String()
}

func escapeField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// DownloadDir returns the user's download directory, or the working
// directory when none is known
func DownloadDir() string {
	if xdg.UserDirs.Download != "" {
		return xdg.UserDirs.Download
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// ResolvePath places filename under dir unless it is already absolute
func ResolvePath(dir, filename string) string {
	if filename == "" {
		filename = DefaultFilename
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	if dir == "" {
		dir = DownloadDir()
	}
	return filepath.Join(dir, filename)
}

// Download writes content to dir/filename and returns the final path.
// A .csv extension is appended when missing.
func Download(dir, filename, content string) (string, error) {
	path := ResolvePath(dir, filename)
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		path += ".csv"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return path, nil
}
