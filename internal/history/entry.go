// internal/history/entry.go
package history

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry represents a single query execution in history
type Entry struct {
	ID           int64
	ClientID     string
	ClientName   string
	Query        string
	ExecutedAt   time.Time
	DurationMs   int64
	RowCount     int64
	Status       string
	ErrorMessage string
}

// QueryPreview returns the query on one line, truncated to maxLen
func (e *Entry) QueryPreview(maxLen int) string {
	q := []rune(flatten(e.Query))
	if maxLen > 3 && len(q) > maxLen {
		return string(q[:maxLen-3]) + "..."
	}
	return string(q)
}

func flatten(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || r == ' ' {
			if !space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = true
			continue
		}
		space = false
		out = append(out, r)
	}
	if len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}
