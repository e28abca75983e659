// internal/history/store.go
package history

import (
	"database/sql"
	"log"
)

// Store manages query history persistence
type Store struct {
	db *sql.DB
}

// NewStore wraps a database opened by the storage package and prunes old entries
func NewStore(db *sql.DB) *Store {
	s := &Store{db: db}
	if err := s.cleanup(); err != nil {
		log.Printf("history: cleanup failed: %v", err)
	}
	return s
}

// Add inserts a new execution into history
func (s *Store) Add(entry *Entry) error {
	res, err := s.db.Exec(`
		INSERT INTO history (client_id, client_name, query, executed_at, duration_ms, row_count, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ClientID,
		entry.ClientName,
		entry.Query,
		entry.ExecutedAt,
		entry.DurationMs,
		entry.RowCount,
		entry.Status,
		entry.ErrorMessage,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id
	return nil
}

// List returns paginated history entries for a client, newest first
func (s *Store) List(clientID string, limit, offset int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, client_id, client_name, query, executed_at, duration_ms, row_count, status, error_message
		FROM history
		WHERE client_id = ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, clientID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Search finds history entries by query substring
func (s *Store) Search(clientID, querySubstr string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, client_id, client_name, query, executed_at, duration_ms, row_count, status, error_message
		FROM history
		WHERE client_id = ? AND query LIKE ?
		ORDER BY executed_at DESC, id DESC
		LIMIT ?
	`, clientID, "%"+querySubstr+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var errMsg sql.NullString
		if err := rows.Scan(&e.ID, &e.ClientID, &e.ClientName, &e.Query, &e.ExecutedAt,
			&e.DurationMs, &e.RowCount, &e.Status, &errMsg); err != nil {
			return nil, err
		}
		e.ErrorMessage = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a history entry by ID
func (s *Store) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM history WHERE id = ?", id)
	return err
}

// Count returns the total number of history entries for a client
func (s *Store) Count(clientID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM history WHERE client_id = ?`, clientID).Scan(&count)
	return count, err
}

// cleanup removes history entries older than 90 days
func (s *Store) cleanup() error {
	_, err := s.db.Exec(`
		DELETE FROM history
		WHERE executed_at < datetime('now', '-90 days')
	`)
	return err
}
