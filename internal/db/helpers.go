package db

import "time"

// nullableTime maps the zero time to SQL NULL so COALESCE keeps the stored
// value on partial updates
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
