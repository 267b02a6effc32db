package docstore

import "time"

// SetNow overrides the store's clock for tests.
func SetNow(db *DB, now func() time.Time) {
	db.now = now
}
