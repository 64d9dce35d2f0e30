// Package history persists the bounded, append-only log of ActionRecords.
//
// Two backends share the Store interface: a JSON file rewritten atomically on
// every append (the default) and a SQLite database. Both keep only the most
// recent records up to the retention cap, oldest dropped first.
package history

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harrison/tidyspace/internal/models"
)

// Store is the durable record log. A Store has a single owner per session.
type Store interface {
	// Append adds a record and truncates to the retention cap.
	Append(rec models.ActionRecord) error
	// Records returns every retained record, oldest first.
	Records() ([]models.ActionRecord, error)
	// Recent returns at most n of the newest records, oldest first.
	Recent(n int) ([]models.ActionRecord, error)
	// Handled reports whether path is the destination of a live, successful action.
	Handled(path string) (bool, error)
	Close() error
}

// Backend names accepted by Open
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open opens the store for backend at path with the given retention cap.
func Open(backend, path string, retention int) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return OpenJSON(path, retention)
	case BackendSQLite:
		return OpenSQLite(path, retention)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new lexicographically sortable record ID.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// recent returns the last n records of recs (all when n <= 0).
func recent(recs []models.ActionRecord, n int) []models.ActionRecord {
	if n <= 0 || n >= len(recs) {
		return recs
	}
	return recs[len(recs)-n:]
}

// truncate keeps the newest retention records.
func truncate(recs []models.ActionRecord, retention int) []models.ActionRecord {
	if retention <= 0 || len(recs) <= retention {
		return recs
	}
	kept := make([]models.ActionRecord, retention)
	copy(kept, recs[len(recs)-retention:])
	return kept
}
