package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/harrison/tidyspace/internal/filelock"
	"github.com/harrison/tidyspace/internal/models"
)

// JSONStore keeps records in memory and rewrites the whole file on every append.
type JSONStore struct {
	path      string
	retention int

	mu      sync.Mutex
	records []models.ActionRecord

	// Recovered is the path a corrupt history file was moved to on open, if any.
	Recovered string
}

// OpenJSON loads the history file at path. A missing or empty file starts an
// empty history; a file that fails to parse or validate is moved aside to
// <path>.corrupt-<timestamp> and the store starts empty.
func OpenJSON(path string, retention int) (*JSONStore, error) {
	s := &JSONStore{path: path, retention: retention}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	records, err := decodeRecords(data)
	if err != nil {
		aside := fmt.Sprintf("%s.corrupt-%s", path, time.Now().UTC().Format("20060102-150405"))
		if renameErr := os.Rename(path, aside); renameErr != nil {
			return nil, fmt.Errorf("history %s is corrupt (%v) and could not be moved aside: %w", path, err, renameErr)
		}
		s.Recovered = aside
		return s, nil
	}

	s.records = truncate(records, retention)
	return s, nil
}

func decodeRecords(data []byte) ([]models.ActionRecord, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	var records []models.ActionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return records, nil
}

// Path returns the history file location.
func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Append(rec models.ActionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = NewID()
	}
	next := truncate(append(s.records, rec), s.retention)
	if err := s.save(next); err != nil {
		return err
	}
	s.records = next
	return nil
}

func (s *JSONStore) save(records []models.ActionRecord) error {
	if records == nil {
		records = []models.ActionRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := filelock.LockAndWrite(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *JSONStore) Records() ([]models.ActionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ActionRecord(nil), s.records...), nil
}

func (s *JSONStore) Recent(n int) ([]models.ActionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ActionRecord(nil), recent(s.records, n)...), nil
}

func (s *JSONStore) Handled(path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		if rec.Applied() && rec.DestinationPath() == path {
			return true, nil
		}
	}
	return false, nil
}

func (s *JSONStore) Close() error {
	return nil
}
