// Package executor applies decisions to the filesystem and records the outcome.
//
// The executor is the only component that mutates files. Every Execute call
// returns exactly one ActionRecord and appends it to history; failures are
// captured in the record and never returned to the caller.
package executor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/tidyspace/internal/history"
	"github.com/harrison/tidyspace/internal/models"
)

// Logger receives warnings the executor cannot put in a record.
type Logger interface {
	LogWarn(message string)
}

// Executor performs move, delete and keep actions.
type Executor struct {
	history history.Store
	logger  Logger
	dryRun  bool
	runID   string
	clock   func() time.Time

	// Filesystem primitives, replaceable in tests
	rename func(oldpath, newpath string) error
	remove func(path string) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithHistory sets the store records are appended to.
func WithHistory(store history.Store) Option {
	return func(e *Executor) { e.history = store }
}

// WithLogger sets the warning sink.
func WithLogger(l Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithDryRun makes every action a simulation.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) { e.dryRun = dryRun }
}

// WithRunID tags records with the session ID.
func WithRunID(id string) Option {
	return func(e *Executor) { e.runID = id }
}

// WithClock sets the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(e *Executor) { e.clock = clock }
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		clock:  time.Now,
		rename: os.Rename,
		remove: os.Remove,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DryRun reports whether actions are simulated.
func (e *Executor) DryRun() bool {
	return e.dryRun
}

// Record builds the record for d without executing or persisting it.
func (e *Executor) Record(src string, d models.Decision) models.ActionRecord {
	return models.ActionRecord{
		ID:        history.NewID(),
		RunID:     e.runID,
		Timestamp: e.clock().UTC(),
		Action:    d.Disposition,
		Source:    src,
		Category:  d.Category,
		Reason:    d.Reason,
		DryRun:    e.dryRun,
		Success:   true,
	}
}

// Execute applies d to src. dest is the resolved path for moves and is
// ignored otherwise. The record is appended to history before returning.
func (e *Executor) Execute(src string, d models.Decision, dest string) models.ActionRecord {
	rec := e.Record(src, d)

	if err := d.Validate(); err != nil {
		e.fail(&rec, fmt.Errorf("invalid decision: %w", err))
		e.append(rec)
		return rec
	}

	switch d.Disposition {
	case models.DispositionMove:
		rec.Destination = models.StringPtr(dest)
		if dest == "" {
			e.fail(&rec, &MoveError{Source: src, Err: errors.New("no destination resolved")})
			break
		}
		if !e.dryRun {
			if err := e.move(src, dest); err != nil {
				var moveErr *MoveError
				if errors.As(err, &moveErr) && moveErr.Partial {
					rec.Partial = true
				}
				e.fail(&rec, err)
			}
		}
	case models.DispositionDelete:
		if !e.dryRun {
			if err := e.remove(src); err != nil {
				e.fail(&rec, &DeleteError{Path: src, Err: err})
			}
		}
	case models.DispositionKeep:
		// no-op
	}

	e.append(rec)
	return rec
}

// Reject records d as failed with err without touching the filesystem.
// Used when a decision cannot be carried out, such as an unresolvable destination.
func (e *Executor) Reject(src string, d models.Decision, err error) models.ActionRecord {
	rec := e.Record(src, d)
	e.fail(&rec, err)
	e.append(rec)
	return rec
}

func (e *Executor) fail(rec *models.ActionRecord, err error) {
	rec.Success = false
	rec.Error = models.StringPtr(err.Error())
}

func (e *Executor) append(rec models.ActionRecord) {
	if e.history == nil {
		return
	}
	if err := e.history.Append(rec); err != nil && e.logger != nil {
		e.logger.LogWarn(fmt.Sprintf("failed to record %s of %s: %v", rec.Action, rec.Source, err))
	}
}

// move renames src to dest, falling back to copy and remove across filesystems.
// An existing dest is never overwritten.
func (e *Executor) move(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &MoveError{Source: src, Destination: dest, Err: err}
	}
	if _, err := os.Lstat(dest); err == nil {
		return &MoveError{Source: src, Destination: dest, Err: os.ErrExist}
	}

	err := e.rename(src, dest)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return &MoveError{Source: src, Destination: dest, Err: err}
	}

	if err := copyFile(src, dest); err != nil {
		return &MoveError{Source: src, Destination: dest, Err: err}
	}
	if err := e.remove(src); err != nil {
		return &MoveError{Source: src, Destination: dest, Partial: true, Err: err}
	}
	return nil
}

// copyFile copies src to a new file at dest, preserving mode and modification time.
// A failed copy leaves no file at dest.
func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(dest)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
