package models

import "time"

// RunResult represents the aggregate result of organizing one directory
type RunResult struct {
	Root     string         // Directory that was processed
	Mode     string         // Classification policy used
	DryRun   bool           // Whether actions were simulated
	Records  []ActionRecord // One record per processed file, in processing order
	Moved    int            // Successful moves (simulated moves count in dry-run)
	Deleted  int            // Successful deletes (simulated deletes count in dry-run)
	Kept     int            // Files left in place
	Errored  int            // Failed or partial actions
	Skipped  int            // Ignored, vanished or already-handled paths
	Duration time.Duration  // Total processing time
}

// Add folds a record into the counters and appends it.
func (r *RunResult) Add(rec ActionRecord) {
	r.Records = append(r.Records, rec)
	if !rec.Success {
		r.Errored++
		return
	}
	switch rec.Action {
	case DispositionMove:
		r.Moved++
	case DispositionDelete:
		r.Deleted++
	default:
		r.Kept++
	}
}

// Merge adds the counts and records of other into r.
func (r *RunResult) Merge(other RunResult) {
	r.Records = append(r.Records, other.Records...)
	r.Moved += other.Moved
	r.Deleted += other.Deleted
	r.Kept += other.Kept
	r.Errored += other.Errored
	r.Skipped += other.Skipped
	r.Duration += other.Duration
}

// CategoryStat aggregates files of one category
type CategoryStat struct {
	Count int   `json:"count"`
	Size  int64 `json:"size"`
}

// OldFile is a file older than the analysis age cutoff
type OldFile struct {
	Path    string  `json:"path"`
	AgeDays float64 `json:"age_days"`
	Size    int64   `json:"size"`
}

// Suggestion is a non-keep decision proposed during analysis
type Suggestion struct {
	Path        string      `json:"path"`
	Disposition Disposition `json:"action"`
	Destination string      `json:"destination,omitempty"`
	Reason      string      `json:"reason"`
	Size        int64       `json:"size"`
}

// SizeGroup lists files sharing the same byte size.
// Equal size is a heuristic hint only; contents are never compared.
type SizeGroup struct {
	Size  int64    `json:"size"`
	Paths []string `json:"paths"`
}

// Findings summarizes a read-only analysis of a directory
type Findings struct {
	Root                string                  `json:"root"`
	TotalFiles          int                     `json:"total_files"`
	TotalSize           int64                   `json:"total_size"`
	ByCategory          map[string]CategoryStat `json:"by_category"`
	OldFiles            []OldFile               `json:"old_files"`
	SuggestedActions    []Suggestion            `json:"suggested_actions"`
	PotentialDuplicates []SizeGroup             `json:"potential_duplicates"`
	DuplicateHeuristic  string                  `json:"duplicate_heuristic"`
}
