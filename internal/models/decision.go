package models

import (
	"errors"
	"fmt"
)

// Disposition is the action the executor applies to a file.
type Disposition string

// Dispositions
const (
	DispositionKeep   Disposition = "keep"   // Leave the file where it is
	DispositionMove   Disposition = "move"   // Move into a destination directory
	DispositionDelete Disposition = "delete" // Remove the file
)

// Valid reports whether d is one of the known dispositions.
func (d Disposition) Valid() bool {
	switch d {
	case DispositionKeep, DispositionMove, DispositionDelete:
		return true
	default:
		return false
	}
}

// Default category labels
const (
	CategoryMiscellaneous = "Miscellaneous" // organize mode fallback
	CategoryOther         = "other"         // cleanup mode fallback
)

// Decision is the output of classification.
// Build decisions with Keep, Move and Delete so the destination invariants hold.
type Decision struct {
	Category    string      `json:"category"`
	Disposition Disposition `json:"disposition"`
	Destination string      `json:"destination,omitempty"` // category name or path template; move only
	Reason      string      `json:"reason"`
}

// Keep returns a decision that leaves the file in place.
func Keep(category, reason string) Decision {
	return Decision{Category: category, Disposition: DispositionKeep, Reason: reason}
}

// Move returns a decision that moves the file to destination.
func Move(category, destination, reason string) Decision {
	return Decision{Category: category, Disposition: DispositionMove, Destination: destination, Reason: reason}
}

// Delete returns a decision that removes the file.
func Delete(category, reason string) Decision {
	return Decision{Category: category, Disposition: DispositionDelete, Reason: reason}
}

// Validate checks the disposition/destination invariants.
func (d Decision) Validate() error {
	if !d.Disposition.Valid() {
		return fmt.Errorf("unknown disposition %q", d.Disposition)
	}
	switch d.Disposition {
	case DispositionMove:
		if d.Destination == "" {
			return errors.New("move decision requires a destination")
		}
	default:
		if d.Destination != "" {
			return fmt.Errorf("%s decision must not carry a destination", d.Disposition)
		}
	}
	return nil
}

// IsNoop returns true when executing the decision leaves the filesystem untouched.
func (d Decision) IsNoop() bool {
	return d.Disposition == DispositionKeep
}
