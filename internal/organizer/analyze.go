package organizer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/harrison/tidyspace/internal/extract"
	"github.com/harrison/tidyspace/internal/fileutil"
	"github.com/harrison/tidyspace/internal/models"
	"github.com/harrison/tidyspace/internal/probe"
)

// OldFileDays is the age beyond which Analyze lists a file as old.
const OldFileDays = 30

// DuplicateHeuristic labels Findings.PotentialDuplicates.
const DuplicateHeuristic = "potential duplicates (same size, not byte-compared)"

// Analyze classifies every top-level file of dir without executing anything.
// No lock is taken and nothing is written to history.
func (o *Organizer) Analyze(ctx context.Context, dir string) (*models.Findings, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	scan, err := fileutil.ScanDirectory(root, fileutil.ScanOptions{Ignore: o.ignore, MaxDepth: 1})
	if err != nil {
		return nil, err
	}

	findings := &models.Findings{
		Root:                root,
		ByCategory:          make(map[string]models.CategoryStat),
		OldFiles:            []models.OldFile{},
		SuggestedActions:    []models.Suggestion{},
		PotentialDuplicates: []models.SizeGroup{},
		DuplicateHeuristic:  DuplicateHeuristic,
	}
	bySize := make(map[int64][]string)

	now := o.clock()
	for _, path := range scan.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := o.prober.Probe(path, now)
		if err != nil {
			if !probe.IsSkippable(err) {
				o.logger.LogWarn(fmt.Sprintf("skip %s: %v", path, err))
			}
			continue
		}
		if o.extractor != nil {
			if text, err := o.extractor.Extract(d); err == nil {
				d = d.WithText(text)
			} else if !errors.Is(err, extract.ErrUnsupported) {
				o.logger.LogDebug(fmt.Sprintf("extract %s: %v", path, err))
			}
		}

		decision := o.classifier.Classify(d, now)

		findings.TotalFiles++
		findings.TotalSize += d.Size

		stat := findings.ByCategory[decision.Category]
		stat.Count++
		stat.Size += d.Size
		findings.ByCategory[decision.Category] = stat

		if d.AgeDays != nil && *d.AgeDays > OldFileDays {
			findings.OldFiles = append(findings.OldFiles, models.OldFile{
				Path:    d.Path,
				AgeDays: *d.AgeDays,
				Size:    d.Size,
			})
		}

		if !decision.IsNoop() {
			findings.SuggestedActions = append(findings.SuggestedActions, models.Suggestion{
				Path:        d.Path,
				Disposition: decision.Disposition,
				Destination: decision.Destination,
				Reason:      decision.Reason,
				Size:        d.Size,
			})
		}

		if d.Size > 0 {
			bySize[d.Size] = append(bySize[d.Size], d.Path)
		}
	}

	for size, paths := range bySize {
		if len(paths) > 1 {
			findings.PotentialDuplicates = append(findings.PotentialDuplicates, models.SizeGroup{Size: size, Paths: paths})
		}
	}
	sort.Slice(findings.PotentialDuplicates, func(i, j int) bool {
		return findings.PotentialDuplicates[i].Size > findings.PotentialDuplicates[j].Size
	})
	sort.Slice(findings.OldFiles, func(i, j int) bool {
		return findings.OldFiles[i].AgeDays > findings.OldFiles[j].AgeDays
	})

	return findings, nil
}
