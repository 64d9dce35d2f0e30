package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tidyspace/internal/models"
)

func TestPrintSummary(t *testing.T) {
	result := models.RunResult{
		Root:     "/home/u/Downloads",
		DryRun:   true,
		Moved:    2,
		Deleted:  1,
		Kept:     4,
		Errored:  1,
		Skipped:  3,
		Duration: 1234 * time.Millisecond,
		Records: []models.ActionRecord{
			{Action: models.DispositionMove, Source: "/home/u/Downloads/a.pdf", Success: true},
			{Action: models.DispositionDelete, Source: "/home/u/Downloads/b.dmg", Error: models.StringPtr("permission denied")},
		},
	}

	var buf bytes.Buffer
	PrintSummary(&buf, result, false)
	out := buf.String()

	for _, want := range []string{
		"Summary (dry run, nothing was changed)",
		"Directory: /home/u/Downloads",
		"Moved:     2",
		"Deleted:   1",
		"Kept:      4",
		"Skipped:   3",
		"Errors:    1",
		"Duration:  1.234s",
		"delete /home/u/Downloads/b.dmg: permission denied",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "a.pdf")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrintSummary_Colorized(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, models.RunResult{Moved: 1}, true)
	assert.Contains(t, buf.String(), "\x1b[32m")
	assert.NotContains(t, buf.String(), "Failed:")
}

func TestPrintFindings(t *testing.T) {
	f := &models.Findings{
		Root:       "/data",
		TotalFiles: 3,
		TotalSize:  3000,
		ByCategory: map[string]models.CategoryStat{
			"Images":    {Count: 1, Size: 1000},
			"Documents": {Count: 2, Size: 2000},
		},
		OldFiles: []models.OldFile{{Path: "/data/old.pdf", AgeDays: 41.6, Size: 1000}},
		SuggestedActions: []models.Suggestion{
			{Path: "/data/a.png", Disposition: models.DispositionMove, Destination: "Images", Reason: "extension .png"},
		},
		PotentialDuplicates: []models.SizeGroup{{Size: 1000, Paths: []string{"/data/a.pdf", "/data/b.pdf"}}},
		DuplicateHeuristic:  "potential duplicates (same size, not byte-compared)",
	}

	var buf bytes.Buffer
	PrintFindings(&buf, f)
	out := buf.String()

	assert.Contains(t, out, "3 files, 3.0 kB")
	assert.Less(t, strings.Index(out, "Documents"), strings.Index(out, "Images"), "categories sorted")
	assert.Contains(t, out, "/data/old.pdf (42 days, 1.0 kB)")
	assert.Contains(t, out, "move /data/a.png -> Images (extension .png)")
	assert.Contains(t, out, "Potential duplicates (same size, not byte-compared):")
	assert.Contains(t, out, "1.0 kB: /data/a.pdf, /data/b.pdf")
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	var empty bytes.Buffer
	PrintHistory(&empty, nil, now)
	assert.Equal(t, "No history recorded yet.\n", empty.String())

	records := []models.ActionRecord{
		{Timestamp: now.Add(-2 * time.Hour), Action: models.DispositionMove, Source: "/d/a.pdf", Destination: models.StringPtr("/d/Documents/a.pdf"), Success: true},
		{Timestamp: now.Add(-time.Hour), Action: models.DispositionDelete, Source: "/d/b.dmg", Success: true, DryRun: true},
		{Timestamp: now, Action: models.DispositionMove, Source: "/d/c.zip", Destination: models.StringPtr("/mnt/c.zip"), Partial: true, Error: models.StringPtr("copied to /mnt/c.zip but could not remove source: busy")},
	}

	var buf bytes.Buffer
	PrintHistory(&buf, records, now)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "WHEN")
	assert.Contains(t, lines[1], "2 hours ago")
	assert.Contains(t, lines[1], "/d/Documents/a.pdf")
	assert.Contains(t, lines[1], "ok")
	assert.Contains(t, lines[2], "dry-run")
	assert.Contains(t, lines[2], " - ")
	assert.Contains(t, lines[3], "partial: copied to /mnt/c.zip")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, models.SizeGroup{Size: 5, Paths: []string{"/a"}}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.EqualValues(t, 5, decoded["size"])
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
