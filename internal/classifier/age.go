package classifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/models"
)

// Cleanup category labels with dedicated rules
const (
	CategoryScreenshot = "screenshots"
	CategoryInstallers = "installers"
	CategoryArchives   = "archives"
	CategoryImagesAge  = "images"
	CategoryDocsAge    = "documents"
)

// ReasonNoRule is the keep reason when no age rule fires
const ReasonNoRule = "recent or no matching rule"

// AgePolicy archives or deletes files once they pass a per-category age.
// Ages compare at full precision; rounding only affects reason text.
type AgePolicy struct {
	screenshots  []string
	table        map[string]string
	thresholds   config.Thresholds
	destinations config.Destinations
}

// NewAgePolicy builds the policy from the cleanup tables.
func NewAgePolicy(cfg config.CleanupConfig) *AgePolicy {
	return &AgePolicy{
		screenshots:  lowerAll(cfg.ScreenshotPatterns),
		table:        config.ExtensionTable(cfg.Categories),
		thresholds:   cfg.Thresholds,
		destinations: cfg.Destinations,
	}
}

func (p *AgePolicy) Name() string { return string(config.ModeCleanup) }

func (p *AgePolicy) Classify(d *models.FileDescriptor, _ time.Time) models.Decision {
	category, ok := lookupExtension(p.table, d.Extension)
	if !ok {
		category = models.CategoryOther
	}

	screenshot := firstContained(strings.ToLower(d.Name()), p.screenshots) != ""

	if !d.HasAge() {
		if screenshot {
			category = CategoryScreenshot
		}
		return models.Keep(category, ReasonNoRule)
	}
	age := *d.AgeDays
	t := p.thresholds

	if screenshot {
		if age > t.Screenshot {
			return models.Move(CategoryScreenshot, p.destinations.Screenshot,
				fmt.Sprintf("Screenshot older than %s days", formatDays(t.Screenshot)))
		}
		return models.Keep(CategoryScreenshot, "Recent screenshot")
	}

	switch {
	case category == CategoryInstallers && age > t.Installer:
		return models.Delete(category, fmt.Sprintf("Old installer (%s days)", roundDays(age)))
	case category == CategoryArchives && age > t.Archive:
		return models.Move(category, p.destinations.Archive, fmt.Sprintf("Old archive (%s days)", roundDays(age)))
	case category == CategoryImagesAge && age > t.Image:
		return models.Move(category, p.destinations.Image, fmt.Sprintf("Old image (%s days)", roundDays(age)))
	case category == CategoryDocsAge && age > t.Document:
		return models.Move(category, p.destinations.Document, fmt.Sprintf("Old document (%s days)", roundDays(age)))
	case age > t.Any:
		return models.Move(category, p.destinations.Old, fmt.Sprintf("Very old file (%s days)", roundDays(age)))
	}

	return models.Keep(category, ReasonNoRule)
}

func roundDays(age float64) string {
	return strconv.FormatFloat(math.Round(age), 'f', 0, 64)
}

func formatDays(threshold float64) string {
	return strconv.FormatFloat(threshold, 'f', -1, 64)
}
