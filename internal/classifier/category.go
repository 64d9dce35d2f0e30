package classifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/models"
)

// Category labels produced by content and MIME rules
const (
	CategoryScreenshots = "Screenshots"
	CategoryReceipts    = "Receipts"
	CategoryImages      = "Images"
	CategoryVideos      = "Videos"
	CategoryAudio       = "Audio"
	CategoryDocuments   = "Documents"
	CategoryCode        = "Code"
)

// CategoryPolicy assigns each file a category folder named after its type.
// Rules are evaluated in order and the first match wins:
//  1. screenshot name pattern
//  2. image extension with a receipt keyword in its extracted text
//  3. extension table
//  4. MIME type prefix
//  5. Miscellaneous
type CategoryPolicy struct {
	screenshots []string
	receipts    []string
	table       map[string]string
	code        map[string]bool
}

// NewCategoryPolicy builds the policy from the organize tables.
func NewCategoryPolicy(cfg config.OrganizeConfig) *CategoryPolicy {
	code := make(map[string]bool, len(cfg.CodeExtensions))
	for _, ext := range cfg.CodeExtensions {
		code[config.NormalizeExtension(ext)] = true
	}
	return &CategoryPolicy{
		screenshots: lowerAll(cfg.ScreenshotPatterns),
		receipts:    lowerAll(cfg.ReceiptKeywords),
		table:       config.ExtensionTable(cfg.Categories),
		code:        code,
	}
}

func (p *CategoryPolicy) Name() string { return string(config.ModeOrganize) }

// Classify returns a move into the category folder, or keep when the file
// already sits in a folder of that name.
func (p *CategoryPolicy) Classify(d *models.FileDescriptor, _ time.Time) models.Decision {
	category, reason := p.categorize(d)
	if d.ParentName() == category {
		return models.Keep(category, fmt.Sprintf("already in %s/", category))
	}
	return models.Move(category, category, reason)
}

func (p *CategoryPolicy) categorize(d *models.FileDescriptor) (string, string) {
	name := strings.ToLower(d.Name())
	text := strings.ToLower(d.ExtractedText)

	if pattern := firstContained(name, p.screenshots); pattern != "" {
		return CategoryScreenshots, fmt.Sprintf("name matches screenshot pattern %q", pattern)
	}

	byExt, known := lookupExtension(p.table, d.Extension)

	if byExt == CategoryImages {
		if keyword := firstContained(text, p.receipts); keyword != "" {
			return CategoryReceipts, fmt.Sprintf("image text contains receipt keyword %q", keyword)
		}
	}

	if known {
		return byExt, fmt.Sprintf("extension %s", d.Extension)
	}

	mime := d.MIMEType
	switch {
	case strings.HasPrefix(mime, "image/"):
		return CategoryImages, "MIME type " + mime
	case strings.HasPrefix(mime, "video/"):
		return CategoryVideos, "MIME type " + mime
	case strings.HasPrefix(mime, "audio/"):
		return CategoryAudio, "MIME type " + mime
	case mime == "application/pdf":
		if keyword := firstContained(text, p.receipts); keyword != "" {
			return CategoryReceipts, fmt.Sprintf("PDF text contains receipt keyword %q", keyword)
		}
		return CategoryDocuments, "MIME type " + mime
	case strings.HasPrefix(mime, "text/"):
		if p.code[d.Extension] {
			return CategoryCode, fmt.Sprintf("text file with code extension %s", d.Extension)
		}
		return CategoryDocuments, "MIME type " + mime
	}

	return models.CategoryMiscellaneous, "no matching rule"
}
