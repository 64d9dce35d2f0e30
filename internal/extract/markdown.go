package extract

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor returns the rendered text of a Markdown document,
// without markup.
type MarkdownExtractor struct {
	markdown goldmark.Markdown
}

// NewMarkdownExtractor creates a Markdown backend.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{markdown: goldmark.New()}
}

func (m *MarkdownExtractor) Name() string { return "markdown" }

func (m *MarkdownExtractor) Extract(path string, maxChars int) (string, error) {
	// Markup inflates the source, so read well past the excerpt size
	limit := maxChars
	if limit > 0 {
		limit *= 4
	}
	source, err := readHead(path, limit)
	if err != nil {
		return "", &ExtractionError{Path: path, Backend: m.Name(), Err: err}
	}

	doc := m.markdown.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.URL(source))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", &ExtractionError{Path: path, Backend: m.Name(), Err: err}
	}

	return truncate(string(bytes.TrimSpace(buf.Bytes())), maxChars), nil
}
