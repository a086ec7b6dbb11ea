package content

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renders prose fields to sanitized HTML.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdown() *Markdown {
	return &Markdown{
		md:     goldmark.New(goldmark.WithExtensions(extension.Typographer, extension.Linkify)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts one markdown block to HTML safe to embed in a template.
func (m *Markdown) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes())), nil
}

// RenderAll renders each block in order.
func (m *Markdown) RenderAll(blocks []string) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(blocks))
	for _, b := range blocks {
		h, err := m.Render(b)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
