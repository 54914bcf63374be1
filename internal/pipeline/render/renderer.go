// Package render maps document classes to precompiled HTML notification
// templates.
package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"docnotifier/internal/common/errors"
	"docnotifier/internal/models"
)

// DefaultName is the placeholder used when the owner has no display name.
const DefaultName = "cliente"

// Fields is the fixed record a template is rendered from. Rendering is
// pure: zero-valued fields come out empty rather than failing.
type Fields struct {
	Name        string
	DocumentKey int64
	File        string
	FiscalYear  int
	Date        string // dd/mm/yyyy
	Total       string
	Series      string
	Number      int
	Link        string
}

// BuildFields assembles the template fields for a document. The display
// name falls back to DefaultName when absent; date and total are formatted
// here so templates stay purely presentational.
func BuildFields(doc *models.Document, ownerName, link string) Fields {
	name := strings.TrimSpace(ownerName)
	if name == "" {
		name = DefaultName
	}
	return Fields{
		Name:        name,
		DocumentKey: doc.Key,
		File:        doc.File,
		FiscalYear:  doc.FiscalYear,
		Date:        doc.Date.Format("02/01/2006"),
		Total:       strconv.FormatFloat(doc.Total, 'f', 2, 64),
		Series:      doc.Series,
		Number:      doc.Number,
		Link:        link,
	}
}

type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer precompiles all class templates. A broken template is a
// programming error surfaced at startup, not at scan time.
func NewRenderer() (*Renderer, error) {
	compiled := make(map[string]*template.Template, len(templateSources))
	for key, src := range templateSources {
		tpl, err := template.New(key).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to compile template %q: %w", key, err)
		}
		compiled[key] = tpl
	}
	return &Renderer{templates: compiled}, nil
}

// Render produces the message body for the given template key.
func (r *Renderer) Render(templateKey string, fields Fields) (string, error) {
	tpl, ok := r.templates[templateKey]
	if !ok {
		return "", errors.NewRenderFailedError(templateKey, fmt.Errorf("unknown template key"))
	}

	var out strings.Builder
	if err := tpl.Execute(&out, fields); err != nil {
		return "", errors.NewRenderFailedError(templateKey, err)
	}
	return out.String(), nil
}
