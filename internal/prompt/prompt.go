// Package prompt defines the immutable prompt template model and the
// adapted variants produced by the adaptation pipeline.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/valpere/promptadapt/internal/culture"
)

// Template is a reusable base instruction text. Templates are created at
// catalog load time and never mutated by adapters.
type Template struct {
	ID               string            `yaml:"id" json:"id"`
	Content          string            `yaml:"content" json:"content"`
	Domain           culture.Domain    `yaml:"domain" json:"domain"`
	DefaultFormality culture.Formality `yaml:"default_formality" json:"default_formality"`
	Placeholders     map[string]string `yaml:"placeholders" json:"placeholders,omitempty"`
	Description      string            `yaml:"description" json:"description,omitempty"`
	Metadata         map[string]string `yaml:"metadata" json:"metadata,omitempty"`
}

// Render substitutes {placeholder} tokens in the template content. Values
// passed in take precedence over the template's declared defaults; unknown
// placeholders are left in place.
func (t Template) Render(values map[string]string) string {
	rendered := t.Content
	for key, def := range t.Placeholders {
		v := def
		if override, ok := values[key]; ok {
			v = override
		}
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", v)
	}
	for key, v := range values {
		if _, declared := t.Placeholders[key]; !declared {
			rendered = strings.ReplaceAll(rendered, "{"+key+"}", v)
		}
	}
	return rendered
}

// Validate checks the template invariants enforced at catalog load.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template without an id")
	}
	if strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("template %q has empty content", t.ID)
	}
	if !t.Domain.Valid() {
		return fmt.Errorf("template %q has unknown domain %q", t.ID, t.Domain)
	}
	if t.DefaultFormality != "" && !t.DefaultFormality.Valid() {
		return fmt.Errorf("template %q has unknown default formality %q", t.ID, t.DefaultFormality)
	}
	return nil
}

// Variant is the output of one adaptation call: the adapted content plus an
// ordered record of what was changed. Variants are created fresh per call
// and never mutated afterwards.
type Variant struct {
	TemplateID string            `json:"template_id"`
	Language   string            `json:"language"`
	Formality  culture.Formality `json:"formality"`
	Content    string            `json:"content"`
	// Notes describe each applied change in application order. The
	// refinement (or structural-only mode) note is always last.
	Notes     []string  `json:"notes"`
	Refined   bool      `json:"refined"`
	CreatedAt time.Time `json:"created_at"`
}

// Key identifies a variant within the cache: template × language × formality.
func (v Variant) Key() string {
	return fmt.Sprintf("%s_%s_%s", v.TemplateID, v.Language, v.Formality)
}
