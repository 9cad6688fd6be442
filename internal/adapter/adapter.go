// Package adapter implements the two-phase adaptation orchestrator: a
// deterministic structural phase driven entirely by a cultural rule table,
// followed by optional generative refinement with a hard fallback to the
// structural text.
//
// One Adapter type serves every language; behavior differences live in the
// table, never in code.
package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/generator"
	"github.com/valpere/promptadapt/internal/prompt"
)

// Notes recorded by the orchestrator. The mode note is always the last
// entry of a variant's note list.
const (
	NoteStructuralOnly = "structural-only adaptation"
	NoteRefined        = "LLM refinement applied"
	NoteFallback       = "refinement unavailable, structural-only adaptation used"
)

const (
	defaultRefineTimeout     = 60 * time.Second
	defaultRefineTemperature = 0.3
	defaultRefineMaxTokens   = 2048
)

// LanguageChecker validates that refined output is written in the expected
// language. Implemented by detector.Detector.
type LanguageChecker interface {
	CheckLanguage(text, wantLang string) (bool, error)
}

// Adapter adapts templates for a single language. It holds no per-call
// state: every Adapt call is independent and re-entrant, and the bound
// table is read-only.
type Adapter struct {
	table   *culture.Table
	gen     generator.Generator
	checker LanguageChecker
	timeout time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithGenerator supplies the generation capability used for Phase 2
// refinement. Without it adaptation is structural-only.
func WithGenerator(gen generator.Generator) Option {
	return func(a *Adapter) { a.gen = gen }
}

// WithTimeout bounds each Phase 2 generation call.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLanguageCheck validates refined output against the adapter's
// language; output in the wrong language is treated as a generation
// failure.
func WithLanguageCheck(c LanguageChecker) Option {
	return func(a *Adapter) { a.checker = c }
}

// New creates an adapter bound to one language's rule table.
func New(table *culture.Table, opts ...Option) *Adapter {
	a := &Adapter{
		table:   table,
		timeout: defaultRefineTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Language returns the code of the bound rule table.
func (a *Adapter) Language() string {
	return a.table.Code
}

// Adapt produces a variant of tpl for the given formality.
//
// Phase 1 applies the rule-table entry's transformation steps in declared
// order; a missing entry is a configuration error. Phase 2 runs only when a
// generator is configured and the table enables refinement; any Phase 2
// failure degrades to the Phase 1 text with a fallback note. Adapt fails
// only when Phase 1 cannot run.
func (a *Adapter) Adapt(ctx context.Context, tpl prompt.Template, formality culture.Formality) (*prompt.Variant, error) {
	if !formality.Valid() {
		return nil, fmt.Errorf("invalid formality level %q", formality)
	}

	entry, err := a.table.Entry(formality, tpl.Domain)
	if err != nil {
		return nil, err
	}

	content, notes := applySteps(entry, tpl.Content)

	v := &prompt.Variant{
		TemplateID: tpl.ID,
		Language:   a.table.Code,
		Formality:  formality,
		Content:    content,
		Notes:      notes,
		CreatedAt:  time.Now().UTC(),
	}

	if a.gen == nil || !a.table.Refine.Enabled {
		v.Notes = append(v.Notes, NoteStructuralOnly)
		return v, nil
	}

	out := a.refine(ctx, entry, tpl, formality, content)
	if out.err != nil {
		v.Notes = append(v.Notes, NoteFallback)
		return v, nil
	}
	v.Content = out.text
	v.Refined = true
	v.Notes = append(v.Notes, NoteRefined)
	return v, nil
}

// applySteps is the pure structural phase: it interprets the entry's step
// list against the template content and records one note per change.
func applySteps(entry *culture.Entry, content string) (string, []string) {
	parts := make([]string, 0, len(entry.Steps))
	notes := make([]string, 0, len(entry.Steps))

	for _, step := range entry.Steps {
		switch step.Op {
		case culture.OpGreeting:
			parts = append(parts, entry.Greeting)
			notes = append(notes, fmt.Sprintf("added greeting: %q", entry.Greeting))
		case culture.OpPreamble:
			parts = append(parts, step.Text)
			notes = append(notes, fmt.Sprintf("added preamble: %q", step.Text))
		case culture.OpContent:
			parts = append(parts, content)
		case culture.OpAppend:
			parts = append(parts, step.Text)
			notes = append(notes, fmt.Sprintf("appended: %q", step.Text))
		case culture.OpClosing:
			parts = append(parts, entry.Closing)
			notes = append(notes, fmt.Sprintf("added closing: %q", entry.Closing))
		}
	}

	return strings.Join(parts, "\n\n"), notes
}

// refineOutcome is the tagged result of one Phase 2 attempt. Every failure
// mode (transport error, timeout, empty or wrong-language output) lands in
// err and is consumed by the single fallback branch in Adapt.
type refineOutcome struct {
	text string
	err  error
}

func (a *Adapter) refine(ctx context.Context, entry *culture.Entry, tpl prompt.Template, formality culture.Formality, structural string) refineOutcome {
	temperature := a.table.Refine.Temperature
	if temperature <= 0 {
		temperature = defaultRefineTemperature
	}
	maxTokens := a.table.Refine.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultRefineMaxTokens
	}

	genCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	res, err := a.gen.Generate(genCtx, generator.Request{
		Instruction: buildRefineInstruction(a.table, entry, tpl, formality, structural),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return refineOutcome{err: err}
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return refineOutcome{err: fmt.Errorf("refinement returned empty text")}
	}

	if a.checker != nil {
		if ok, err := a.checker.CheckLanguage(text, a.table.Code); !ok {
			return refineOutcome{err: fmt.Errorf("refinement language check failed: %v", err)}
		}
	}

	return refineOutcome{text: text}
}
