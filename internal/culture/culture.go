// Package culture holds the declarative cultural rule tables that drive
// prompt adaptation: per-language mappings from (formality, domain) to
// structural fragments, refinement guidance, and the marker lists used by
// the metrics engine.
//
// Tables are pure data. Adding a language means adding a table; the
// orchestrator and metrics engine contain no per-language branching.
package culture

import (
	"fmt"
	"sort"
	"strings"
)

// Formality is the register a prompt variant is adapted to.
type Formality string

const (
	Casual  Formality = "casual"
	Neutral Formality = "neutral"
	Formal  Formality = "formal"
)

// Formalities lists all levels in ascending order of formality.
var Formalities = []Formality{Casual, Neutral, Formal}

// Rank returns the position of f in the casual < neutral < formal order.
// Used for comparative reporting only; adaptation treats levels as
// independent table keys.
func (f Formality) Rank() int {
	for i, v := range Formalities {
		if v == f {
			return i
		}
	}
	return -1
}

// Valid reports whether f is one of the three enumerated levels.
func (f Formality) Valid() bool {
	return f.Rank() >= 0
}

// ParseFormality converts a user-supplied string to a Formality.
func ParseFormality(s string) (Formality, error) {
	f := Formality(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown formality level %q (expected casual, neutral or formal)", s)
	}
	return f, nil
}

// Domain is the communicative category of a prompt template.
type Domain string

const (
	Business      Domain = "business"
	Technical     Domain = "technical"
	Creative      Domain = "creative"
	Persuasive    Domain = "persuasive"
	Instructional Domain = "instructional"
)

// Domains lists all supported template domains.
var Domains = []Domain{Business, Technical, Creative, Persuasive, Instructional}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	for _, v := range Domains {
		if v == d {
			return true
		}
	}
	return false
}

// ParseDomain converts a user-supplied string to a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown domain %q", s)
	}
	return d, nil
}

// Directness is a language's communication bias for a given register.
type Directness string

const (
	// Direct favours stating the point first with minimal relational framing.
	Direct Directness = "direct"
	// Relational favours warmth and relationship-building before the point.
	Relational Directness = "relational"
)

// StepOp identifies a structural transformation applied during Phase 1.
type StepOp string

const (
	// OpGreeting prefixes the entry's greeting.
	OpGreeting StepOp = "greeting"
	// OpPreamble inserts the step's own text before the content.
	OpPreamble StepOp = "preamble"
	// OpContent inserts the template content. Exactly one per step list.
	OpContent StepOp = "content"
	// OpAppend appends the step's own text after the content.
	OpAppend StepOp = "append"
	// OpClosing appends the entry's closing.
	OpClosing StepOp = "closing"
)

// Step is a single ordered transformation in a rule-table entry.
type Step struct {
	Op   StepOp `yaml:"op"`
	Text string `yaml:"text,omitempty"`
}

// Entry is the rule-table value for one (formality, domain) key.
type Entry struct {
	Greeting   string     `yaml:"greeting"`
	Closing    string     `yaml:"closing"`
	Pronoun    string     `yaml:"pronoun"`
	Directness Directness `yaml:"directness"`
	Steps      []Step     `yaml:"steps"`
}

// Markers are the language's known register and structure markers, consumed
// by the metrics engine. These lists are configuration seeded from observed
// usage; they are not exhaustive.
type Markers struct {
	// FormalRegister and CasualRegister hold pronoun or other register
	// markers (Sie/du, usted/tú; for languages without a pronoun split,
	// stock phrases such as "Dear" or "Sincerely").
	FormalRegister    []string `yaml:"formal_register"`
	CasualRegister    []string `yaml:"casual_register"`
	Greetings         []string `yaml:"greetings"`
	Closings          []string `yaml:"closings"`
	RelationalPhrases []string `yaml:"relational_phrases"`
	Idioms            []string `yaml:"idioms"`
}

// RefineConfig controls the optional Phase 2 generative refinement.
type RefineConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Table is the complete rule table for one language. Tables are built by
// the loader (see Load) and must not be mutated after startup.
type Table struct {
	Code     string
	Name     string
	Entries  map[Formality]map[Domain]*Entry
	Guidance map[Formality]string
	Refine   RefineConfig
	Markers  Markers
}

// Entry returns the rule-table entry for (formality, domain). A missing
// entry is a configuration defect, reported as *ConfigError.
func (t *Table) Entry(f Formality, d Domain) (*Entry, error) {
	if byDomain, ok := t.Entries[f]; ok {
		if e, ok := byDomain[d]; ok && e != nil {
			return e, nil
		}
	}
	return nil, &ConfigError{Language: t.Code, Formality: f, Domain: d}
}

// Set is a read-only collection of language tables keyed by code.
type Set struct {
	tables map[string]*Table
}

// NewSet builds a Set from tables. Codes are lowercased.
func NewSet(tables ...*Table) *Set {
	s := &Set{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		s.tables[strings.ToLower(t.Code)] = t
	}
	return s
}

// Table resolves a language code, returning *UnsupportedLanguageError for
// unknown codes.
func (s *Set) Table(code string) (*Table, error) {
	t, ok := s.tables[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return nil, &UnsupportedLanguageError{Code: code, Known: s.Codes()}
	}
	return t, nil
}

// Codes returns the registered language codes in sorted order.
func (s *Set) Codes() []string {
	codes := make([]string, 0, len(s.tables))
	for code := range s.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Tables returns all tables ordered by code.
func (s *Set) Tables() []*Table {
	out := make([]*Table, 0, len(s.tables))
	for _, code := range s.Codes() {
		out = append(out, s.tables[code])
	}
	return out
}

// ConfigError reports a missing rule-table entry for a claimed
// (formality, domain) combination. It is fatal and never retried.
type ConfigError struct {
	Language  string
	Formality Formality
	Domain    Domain
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("no rule-table entry for language %q, formality %q, domain %q",
		e.Language, e.Formality, e.Domain)
}

// UnsupportedLanguageError reports an unregistered language code along with
// the codes that are registered.
type UnsupportedLanguageError struct {
	Code  string
	Known []string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (known: %s)", e.Code, strings.Join(e.Known, ", "))
}
