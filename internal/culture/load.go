package culture

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var builtinTables []byte

// rawLanguage is the YAML shape of one language table. Each formality block
// declares a default entry plus optional per-domain overrides; the loader
// expands this to the full formality × domain map so that lookups never fall
// through at runtime.
type rawLanguage struct {
	Code     string                 `yaml:"code"`
	Name     string                 `yaml:"name"`
	Levels   map[Formality]rawLevel `yaml:"levels"`
	Guidance map[Formality]string   `yaml:"guidance"`
	Refine   RefineConfig           `yaml:"refine"`
	Markers  Markers                `yaml:"markers"`
}

type rawLevel struct {
	Default   *Entry            `yaml:"default"`
	Overrides map[Domain]*Entry `yaml:"overrides"`
}

type rawFile struct {
	Languages []rawLanguage `yaml:"languages"`
}

// Builtin returns the embedded default tables (en, de, es).
func Builtin() (*Set, error) {
	return Parse(builtinTables)
}

// Load reads a language-table file from disk, falling back to the embedded
// defaults when path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read language tables: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML language tables.
func Parse(data []byte) (*Set, error) {
	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse language tables: %w", err)
	}
	if len(raw.Languages) == 0 {
		return nil, fmt.Errorf("language tables contain no languages")
	}

	tables := make([]*Table, 0, len(raw.Languages))
	for _, lang := range raw.Languages {
		t, err := expand(lang)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return NewSet(tables...), nil
}

func expand(lang rawLanguage) (*Table, error) {
	if lang.Code == "" {
		return nil, fmt.Errorf("language table without a code")
	}

	t := &Table{
		Code:     lang.Code,
		Name:     lang.Name,
		Entries:  make(map[Formality]map[Domain]*Entry, len(Formalities)),
		Guidance: lang.Guidance,
		Refine:   lang.Refine,
		Markers:  lang.Markers,
	}

	for _, f := range Formalities {
		level, ok := lang.Levels[f]
		if !ok || level.Default == nil {
			return nil, fmt.Errorf("language %q: %w", lang.Code,
				&ConfigError{Language: lang.Code, Formality: f, Domain: Business})
		}

		byDomain := make(map[Domain]*Entry, len(Domains))
		for _, d := range Domains {
			entry := level.Default
			if o, ok := level.Overrides[d]; ok && o != nil {
				entry = o
			}
			if err := validateEntry(lang.Code, f, d, entry); err != nil {
				return nil, err
			}
			byDomain[d] = entry
		}
		t.Entries[f] = byDomain
	}

	for lvl := range lang.Levels {
		if !lvl.Valid() {
			return nil, fmt.Errorf("language %q: unknown formality level %q", lang.Code, lvl)
		}
	}

	return t, nil
}

// validateEntry rejects step lists the orchestrator could not apply.
func validateEntry(code string, f Formality, d Domain, e *Entry) error {
	if len(e.Steps) == 0 {
		return fmt.Errorf("language %q, formality %q, domain %q: entry has no steps", code, f, d)
	}

	content := 0
	for i, step := range e.Steps {
		switch step.Op {
		case OpContent:
			content++
		case OpGreeting:
			if e.Greeting == "" {
				return fmt.Errorf("language %q, formality %q, domain %q: greeting step but no greeting text", code, f, d)
			}
		case OpClosing:
			if e.Closing == "" {
				return fmt.Errorf("language %q, formality %q, domain %q: closing step but no closing text", code, f, d)
			}
		case OpPreamble, OpAppend:
			if step.Text == "" {
				return fmt.Errorf("language %q, formality %q, domain %q: step %d (%s) has no text", code, f, d, i, step.Op)
			}
		default:
			return fmt.Errorf("language %q, formality %q, domain %q: unknown step op %q", code, f, d, step.Op)
		}
	}
	if content != 1 {
		return fmt.Errorf("language %q, formality %q, domain %q: step list must contain exactly one content step, got %d",
			code, f, d, content)
	}
	return nil
}
