package adapter

import (
	"fmt"

	"github.com/valpere/promptadapt/internal/culture"
	"github.com/valpere/promptadapt/internal/prompt"
)

// buildRefineInstruction composes the Phase 2 instruction from the
// structural text, the target language, the formality level, and the
// table's per-formality guidance. The orchestrator embeds no language
// knowledge of its own.
func buildRefineInstruction(table *culture.Table, entry *culture.Entry, tpl prompt.Template, formality culture.Formality, structural string) string {
	name := table.Name
	if name == "" {
		name = table.Code
	}

	return fmt.Sprintf(`You are a %s cultural communication expert. Rewrite the text below so it reads as natural, culturally appropriate %s while keeping its structure.

GUIDANCE:
%s

RULES:
1. Preserve the greeting and closing lines EXACTLY as written (already culturally adapted).
2. Translate any remaining English content into %s.
3. Keep every {placeholder} variable unchanged, curly braces included.
4. Target formality: %s. Use the %q register consistently.
5. Domain: %s.

TEXT:
%s

Output ONLY the rewritten text in %s. Do not include any explanation.`,
		name, name,
		table.Guidance[formality],
		name,
		formality, entry.Pronoun,
		tpl.Domain,
		structural,
		name,
	)
}
