package metrics

import (
	"fmt"
	"strings"

	"github.com/valpere/promptadapt/internal/culture"
)

// Rubric weights. The scale starts at minScore and the weights sum to the
// remaining headroom, so a text that passes every check reaches exactly
// maxScore.
const (
	minScore = 1.0
	midScore = 3.0
	maxScore = 5.0

	weightFormality  = 1.5
	weightGreeting   = 0.75
	weightClosing    = 0.75
	weightDirectness = 0.5
	weightIdiom      = 0.5
)

// Assess scores the cultural appropriateness of text against a
// deterministic rubric. A matching formality marker is required for any
// score above the midpoint. Unknown language codes fail with
// *culture.UnsupportedLanguageError; a missing rule-table entry for the
// (formality, domain) key is a configuration error. Empty text scores the
// minimum without error.
func (e *Engine) Assess(text, lang string, formality culture.Formality, domain culture.Domain) (*QualReport, error) {
	table, err := e.set.Table(lang)
	if err != nil {
		return nil, err
	}

	entry, err := table.Entry(formality, domain)
	if err != nil {
		return nil, err
	}

	r := &QualReport{
		Language:  table.Code,
		Formality: formality,
		Domain:    domain,
	}

	if strings.TrimSpace(text) == "" {
		r.Score = minScore
		r.Rating = rating(minScore)
		r.Rationale = []string{"empty text: minimum score"}
		return r, nil
	}

	m := table.Markers
	score := minScore

	formalPresent := anyMarker(text, m.FormalRegister)
	casualPresent := anyMarker(text, m.CasualRegister)
	formalityOK := registerMatches(formalPresent, casualPresent, formality)
	if formalityOK {
		score += weightFormality
		r.Rationale = append(r.Rationale, fmt.Sprintf("register markers match target formality %q", formality))
	} else {
		r.Rationale = append(r.Rationale, fmt.Sprintf("no consistent register marker for target formality %q", formality))
	}

	if anyMarker(text, m.Greetings) {
		score += weightGreeting
		r.Rationale = append(r.Rationale, "recognized greeting present")
	} else {
		r.Rationale = append(r.Rationale, "no recognized greeting")
	}

	if anyMarker(text, m.Closings) {
		score += weightClosing
		r.Rationale = append(r.Rationale, "recognized closing present")
	} else {
		r.Rationale = append(r.Rationale, "no recognized closing")
	}

	relational := anyMarker(text, m.RelationalPhrases)
	wantRelational := entry.Directness == culture.Relational
	if relational == wantRelational {
		score += weightDirectness
		r.Rationale = append(r.Rationale, fmt.Sprintf("directness matches the language's %q bias", entry.Directness))
	} else if wantRelational {
		r.Rationale = append(r.Rationale, "missing relational preamble expected for this language")
	} else {
		r.Rationale = append(r.Rationale, "relational preamble present despite direct bias")
	}

	if anyMarker(text, m.Idioms) {
		score += weightIdiom
		r.Rationale = append(r.Rationale, "idiomatic marker present")
	}

	// The formality marker is a gate: without it the score cannot exceed
	// the midpoint regardless of other checks.
	if !formalityOK && score > midScore {
		score = midScore
		r.Rationale = append(r.Rationale, "score capped at midpoint: formality marker missing")
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	r.Score = score
	r.Rating = rating(score)
	return r, nil
}
