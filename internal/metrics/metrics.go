// Package metrics scores adapted prompt variants. It offers two
// independently invokable capabilities: quantitative measurement (counts
// and ratios) and a qualitative rubric (bounded score plus rationale).
//
// Both are pure functions of their inputs. The marker lists they consult
// come from the cultural rule tables, never from code, so identical input
// always yields identical output.
package metrics

import (
	"github.com/valpere/promptadapt/internal/culture"
)

// Engine evaluates texts against the marker lists of a read-only table set.
type Engine struct {
	set *culture.Set
}

// NewEngine creates a metrics engine over the given language tables.
func NewEngine(set *culture.Set) *Engine {
	return &Engine{set: set}
}

// QuantReport holds the quantitative measurements for one text. All counts
// are non-negative; ratios are zero when their denominator is zero.
type QuantReport struct {
	Language          string  `json:"language"`
	TokenCount        int     `json:"token_count"`
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	UniqueWords       int     `json:"unique_words"`
	LexicalDiversity  float64 `json:"lexical_diversity"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	CharCount         int     `json:"char_count"`
	CharCountNoSpace  int     `json:"char_count_no_space"`
	QuestionMarks     int     `json:"question_marks"`
	ExclamationMarks  int     `json:"exclamation_marks"`
	HasGreeting       bool    `json:"has_greeting"`
	HasClosing        bool    `json:"has_closing"`
	FormalRegister    bool    `json:"formal_register"`
	CasualRegister    bool    `json:"casual_register"`
	// RegisterMatch is true when the detected register markers are
	// consistent with the expected formality: a marker of the expected
	// register is present and none of the opposite register.
	RegisterMatch bool `json:"register_match"`
}

// QualReport holds the rubric-based cultural appropriateness assessment.
type QualReport struct {
	Language  string            `json:"language"`
	Formality culture.Formality `json:"formality"`
	Domain    culture.Domain    `json:"domain"`
	// Score is clamped to [1.0, 5.0].
	Score     float64  `json:"score"`
	Rating    string   `json:"rating"`
	Rationale []string `json:"rationale"`
}

// Rating buckets for the qualitative score.
func rating(score float64) string {
	switch {
	case score >= 4.5:
		return "Excellent"
	case score >= 3.5:
		return "Good"
	case score >= 2.5:
		return "Adequate"
	case score >= 1.5:
		return "Poor"
	default:
		return "Inappropriate"
	}
}
