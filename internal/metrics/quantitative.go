package metrics

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/valpere/promptadapt/internal/culture"
)

// Measure computes the quantitative metrics of text for the given language,
// flagging the detected register against the expected formality. Unknown
// language codes fail with *culture.UnsupportedLanguageError; empty text
// yields an all-zero report, not an error.
func (e *Engine) Measure(text, lang string, expected culture.Formality) (*QuantReport, error) {
	table, err := e.set.Table(lang)
	if err != nil {
		return nil, err
	}

	r := &QuantReport{Language: table.Code}
	if strings.TrimSpace(text) == "" {
		return r, nil
	}

	words := splitWords(text, table.Code)
	r.WordCount = len(words)
	r.TokenCount = countTokens(text)
	r.SentenceCount = countSentences(text)
	r.UniqueWords = countUnique(words)
	if r.WordCount > 0 {
		r.LexicalDiversity = float64(r.UniqueWords) / float64(r.WordCount)
	}
	if r.SentenceCount > 0 {
		r.AvgSentenceLength = float64(r.WordCount) / float64(r.SentenceCount)
	}

	r.CharCount = utf8.RuneCountInString(text)
	for _, c := range text {
		switch {
		case unicode.IsSpace(c):
			// not counted in CharCountNoSpace
		default:
			r.CharCountNoSpace++
		}
		switch c {
		case '?', '¿':
			r.QuestionMarks++
		case '!', '¡':
			r.ExclamationMarks++
		}
	}

	m := table.Markers
	r.HasGreeting = anyMarker(text, m.Greetings)
	r.HasClosing = anyMarker(text, m.Closings)
	r.FormalRegister = anyMarker(text, m.FormalRegister)
	r.CasualRegister = anyMarker(text, m.CasualRegister)
	r.RegisterMatch = registerMatches(r.FormalRegister, r.CasualRegister, expected)

	return r, nil
}

// registerMatches implements the match/mismatch rule: the expected
// register's marker must be present and the opposite register's absent.
// Casual expects casual markers; neutral and formal both expect the formal
// register.
func registerMatches(formal, casual bool, expected culture.Formality) bool {
	if expected == culture.Casual {
		return casual && !formal
	}
	return formal && !casual
}

// splitWords returns the lowercased word tokens of text. Lowercasing is
// language-aware via x/text so that case folding follows the target
// language's rules.
func splitWords(text, lang string) []string {
	lower := cases.Lower(language.Make(lang))
	folded := lower.String(text)
	return strings.FieldsFunc(folded, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c) && c != '\''
	})
}

// countTokens counts word tokens plus standalone punctuation tokens.
func countTokens(text string) int {
	tokens := 0
	inWord := false
	for _, c := range text {
		switch {
		case unicode.IsLetter(c) || unicode.IsNumber(c) || c == '\'':
			if !inWord {
				tokens++
				inWord = true
			}
		case unicode.IsSpace(c):
			inWord = false
		default:
			tokens++
			inWord = false
		}
	}
	return tokens
}

// countSentences splits on runs of terminal punctuation and counts
// non-empty segments. Text without terminal punctuation is one sentence.
// Abbreviation collapsing is deliberately not attempted.
func countSentences(text string) int {
	segments := strings.FieldsFunc(text, func(c rune) bool {
		return c == '.' || c == '!' || c == '?' || c == '…'
	})
	count := 0
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			count++
		}
	}
	return count
}

func countUnique(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return len(seen)
}

// anyMarker reports whether any marker from the list occurs in text.
// Single-word markers match at word boundaries; multi-word phrases match as
// substrings. Matching is case-sensitive: register markers like German
// "Sie" vs "sie" are case-significant.
func anyMarker(text string, markers []string) bool {
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if strings.ContainsAny(marker, " \t") {
			if strings.Contains(text, marker) {
				return true
			}
			continue
		}
		if containsWord(text, marker) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in text delimited by non-letter
// runes on both sides.
func containsWord(text, word string) bool {
	for idx := 0; idx <= len(text)-len(word); {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		if letterBoundary(text, start, end) {
			return true
		}
		idx = start + 1
	}
	return false
}

func letterBoundary(text string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(prev) {
			return false
		}
	}
	if end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(next) {
			return false
		}
	}
	return true
}
