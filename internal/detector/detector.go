// Package detector wraps the lingua-go language detector and provides a
// sanity check for refinement output: the generator is supposed to return
// text in the adapter's language, and output in the wrong language is
// treated as a generation failure by the orchestrator.
package detector

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// minCheckRunes is the minimum rune count for a language check. Detection
// on shorter texts is unreliable, so they pass without validation.
const minCheckRunes = 20

// Detector identifies the language of a text. Building the underlying
// lingua detector is expensive; construct once and reuse.
type Detector struct {
	det lingua.LanguageDetector
}

// New builds a detector over all languages lingua supports.
func New() *Detector {
	return &Detector{
		det: lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			Build(),
	}
}

// Detect returns the most likely language of text.
func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.det.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// CheckLanguage reports whether text appears to be written in wantLang.
// Short texts and texts whose language cannot be determined pass. When the
// detected language differs the returned error names both codes.
func (d *Detector) CheckLanguage(text, wantLang string) (bool, error) {
	if wantLang == "" {
		return true, nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false, fmt.Errorf("text is empty")
	}
	if len([]rune(trimmed)) < minCheckRunes {
		return true, nil
	}

	detected, ok := d.DetectISO(trimmed)
	if !ok {
		return true, nil
	}
	if !strings.EqualFold(detected, wantLang) {
		return false, fmt.Errorf("expected %s but detected %s", wantLang, detected)
	}
	return true, nil
}
