// Package postprocess strips common LLM artifacts from refinement output
// before it replaces the structurally adapted text.
package postprocess

import (
	"regexp"
	"strings"
)

// reasoningRe matches complete reasoning blocks. Tag variants are listed
// explicitly because RE2 has no backreferences.
var reasoningRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// danglingReasoningRe matches a reasoning tag that was never closed (the
// model ran out of tokens mid-thought).
var danglingReasoningRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>).*$`,
)

// echoRes match introductory phrases models prepend even when told not to.
// Anchored to the start and requiring a colon to avoid eating real content.
var echoRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here(?:'s| is)(?: the)? (?:adapted |refined |rewritten )?(?:prompt|text|version)\s*:`),
	regexp.MustCompile(`(?i)^(?:the )?(?:adapted|refined|rewritten) (?:prompt|text|version)\s*:`),
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.]? here(?:'s| is)(?: the)? (?:adapted |refined )?(?:prompt|text)\s*:`),
}

// quotePairs are outer wrapping quotes models sometimes add around the
// whole output.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'«', '»'},
	{'“', '”'},
	{'‘', '’'},
}

// Clean removes reasoning blocks, instruction echoes, and whole-text quote
// wrapping from raw generator output and returns the trimmed result.
func Clean(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(danglingReasoningRe.ReplaceAllString(text, ""))

	for _, re := range echoRes {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}

	return unwrapQuotes(text)
}

func unwrapQuotes(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	for _, pair := range quotePairs {
		if runes[0] == pair[0] && runes[len(runes)-1] == pair[1] {
			return strings.TrimSpace(string(runes[1 : len(runes)-1]))
		}
	}
	return text
}
