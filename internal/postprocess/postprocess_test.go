package postprocess_test

import (
	"testing"

	"github.com/valpere/promptadapt/internal/postprocess"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text untouched",
			input: "Bitte senden Sie den Bericht.",
			want:  "Bitte senden Sie den Bericht.",
		},
		{
			name:  "thinking block removed",
			input: "<thinking>the user wants formality</thinking>Bitte senden Sie den Bericht.",
			want:  "Bitte senden Sie den Bericht.",
		},
		{
			name:  "unclosed reasoning tag removed",
			input: "Bitte senden Sie den Bericht.\n<think>I should also",
			want:  "Bitte senden Sie den Bericht.",
		},
		{
			name:  "intro echo removed",
			input: "Here's the adapted prompt: Bitte senden Sie den Bericht.",
			want:  "Bitte senden Sie den Bericht.",
		},
		{
			name:  "refined echo removed",
			input: "The refined version: Bitte senden Sie den Bericht.",
			want:  "Bitte senden Sie den Bericht.",
		},
		{
			name:  "wrapping quotes removed",
			input: `"Bitte senden Sie den Bericht."`,
			want:  "Bitte senden Sie den Bericht.",
		},
		{
			name:  "guillemets removed",
			input: "«Bitte senden Sie den Bericht.»",
			want:  "Bitte senden Sie den Bericht.",
		},
		{
			name:  "interior quotes preserved",
			input: `Er sagte "bitte" und ging.`,
			want:  `Er sagte "bitte" und ging.`,
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "colon mid-sentence not an echo",
			input: "Note: the deadline is Friday.",
			want:  "Note: the deadline is Friday.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postprocess.Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
