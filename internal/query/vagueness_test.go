package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectVagueness(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		vague bool
	}{
		{name: "empty", text: "", vague: true},
		{name: "whitespace only", text: "   \t ", vague: true},
		{name: "generic ask", text: "Tell me about law", vague: true},
		{name: "single generic word", text: "help", vague: true},
		{name: "legal help", text: "I need legal help", vague: true},
		{name: "short anchored question", text: "What is an FIR?", vague: false},
		{name: "bare anchor", text: "bail", vague: false},
		{name: "section number", text: "420", vague: false},
		{name: "incident description", text: "My brother was arrested", vague: false},
		{name: "long incident without anchor word", text: "my neighbour keeps dumping garbage into our shared compound every single night", vague: false},
		{name: "short non-generic", text: "money problem", vague: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := DetectVagueness(tt.text)
			require.Equal(t, tt.vague, verdict.IsVague)
			if tt.vague {
				require.NotEmpty(t, verdict.Reason)
			}
		})
	}
}

func TestDetectVaguenessDeterministic(t *testing.T) {
	first := DetectVagueness("Tell me about law")
	second := DetectVagueness("Tell me about law")
	require.Equal(t, first, second)
}
