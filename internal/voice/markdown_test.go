package voice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "Bail means temporary release.", want: "Bail means temporary release."},
		{name: "heading and emphasis", in: "## What the law says\n\nBail is a **right** in *bailable* offences.", want: "What the law says\nBail is a right in bailable offences."},
		{name: "list items", in: "- go to the police station\n- narrate the incident", want: "go to the police station narrate the incident"},
		{name: "inline code keeps literal text", in: "Use form `FIR-1` at the desk.", want: "Use form FIR-1 at the desk."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StripMarkdown(tt.in))
		})
	}
}
