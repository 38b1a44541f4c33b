// Package output tests the plain-text rendering of shared output helpers.
// Related: internal/output/format.go
// Tags: output, terminal, color

package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrinters_NoColor(t *testing.T) {
	prev := color.NoColor
	SetColor(false)
	defer func() { color.NoColor = prev }()

	tests := map[string]struct {
		print func(*bytes.Buffer)
		want  string
	}{
		"success": {
			print: func(b *bytes.Buffer) { PrintSuccess(b, "wrote deno.json") },
			want:  "✓ wrote deno.json\n",
		},
		"warning": {
			print: func(b *bytes.Buffer) { PrintWarning(b, "no tags") },
			want:  "Warning: no tags\n",
		},
		"dry run": {
			print: func(b *bytes.Buffer) { PrintDryRun(b, "set a to 1.0.0") },
			want:  "→ Would: set a to 1.0.0\n",
		},
		"section": {
			print: func(b *bytes.Buffer) { PrintSection(b, "plan", 20) },
			want:  strings.Repeat("─", 7) + " plan " + strings.Repeat("─", 7) + "\n",
		},
		"narrow section": {
			print: func(b *bytes.Buffer) { PrintSection(b, "diagnostics", 5) },
			want:  "─── diagnostics ───\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestGetTerminalWidth(t *testing.T) {
	assert.Positive(t, GetTerminalWidth())
}
