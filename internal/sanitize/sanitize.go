// Package sanitize cleans raw subprocess output before it is rendered into
// a document buffer.
package sanitize

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Policy maps single characters to replacement text. An empty replacement
// deletes the character. Policies extend to escaping further characters as
// needed; the zero-value Policy leaves text untouched.
type Policy map[rune]string

// Default drops carriage returns so CRLF output from the external tool
// renders as plain newlines.
func Default() Policy {
	return Policy{'\r': ""}
}

// Clean strips terminal control and color sequences from the chunk, then
// applies the policy remap. Cleaning is idempotent: a cleaned chunk passes
// through unchanged.
func Clean(chunk string, p Policy) string {
	chunk = ansi.Strip(chunk)

	if len(p) == 0 {
		return chunk
	}

	var b strings.Builder

	b.Grow(len(chunk))

	for _, r := range chunk {
		if rep, ok := p[r]; ok {
			b.WriteString(rep)

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
