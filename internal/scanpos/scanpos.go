// Package scanpos stamps a line/column position onto the point in an atom
// stream where the Tree Reconstructor gave up, for the Debug log line at the
// CLI boundary. It borrows participle's lexer.Position struct as a plain
// data carrier; no grammar or parser machinery from that package is used.
package scanpos

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// AtIndex returns the Position of the start of atoms[index] within the
// space-joined text of atoms, as if filename were the source of that text.
// It is a best-effort diagnostic aid: an out-of-range index returns the
// position at the end of the text.
func AtIndex(filename string, atoms []string, index int) lexer.Position {
	pos := lexer.Position{Filename: filename, Line: 1, Column: 1}

	for i, atom := range atoms {
		if i == index {
			return pos
		}

		advance(&pos, atom)

		if i < len(atoms)-1 {
			advance(&pos, " ")
		}
	}

	return pos
}

func advance(pos *lexer.Position, s string) {
	for _, r := range s {
		pos.Offset += utf8.RuneLen(r)

		if r == '\n' {
			pos.Line++
			pos.Column = 1

			continue
		}

		pos.Column++
	}
}

// Join renders atoms back into the single-line text AtIndex measures
// against, for callers that want to log the surrounding context too.
func Join(atoms []string) string {
	return strings.Join(atoms, " ")
}

// FirstUntagged returns the index of the first atom carrying no "@" suffix
// at all, or -1 if every atom has one. Reconstruction always fails on such an
// atom, so it is a reasonable diagnostic anchor when the caller only knows
// that reconstruction failed, not where.
func FirstUntagged(atoms []string) int {
	for i, atom := range atoms {
		if !strings.Contains(atom, "@") {
			return i
		}
	}

	return -1
}
