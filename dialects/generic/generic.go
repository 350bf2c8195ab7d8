// Package generic registers the "generic" dialect: the identity transform
// for an already-tokenised MRL that needs no sentinel escaping of its own.
// It exists so the dialect registry is never empty and so a caller can
// exercise the Linearise/Reconstruct machinery on a trivial language while
// testing the CLI plumbing.
package generic

import (
	"strconv"
	"strings"

	mrl "github.com/carolinlawrence/nlmaps-mrl"
)

func init() {
	mrl.RegisterDialect("generic", func() mrl.Dialect { return Dialect{} })
}

// Dialect is the no-op MRL transform: no sentinel substitution, arity
// counted the same way as nlmaps, reconstruction never re-quotes a value.
type Dialect struct{}

var _ mrl.Dialect = Dialect{}

// Name implements mrl.Dialect.
func (Dialect) Name() string { return "generic" }

// QuoteFunctors implements mrl.Dialect. The generic dialect has no value
// heuristic: nothing is re-quoted on reconstruction.
func (Dialect) QuoteFunctors() map[string]bool { return nil }

// Escape implements mrl.Dialect as the identity function.
func (Dialect) Escape(query string) string { return query }

// Decode implements mrl.Dialect as the identity function.
func (Dialect) Decode(escaped string) string { return escaped }

// Linearise implements mrl.Dialect by counting parenthesis/comma depth
// exactly like nlmaps, but without any leaf-quoting awareness: a bare
// token is simply whatever arity its following parenthesis group implies.
func (Dialect) Linearise(escaped string) []string {
	justWords := strings.NewReplacer("(", " ", ")", " ", ",", " ").Replace(escaped)

	var atoms []string

	seen := make(map[string]int)

	for _, element := range strings.Fields(justWords) {
		seen[element]++

		remainder := nthOccurrence(escaped, element, seen[element])
		atoms = append(atoms, element+"@"+strconv.Itoa(countArguments(remainder)))
	}

	return atoms
}

// Reconstruct implements mrl.Dialect, inverting Linearise without ever
// re-quoting a leaf value.
func (Dialect) Reconstruct(atoms []string) (string, bool) {
	var (
		stackArity []int
		out        []string
		complete   bool
	)

	for _, atom := range atoms {
		if complete {
			return "", false
		}

		idx := strings.LastIndex(atom, "@")
		if idx < 0 {
			return "", false
		}

		body, aritySuffix := atom[:idx], atom[idx+1:]

		arity, err := strconv.Atoi(aritySuffix)
		if err != nil || arity < 0 {
			return "", false
		}

		if arity > 0 {
			out = append(out, body, "(")
			stackArity = append(stackArity, arity)

			continue
		}

		out = append(out, body)

		for len(stackArity) > 0 {
			top := stackArity[len(stackArity)-1]
			stackArity = stackArity[:len(stackArity)-1]

			if top > 1 {
				out = append(out, ",")
				stackArity = append(stackArity, top-1)

				break
			}

			out = append(out, ")")
		}

		complete = len(stackArity) == 0
	}

	if !complete {
		return "", false
	}

	return strings.Join(out, ""), true
}

func nthOccurrence(s, element string, n int) string {
	idx := 0

	for n > 0 {
		pos := strings.Index(s[idx:], element)
		if pos < 0 {
			return ""
		}

		idx += pos + len(element)
		n--
	}

	return s[idx:]
}

func countArguments(s string) int {
	argsFound := false
	numBrackets := 0
	numCommas := 0

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if !((!argsFound && numBrackets == 0) || (argsFound && numBrackets > 0)) {
			break
		}

		switch c := runes[i]; {
		case c == '(':
			argsFound = true
			numBrackets++
		case c == ')':
			numBrackets--
		case numBrackets == 1 && c == ',':
			numCommas++
		case numBrackets < 1 && c == ',':
			i = len(runes)
		}
	}

	if !argsFound {
		return 0
	}

	return numCommas + 1
}
