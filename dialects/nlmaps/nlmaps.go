// Package nlmaps implements the nlmaps dialect: a functional query language
// for natural-language questions over OpenStreetMap data, of the shape
//
//	query(area(keyval('name','Paris')),nwr(keyval('cuisine','japanese')),qtype(count))
//
// Escape and Linearise turn a surface query into the flat token stream a
// sequence-to-sequence learner consumes; Reconstruct and Decode invert the
// process.
package nlmaps

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	mrl "github.com/carolinlawrence/nlmaps-mrl"
)

const (
	savecomma    = "SAVECOMMA"
	savaepo      = "SAVEAPO"
	bracketOpen  = "BRACKETOPEN"
	bracketClose = "BRACKETCLOSE"
	spaceGuard   = "€"
)

func init() {
	mrl.RegisterDialect("nlmaps", func() mrl.Dialect { return Dialect{} })
}

// Dialect is the nlmaps MRL transform.
type Dialect struct{}

var _ mrl.Dialect = Dialect{}

// Name implements mrl.Dialect.
func (Dialect) Name() string { return "nlmaps" }

// QuoteFunctors implements mrl.Dialect. The first argument of keyval or
// findkey (the atom directly after the functor) is re-quoted as a string on
// reconstruction even when its own atom has arity 0, since the surface
// grammar requires a quoted key there.
func (Dialect) QuoteFunctors() map[string]bool {
	return map[string]bool{
		"keyval":  true,
		"findkey": true,
	}
}

var (
	reSaveComma    = regexp.MustCompile(`(','[^()]*?),([^()]*?')`)
	reBracketOpen  = regexp.MustCompile(`,' *([^()]*?)\((.*?) *'\)`)
	reBracketClose = regexp.MustCompile(`,' *([^()]*?)\)([^()]*?) *'\)`)
	reAndPair      = regexp.MustCompile(`and\(' *([^()]+?) *',' *([^()]+?) *'\)`)
	reSingleQuoted = regexp.MustCompile(`\(' *([^()]+?) *'\)`)
	reOrPair       = regexp.MustCompile(`([,)(])or\(([^()]+?)','([^()]+?)@s\)`)
	reWhitespace   = regexp.MustCompile(`\s+`)
)

// Escape implements mrl.Dialect. It rewrites the problematic punctuation
// hiding inside quoted leaves into textual sentinels, tags the leaves its
// own regexes can already see as string atoms, and strips the now-redundant
// quote marks. What remains is a valid surface query that Linearise can walk
// purely by counting parentheses and commas.
func (Dialect) Escape(query string) string {
	out := query

	out = reSaveComma.ReplaceAllString(out, "${1}"+savecomma+"${2}")
	out = reBracketOpen.ReplaceAllString(out, ",'${1}"+bracketOpen+"${2}')")
	out = reBracketClose.ReplaceAllString(out, ",'${1}"+bracketClose+"${2}')")
	out = strings.ReplaceAll(out, " ", spaceGuard)
	out = escapeInteriorApostrophes(out)
	out = reAndPair.ReplaceAllString(out, "and(${1}@s','${2}@s)")
	out = reSingleQuoted.ReplaceAllString(out, "(${1}@s)")
	out = reOrPair.ReplaceAllString(out, "${1}or(${2}@s','${3}@s)")
	out = reWhitespace.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, "'", "")
	out = strings.TrimSpace(out)

	return out
}

// escapeInteriorApostrophes replaces every apostrophe that sits strictly
// between two non-delimiter characters (i.e. is not adjacent to a comma or
// parenthesis) with SAVEAPO. The original Python implementation expresses
// this with a lookaround regex; Go's RE2 engine has none, so this walks the
// rune stream and checks the neighbour on each side directly.
func escapeInteriorApostrophes(s string) string {
	runes := []rune(s)

	isDelimiter := func(r rune) bool {
		return r == ',' || r == '(' || r == ')'
	}

	var b strings.Builder

	for i, r := range runes {
		if r != '\'' {
			b.WriteRune(r)
			continue
		}

		hasPrev := i > 0 && !isDelimiter(runes[i-1])
		hasNext := i < len(runes)-1 && !isDelimiter(runes[i+1])

		if hasPrev && hasNext {
			b.WriteString(savaepo)
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Decode implements mrl.Dialect. It is the inverse of the sentinel
// substitutions Escape introduced; it is applied to a fully reconstructed
// surface query, after Reconstruct has already restored quote marks and
// space guards inside leaf values.
func (Dialect) Decode(escaped string) string {
	out := escaped
	out = strings.ReplaceAll(out, savaepo, "'")
	out = strings.ReplaceAll(out, bracketOpen, "(")
	out = strings.ReplaceAll(out, bracketClose, ")")
	out = strings.ReplaceAll(out, savecomma, ",")

	return out
}

// Linearise implements mrl.Dialect.
func (Dialect) Linearise(escaped string) []string {
	justWords := strings.NewReplacer("(", " ", ")", " ", ",", " ").Replace(escaped)

	seen := make(map[string]int)

	var atoms []string

	for _, element := range strings.Fields(justWords) {
		seen[element]++

		if strings.HasSuffix(element, "@s") {
			atoms = append(atoms, element)
			continue
		}

		remainder := deleteFirstNOccurrences(escaped, element, seen[element])
		args := CountArguments(remainder)
		atoms = append(atoms, fmt.Sprintf("%s@%d", element, args))
	}

	return atoms
}

// deleteFirstNOccurrences returns the suffix of s that follows the n-th
// whole-word occurrence of element, or "" if there are fewer than n.
func deleteFirstNOccurrences(s, element string, n int) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(element) + `\b`)

	for n > 0 {
		loc := pattern.FindStringIndex(s)
		if loc == nil {
			return ""
		}

		s = s[loc[1]:]
		n--
	}

	return s
}

// CountArguments scans a partial query and counts how many arguments the
// first occurring functor has, by tracking parenthesis depth and counting
// top-level commas. A bare token with no following "(" has zero arguments.
func CountArguments(s string) int {
	runes := []rune(s)

	argsFound := false
	numBrackets := 0
	numCommas := 0

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

// Reconstruct implements mrl.Dialect. It walks a flat atom@arity stream with
// a stack of outstanding argument counts, emitting "(" whenever a functor
// opens a new argument list and ")"/"," whenever the innermost list drains.
func (d Dialect) Reconstruct(atoms []string) (string, bool) {
	quoteFunctors := d.QuoteFunctors()

	var (
		stackArity []int
		out        []string
		prev       string
		complete   bool
	)

	for _, atom := range atoms {
		if complete {
			return "", false
		}

		body, aritySuffix, ok := splitLastAt(atom)
		if !ok {
			return "", false
		}

		aritySFound := aritySuffix == "s"

		var arity int

		if !aritySFound {
			n, err := strconv.Atoi(aritySuffix)
			if err != nil || n < 0 {
				return "", false
			}

			arity = n
		}

		switch {
		case arity > 0:
			out = append(out, body, "(")
			stackArity = append(stackArity, arity)
		default:
			if aritySFound && len(stackArity) == 0 {
				return "", false
			}

			if aritySFound || quoteFunctors[prev] {
				body = strings.ReplaceAll(body, spaceGuard, " ")
				body = "'" + body + "'"
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

		prev = body
	}

	if !complete {
		return "", false
	}

	return strings.Join(out, ""), true
}

// splitLastAt splits an atom at its final "@", separating the token body
// from its arity suffix ("0".."9" or "s"). ok is false if there is no "@".
func splitLastAt(atom string) (body, aritySuffix string, ok bool) {
	idx := strings.LastIndex(atom, "@")
	if idx < 0 {
		return "", "", false
	}

	return atom[:idx], atom[idx+1:], true
}

// InsertPassThrough repairs atoms that the learner emitted without an "@"
// suffix at all: such a bare token is assumed to have been copied verbatim
// from the stemmed source sentence, so it is replaced by the corresponding
// word from the non-stemmed sentence, tagged as a string atom. lin, nonStemmed
// and stemmed must already be tokenised on whitespace; nonStemmed and stemmed
// must be the same length or lin is returned unchanged.
func InsertPassThrough(lin, nonStemmed, stemmed []string) []string {
	if len(nonStemmed) != len(stemmed) {
		return lin
	}

	out := make([]string, len(lin))
	copy(out, lin)

	for i, element := range out {
		if strings.Contains(element, "@") {
			continue
		}

		for j, stemmedElement := range stemmed {
			if element == stemmedElement {
				out[i] = nonStemmed[j] + "@s"
			}
		}
	}

	return out
}

// AddMissingSuffix appends "@s" to any atom whose last two characters are
// not of the form "@x" (a single-character arity digit or "s"), recovering
// from a learner that dropped the tag on a pass-through token entirely.
func AddMissingSuffix(atoms []string) []string {
	out := make([]string, len(atoms))

	for i, atom := range atoms {
		r := []rune(atom)
		if len(r) >= 2 && r[len(r)-2] == '@' {
			out[i] = atom
			continue
		}

		out[i] = atom + "@s"
	}

	return out
}

// StripTopXTags normalises the <topx>/</topx> bracketing some corpora use to
// mark the result-limit argument, collapsing it into the ordinary arity-tag
// vocabulary before the line is split into atoms: "<topx>" is dropped and
// "</topx>" becomes the zero-arity marker "@0".
func StripTopXTags(line string) string {
	line = strings.ReplaceAll(line, "<topx>", "")
	line = strings.ReplaceAll(line, "</topx>", "@0")

	return line
}
