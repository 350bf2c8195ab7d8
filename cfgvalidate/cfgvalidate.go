// Package cfgvalidate wraps an external CFG decoder subprocess (the project
// this MRL was distilled from uses cdec) as the CFG Validator Adapter: it
// retokenises a surface query into the decoder's expected shape, runs it in
// an isolated scratch directory, and reports whether the decoder accepted
// or rejected it.
package cfgvalidate

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// noParseMarker is the literal substring the decoder writes to stderr when
// a query has no derivation under the grammar.
const noParseMarker = "NO PARSE"

// Validator runs queries against an external grammar decoder.
type Validator struct {
	// DecoderPath is the directory containing decoder/cdec, mirroring the
	// original NLmaps(cdec=...) constructor argument.
	DecoderPath string

	// GrammarPath is the SCFG grammar file passed to the decoder.
	GrammarPath string

	Logger *zap.Logger
}

// New returns a Validator, defaulting Logger to zap.NewNop() if nil.
func New(decoderPath, grammarPath string, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Validator{DecoderPath: decoderPath, GrammarPath: grammarPath, Logger: logger}
}

var (
	reNameValue     = regexp.MustCompile(`name:.*? \)`)
	reKeyvalSimple  = regexp.MustCompile(`keyval\( '([^()]+?)' , '[^()]+?' `)
	reKeyvalOr      = regexp.MustCompile(`keyval\( '([^()]+?)' , or\( '[^()]+?' , '[^()]+?' `)
	reKeyvalAnd     = regexp.MustCompile(`keyval\( '([^()]+?)' , and\( '[^()]+?' , '[^()]+?' `)
	reQuotedValue   = regexp.MustCompile(` '(.*?)' `)
	reTopX          = regexp.MustCompile(`topx\( (.*?) \)`)
	reMaxDist       = regexp.MustCompile(`maxdist\( (.*?) \)`)
	reTopXReplace   = regexp.MustCompile(`topx\( (.*?)\)`)
	reMaxDistReplace = regexp.MustCompile(`maxdist\( (.*?)\)`)
)

// retokenise rewrites a reconstructed surface query into the decoder's
// expected whitespace-padded, placeholder-normalised token stream: real
// values are not under grammar-test here, only the functor/arity shape.
func retokenise(mrl string) string {
	mrl = strings.ReplaceAll(mrl, "(", "( ")
	mrl = strings.ReplaceAll(mrl, ",", " , ")
	mrl = strings.ReplaceAll(mrl, ")", " )")

	mrl = reNameValue.ReplaceAllString(mrl, "name:lg )")
	mrl = reKeyvalSimple.ReplaceAllString(mrl, "keyval( '${1}' , 'valvariable' ")
	mrl = reKeyvalOr.ReplaceAllString(mrl, "keyval( '${1}' , or( 'valvariable' , 'valvariable' ")
	mrl = reKeyvalAnd.ReplaceAllString(mrl, "keyval( '${1}' , and( 'valvariable' , 'valvariable' ")
	mrl = reQuotedValue.ReplaceAllString(mrl, " ' ${1} ' ")

	mrl = spaceOutDigits(mrl, reTopX, reTopXReplace, "topx( ")
	mrl = spaceOutDigits(mrl, reMaxDist, reMaxDistReplace, "maxdist( ")

	return mrl
}

// spaceOutDigits inserts a space between every digit of a numeric argument,
// matching the decoder's expectation that numbers are tokenised digit by
// digit (e.g. "topx( 1 )" becomes "topx( 1 )" but "topx( 12 )" becomes
// "topx( 1 2 )").
func spaceOutDigits(mrl string, find, replaceTarget *regexp.Regexp, prefix string) string {
	m := find.FindStringSubmatch(mrl)
	if m == nil {
		return mrl
	}

	var spaced strings.Builder

	for _, digit := range m[1] {
		spaced.WriteRune(digit)
		spaced.WriteByte(' ')
	}

	return replaceTarget.ReplaceAllString(mrl, prefix+spaced.String()+")")
}

// Validate reports whether mrl is accepted by the grammar. It always
// returns false if DecoderPath is unset, mirroring the original's
// "no cdec configured" behaviour.
func (v *Validator) Validate(ctx context.Context, mrl string) (bool, error) {
	if v.DecoderPath == "" {
		return false, nil
	}

	scratch, err := os.MkdirTemp("", "nlmaps-cfgvalidate-")
	if err != nil {
		return false, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	v.Logger.Debug("validating MRL tree", zap.String("scratch_dir", scratch))

	retokenised := retokenise(mrl)

	iniPath := filepath.Join(scratch, "cdec_validate.ini")
	ini := strings.Join([]string{
		"formalism=scfg",
		"intersection_strategy=cube_pruning",
		"cubepruning_pop_limit=1000",
		"grammar=" + v.GrammarPath,
		"scfg_max_span_limit=1000",
		"",
	}, "\n")

	if err := os.WriteFile(iniPath, []byte(ini), 0o600); err != nil {
		return false, fmt.Errorf("writing decoder config: %w", err)
	}

	sentPath := filepath.Join(scratch, "sent.tmp")
	if err := os.WriteFile(sentPath, []byte(retokenised+"\n"), 0o600); err != nil {
		return false, fmt.Errorf("writing sentence file: %w", err)
	}

	decoderBin := filepath.Join(v.DecoderPath, "decoder", "cdec")

	sent, err := os.Open(sentPath) //#nosec G304 -- path built from the scratch dir we just created
	if err != nil {
		return false, fmt.Errorf("opening sentence file: %w", err)
	}
	defer sent.Close()

	cmd := exec.CommandContext(ctx, decoderBin, "-c", iniPath) //#nosec G204 -- decoder path is operator configuration
	cmd.Stdin = sent

	var stderr strings.Builder
	cmd.Stderr = &stderr
	cmd.Stdout = nil

	runErr := cmd.Run()

	v.Logger.Debug("decoder finished",
		zap.Error(runErr),
		zap.Int("stderr_len", stderr.Len()),
	)

	if strings.Contains(stderr.String(), noParseMarker) {
		return false, nil
	}

	if runErr != nil {
		return false, nil
	}

	return true, nil
}
