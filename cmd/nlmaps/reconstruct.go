package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	mrl "github.com/carolinlawrence/nlmaps-mrl"
	"github.com/carolinlawrence/nlmaps-mrl/cfgvalidate"
	"github.com/carolinlawrence/nlmaps-mrl/corpus"
	"github.com/carolinlawrence/nlmaps-mrl/dialects/nlmaps"
	"github.com/carolinlawrence/nlmaps-mrl/internal/scanpos"
)

const reconstructOutputSuffix = ".surface"

// failureMarker is what a reconstruction failure (or a blank input line) is
// written as, in both stream and file mode: the empty string, so a failed
// line comes out as a blank line and the output stays line-aligned.
const failureMarker = ""

func reconstructCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "reconstruct",
		Usage:     "Reconstruct surface queries from a token@arity stream",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dialect",
				Value: "nlmaps",
				Usage: "MRL dialect to apply",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file (stdin/no-args mode only; default stdout)",
			},
			&cli.BoolFlag{
				Name:  "repair-missing-suffix",
				Usage: "append @s to any atom with no arity suffix at all before reconstructing",
			},
			&cli.BoolFlag{
				Name:  "strip-topx",
				Usage: "normalise <topx>/</topx> decoder tags before splitting into atoms",
				Value: true,
			},
			&cli.StringFlag{
				Name:  "non-stemmed",
				Usage: "non-stemmed source corpus, line-aligned with the input, feeding pass-through repair",
			},
			&cli.StringFlag{
				Name:  "stemmed",
				Usage: "stemmed source corpus, line-aligned with the input, feeding pass-through repair",
			},
			&cli.StringFlag{
				Name:  "grammar",
				Usage: "CFG grammar file for the external decoder; defaults to the resolved config's grammarPath",
			},
			&cli.StringFlag{
				Name:  "decoder",
				Usage: "external decoder directory; defaults to the resolved config's decoderPath",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runReconstruct(ctx, cmd, logger)
		},
	}
}

// reconstructOptions bundles the optional post-passes functionalise composes
// around the Tree Reconstructor: Pass-Through Insertion (nonStemmed/stemmed)
// and CFG validation (validator), plus the two simpler repair flags.
type reconstructOptions struct {
	repairMissingSuffix bool
	stripTopX           bool
	nonStemmed          []string
	stemmed             []string
	validator           *cfgvalidate.Validator
}

func runReconstruct(ctx context.Context, cmd *cli.Command, logger *zap.Logger) error {
	dialect, err := mrl.NewDialect(cmd.String("dialect"))
	if err != nil {
		return err
	}

	opts, err := buildReconstructOptions(cmd, logger)
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()

	if len(args) == 0 {
		return reconstructStream(ctx, os.Stdin, outputWriter(cmd.String("output")), dialect, opts, logger)
	}

	files, err := corpus.Collect(args, "")
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := reconstructFile(ctx, file, dialect, opts, logger); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}

	return nil
}

// buildReconstructOptions resolves the pass-through corpora and the CFG
// validator from flags, falling back to the nearest .nlmaps.yaml for the
// grammar/decoder paths when the flags are left empty.
func buildReconstructOptions(cmd *cli.Command, logger *zap.Logger) (reconstructOptions, error) {
	opts := reconstructOptions{
		repairMissingSuffix: cmd.Bool("repair-missing-suffix"),
		stripTopX:           cmd.Bool("strip-topx"),
	}

	nonStemmedPath := cmd.String("non-stemmed")
	stemmedPath := cmd.String("stemmed")

	if nonStemmedPath != "" && stemmedPath != "" {
		nonStemmed, err := corpus.ReadLines(nonStemmedPath)
		if err != nil {
			return opts, err
		}

		stemmed, err := corpus.ReadLines(stemmedPath)
		if err != nil {
			return opts, err
		}

		opts.nonStemmed = nonStemmed
		opts.stemmed = stemmed
	}

	grammar := cmd.String("grammar")
	decoder := cmd.String("decoder")

	if grammar == "" || decoder == "" {
		if cfg, err := mrl.LoadConfig("."); err == nil {
			if grammar == "" {
				grammar = cfg.GrammarPath
			}

			if decoder == "" {
				decoder = cfg.DecoderPath
			}
		}
	}

	if decoder != "" {
		opts.validator = cfgvalidate.New(decoder, grammar, logger)
	}

	return opts, nil
}

func reconstructFile(ctx context.Context, path string, dialect mrl.Dialect, opts reconstructOptions, logger *zap.Logger) error {
	lines, err := corpus.ReadLines(path)
	if err != nil {
		return err
	}

	out := make([]string, 0, len(lines))

	for i, line := range lines {
		out = append(out, reconstructLine(ctx, line, i, dialect, opts, logger, path))
	}

	return corpus.WriteLines(path+reconstructOutputSuffix, out)
}

func reconstructStream(ctx context.Context, in io.Reader, out io.Writer, dialect mrl.Dialect, opts reconstructOptions, logger *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	i := 0

	for scanner.Scan() {
		surface := reconstructLine(ctx, scanner.Text(), i, dialect, opts, logger, "stdin")
		i++

		if _, err := fmt.Fprintln(out, surface); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func reconstructLine(ctx context.Context, line string, idx int, dialect mrl.Dialect, opts reconstructOptions, logger *zap.Logger, source string) string {
	if strings.TrimSpace(line) == "" {
		return failureMarker
	}

	if opts.stripTopX {
		line = nlmaps.StripTopXTags(line)
	}

	atoms := strings.Fields(line)

	if idx < len(opts.nonStemmed) && idx < len(opts.stemmed) {
		atoms = nlmaps.InsertPassThrough(atoms, strings.Fields(opts.nonStemmed[idx]), strings.Fields(opts.stemmed[idx]))
	}

	if opts.repairMissingSuffix {
		atoms = nlmaps.AddMissingSuffix(atoms)
	}

	escaped, ok := dialect.Reconstruct(atoms)
	if !ok {
		if atomIdx := scanpos.FirstUntagged(atoms); atomIdx >= 0 {
			pos := scanpos.AtIndex(source, atoms, atomIdx)
			logger.Debug("reconstruction failed",
				zap.String("source", source),
				zap.Int("line", pos.Line),
				zap.Int("column", pos.Column),
			)
		} else {
			logger.Debug("reconstruction failed", zap.String("source", source))
		}

		return failureMarker
	}

	surface := dialect.Decode(escaped)

	if opts.validator != nil {
		valid, err := opts.validator.Validate(ctx, escaped)
		if err != nil {
			logger.Debug("CFG validation errored", zap.String("source", source), zap.Error(err))
		} else {
			logger.Debug("CFG validation result", zap.String("source", source), zap.Bool("valid", valid))
		}
	}

	return surface
}
