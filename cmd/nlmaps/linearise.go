package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	mrl "github.com/carolinlawrence/nlmaps-mrl"
	"github.com/carolinlawrence/nlmaps-mrl/corpus"
	"github.com/carolinlawrence/nlmaps-mrl/internal/progress"
)

const lineariseOutputSuffix = ".linear"

func lineariseCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "linearise",
		Usage:     "Escape and linearise surface queries into token@arity form",
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
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runLinearise(ctx, cmd, logger)
		},
	}
}

func runLinearise(_ context.Context, cmd *cli.Command, logger *zap.Logger) error {
	dialect, err := mrl.NewDialect(cmd.String("dialect"))
	if err != nil {
		return err
	}

	args := cmd.Args().Slice()

	if len(args) == 0 {
		return lineariseStream(os.Stdin, outputWriter(cmd.String("output")), dialect)
	}

	files, err := corpus.Collect(args, "")
	if err != nil {
		return err
	}

	reporter := progress.New(os.Stdout)

	lineCounts := make(map[string]int, len(files))

	for _, file := range files {
		lines, err := corpus.ReadLines(file)
		if err != nil {
			return err
		}

		lineCounts[file] = len(lines)
	}

	if err := reporter.Start(len(files)); err != nil {
		return err
	}

	failures := 0

	for _, file := range files {
		start := time.Now()

		ok, err := lineariseFile(file, dialect, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		if !ok {
			failures++
		}

		if err := reporter.Report(progress.Item{Label: file, OK: ok, Elapsed: time.Since(start)}); err != nil {
			return err
		}
	}

	return reporter.Summary(progress.Result{Total: len(files), OK: len(files) - failures, Failed: failures})
}

func lineariseFile(path string, dialect mrl.Dialect, logger *zap.Logger) (bool, error) {
	lines, err := corpus.ReadLines(path)
	if err != nil {
		return false, err
	}

	ok := true

	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}

		atoms := dialect.Linearise(dialect.Escape(line))
		if len(atoms) == 0 {
			logger.Debug("empty linearisation", zap.String("file", path), zap.String("line", line))

			ok = false
		}

		out = append(out, strings.Join(atoms, " "))
	}

	if err := corpus.WriteLines(path+lineariseOutputSuffix, out); err != nil {
		return false, err
	}

	return ok, nil
}

func lineariseStream(in io.Reader, out io.Writer, dialect mrl.Dialect) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(out) //nolint:errcheck

			continue
		}

		atoms := dialect.Linearise(dialect.Escape(line))

		if _, err := fmt.Fprintln(out, strings.Join(atoms, " ")); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func outputWriter(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}

	f, err := os.Create(path) //#nosec G304 -- path comes from user flag
	if err != nil {
		return os.Stdout
	}

	return f
}
