package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/carolinlawrence/nlmaps-mrl/corpus"
	"github.com/carolinlawrence/nlmaps-mrl/internal/progress"
	"github.com/carolinlawrence/nlmaps-mrl/internal/scoring"
)

const emptyMarker = "empty"

// metricScore is the tally one hypothesis/gold file pair produces, enough
// to report either the f1 significance format of the original eval.py or
// the plain accuracy format of seq_eval.py.
type metricScore struct {
	tp, fp, empty, total int
	sigf                 []string // "tp fp total" per line, eval.py format
	sigfAccuracy         []int    // 1/0 per line, seq_eval.py format
	sigfAccuracyNeg      []int    // 1/-1 per line, seq_eval.py format
}

func evaluateCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "evaluate",
		Usage: "Score a hypothesis corpus against gold sequences",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "hypothesis file or directory"},
			&cli.StringFlag{Name: "gold", Aliases: []string{"g"}, Required: true, Usage: "gold file or directory"},
			&cli.StringFlag{Name: "metric", Value: "f1", Usage: "f1 or accuracy"},
			&cli.StringFlag{Name: "assert", Usage: "boolean expression over the metric env gating the exit code (single file pair only; not applied in directory mode)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runEvaluate(ctx, cmd, logger)
		},
	}
}

func runEvaluate(_ context.Context, cmd *cli.Command, logger *zap.Logger) error {
	metric := cmd.String("metric")
	if metric != "f1" && metric != "accuracy" {
		return fmt.Errorf("unknown metric %q: want f1 or accuracy", metric) //nolint:err113
	}

	inputInfo, err := os.Stat(cmd.String("input"))
	if err != nil {
		return err
	}

	if !inputInfo.IsDir() {
		return evaluatePair(cmd.String("input"), cmd.String("gold"), metric, cmd.String("assert"), logger)
	}

	hypFiles, err := corpus.Collect([]string{cmd.String("input")}, "")
	if err != nil {
		return err
	}

	goldFiles, err := corpus.Collect([]string{cmd.String("gold")}, "")
	if err != nil {
		return err
	}

	if len(hypFiles) != len(goldFiles) {
		return fmt.Errorf("input directory has %d files, gold directory has %d", len(hypFiles), len(goldFiles)) //nolint:err113
	}

	reporter := progress.New(os.Stdout)
	if err := reporter.Start(len(hypFiles)); err != nil {
		return err
	}

	failed := 0

	for i := range hypFiles {
		start := time.Now()

		err := evaluatePair(hypFiles[i], goldFiles[i], metric, "", logger)
		ok := err == nil

		if !ok {
			failed++
		}

		if rErr := reporter.Report(progress.Item{Label: hypFiles[i], OK: ok, Elapsed: time.Since(start)}); rErr != nil {
			return rErr
		}

		if err != nil {
			logger.Debug("evaluate pair failed", zap.String("input", hypFiles[i]), zap.Error(err))
		}
	}

	return reporter.Summary(progress.Result{Total: len(hypFiles), OK: len(hypFiles) - failed, Failed: failed})
}

func evaluatePair(inputPath, goldPath, metric, assertExpr string, logger *zap.Logger) error {
	hypos, err := corpus.ReadLines(inputPath)
	if err != nil {
		return err
	}

	golds, err := corpus.ReadLines(goldPath)
	if err != nil {
		return err
	}

	if metric == "accuracy" {
		return evaluateAccuracy(inputPath, hypos, golds, assertExpr, logger)
	}

	return evaluateF1(inputPath, hypos, golds, assertExpr, logger)
}

func evaluateF1(inputPath string, hypos, golds []string, assertExpr string, logger *zap.Logger) error {
	score := scoreF1(hypos, golds)

	recall, precision, f1 := 0.0, 0.0, 0.0

	if score.total != 0 {
		recall = float64(score.tp) / float64(score.total)
	}

	if score.tp+score.fp != 0 {
		precision = float64(score.tp) / float64(score.tp+score.fp)
	}

	if precision+recall != 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	summary := fmt.Sprintf("r: %v p: %v f: %v", round2(recall*100), round2(precision*100), round2(f1*100))

	if err := corpus.WriteLines(inputPath+".eval", []string{summary}); err != nil {
		return err
	}

	if err := corpus.WriteLines(inputPath+".sigf", score.sigf); err != nil {
		return err
	}

	logger.Debug("evaluated f1", zap.String("input", inputPath), zap.String("summary", summary))

	return applyAssertion(assertExpr, map[string]any{
		"tp": score.tp, "fp": score.fp, "total": score.total,
		"recall": recall, "precision": precision, "f1": f1,
	})
}

func evaluateAccuracy(inputPath string, hypos, golds []string, assertExpr string, logger *zap.Logger) error {
	score := scoreAccuracy(hypos, golds)

	accuracy := 0.0
	if score.total != 0 {
		accuracy = float64(score.tp) / float64(score.total)
	}

	if err := corpus.WriteLines(inputPath+".eval", []string{strconv.FormatFloat(accuracy, 'f', -1, 64)}); err != nil {
		return err
	}

	if err := corpus.WriteLines(inputPath+".sigf", intsToStrings(score.sigfAccuracy)); err != nil {
		return err
	}

	if err := corpus.WriteLines(inputPath+".sigf_neg", intsToStrings(score.sigfAccuracyNeg)); err != nil {
		return err
	}

	logger.Debug("evaluated accuracy", zap.String("input", inputPath), zap.Float64("accuracy", accuracy))

	return applyAssertion(assertExpr, map[string]any{
		"tp": score.tp, "total": score.total, "accuracy": accuracy,
	})
}

func applyAssertion(expr string, env map[string]any) error {
	result := scoring.Eval(expr, env)
	if result.Error != nil {
		return fmt.Errorf("evaluating assertion: %w", result.Error)
	}

	if !result.Passed {
		return cli.Exit(fmt.Sprintf("assertion failed: %s", expr), 1)
	}

	return nil
}

func scoreF1(hypos, golds []string) metricScore {
	score := metricScore{total: len(golds)}

	for i, gold := range golds {
		hyp := ""
		if i < len(hypos) {
			hyp = hypos[i]
		}

		switch {
		case hyp == gold:
			score.tp++
			score.sigf = append(score.sigf, "1 1 1")
		case hyp == emptyMarker || hyp == "":
			score.empty++
			score.sigf = append(score.sigf, "0 0 1")
		default:
			score.fp++
			score.sigf = append(score.sigf, "0 1 1")
		}
	}

	return score
}

func scoreAccuracy(hypos, golds []string) metricScore {
	score := metricScore{total: len(golds)}

	for i, gold := range golds {
		hyp := ""
		if i < len(hypos) {
			hyp = hypos[i]
		}

		if hyp == gold {
			score.tp++
			score.sigfAccuracy = append(score.sigfAccuracy, 1)
			score.sigfAccuracyNeg = append(score.sigfAccuracyNeg, 1)
		} else {
			score.sigfAccuracy = append(score.sigfAccuracy, 0)
			score.sigfAccuracyNeg = append(score.sigfAccuracyNeg, -1)
		}
	}

	return score
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func intsToStrings(ints []int) []string {
	out := make([]string, len(ints))
	for i, n := range ints {
		out[i] = strconv.Itoa(n)
	}

	return out
}
