// Package main provides the nlmaps CLI tool: converting NLmaps MRL surface
// queries to and from their linearised token form, and scoring a hypothesis
// corpus against gold sequences.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	// Register dialects.
	_ "github.com/carolinlawrence/nlmaps-mrl/dialects/generic"
	_ "github.com/carolinlawrence/nlmaps-mrl/dialects/nlmaps"
)

var version = "dev"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	app := &cli.Command{
		Name:    "nlmaps",
		Version: version,
		Usage:   "NLmaps MRL linearisation toolkit",
		Commands: []*cli.Command{
			lineariseCommand(logger),
			reconstructCommand(logger),
			evaluateCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
