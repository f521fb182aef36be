package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lexeq/lexeq/pkg/calibration"
	"github.com/lexeq/lexeq/pkg/equivalence"
	"github.com/lexeq/lexeq/pkg/logging"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"

	matcherExact   = "exact"
	matcherKeyword = "keyword"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat           = formatJSON
	output       io.Writer = os.Stdout

	engine *equivalence.Engine
	cal    *calibration.Calibration

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}

	calibrationFlag = &cli.StringFlag{
		Name:  "calibration",
		Usage: "Path to a YAML calibration file (optional, default: embedded tables)",
	}

	matcherFlag = &cli.StringFlag{
		Name:  "matcher",
		Usage: "Objective matcher [exact, keyword]",
		Value: matcherExact,
	}

	marginFlag = &cli.FloatFlag{
		Name:  "margin",
		Usage: "Ambiguity margin around the keyword matcher cutoff (optional)",
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.Init(false)

	root := newRoot()
	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newRoot() *cli.Command {
	return &cli.Command{
		Name:    "lexeq",
		Version: fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:   "Deterministic classification of legal equivalence across jurisdictions",
		Flags: []cli.Flag{
			debugFlag,
			formatFlag,
			calibrationFlag,
			matcherFlag,
			marginFlag,
		},
		Commands: []*cli.Command{
			analyzeCmd,
			vectorCmd,
			calibrationCmd,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool(debugFlag.Name) {
				logging.Init(true)
			}

			f := cmd.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			c, err := loadCalibration(cmd.String(calibrationFlag.Name))
			if err != nil {
				return ctx, err
			}
			cal = c

			matcher, err := pickMatcher(cmd.String(matcherFlag.Name), cmd.Float(marginFlag.Name))
			if err != nil {
				return ctx, err
			}

			engine, err = equivalence.New(matcher, cal)
			if err != nil {
				return ctx, fmt.Errorf("failed to initialize engine: %w", err)
			}
			return ctx, nil
		},
	}
}

func loadCalibration(path string) (*calibration.Calibration, error) {
	if path == "" {
		return calibration.Default(), nil
	}
	c, err := calibration.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load calibration: %w", err)
	}
	slog.Debug("calibration loaded", "path", path, "version", c.Version)
	return c, nil
}

func pickMatcher(name string, margin float64) (equivalence.ObjectiveMatcher, error) {
	switch name {
	case "", matcherExact:
		return equivalence.ExactObjectiveMatcher{}, nil
	case matcherKeyword:
		return equivalence.KeywordOverlapMatcher{Margin: margin}, nil
	default:
		return nil, fmt.Errorf("unknown matcher %q, want %s or %s", name, matcherExact, matcherKeyword)
	}
}

func encode(v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(output).Encode(v)
	}
	e := json.NewEncoder(output)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
