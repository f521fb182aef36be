package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexeq/lexeq/pkg/calibration"
	"github.com/lexeq/lexeq/pkg/equivalence"
	"github.com/urfave/cli/v3"
)

var (
	conceptANameFlag = &cli.StringFlag{
		Name:     "a-name",
		Usage:    "Name of the first concept",
		Required: true,
	}

	conceptAJurisdictionFlag = &cli.StringFlag{
		Name:     "a-jurisdiction",
		Usage:    "Jurisdiction of the first concept",
		Required: true,
	}

	conceptAElementFlag = &cli.StringSliceFlag{
		Name:  "a-element",
		Usage: "Constituent element of the first concept (repeatable)",
	}

	conceptAObjectiveFlag = &cli.StringFlag{
		Name:  "a-objective",
		Usage: "Regulatory objective of the first concept",
	}

	conceptBNameFlag = &cli.StringFlag{
		Name:     "b-name",
		Usage:    "Name of the second concept",
		Required: true,
	}

	conceptBJurisdictionFlag = &cli.StringFlag{
		Name:     "b-jurisdiction",
		Usage:    "Jurisdiction of the second concept",
		Required: true,
	}

	conceptBElementFlag = &cli.StringSliceFlag{
		Name:  "b-element",
		Usage: "Constituent element of the second concept (repeatable)",
	}

	conceptBObjectiveFlag = &cli.StringFlag{
		Name:  "b-objective",
		Usage: "Regulatory objective of the second concept",
	}

	factPatternFlag = &cli.StringFlag{
		Name:  "fact-pattern",
		Usage: "Fact pattern behind the functional test (informational)",
	}

	reliabilityFlag = &cli.FloatFlag{
		Name:  "reliability",
		Usage: "Functional test reliability rate [0.0, 1.0]; omit to skip the functional test",
	}

	frictionFlag = &cli.StringFlag{
		Name:  "friction",
		Usage: "Procedural friction [low, standard, high]",
		Value: string(equivalence.FrictionStandard),
	}

	iterationsFlag = &cli.IntFlag{
		Name:  "iterations",
		Usage: "Confirming iterations required [1, 5]",
		Value: 1,
	}

	tierFlag = &cli.StringFlag{
		Name:  "tier",
		Usage: "Functional tier metadata [constitutional, plenary, standard, weak] (optional)",
	}

	traceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "Include the step-by-step analysis trace in the result",
	}

	analyzeCmd = &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Classify the equivalence of two legal concepts",
		Flags: []cli.Flag{
			conceptANameFlag,
			conceptAJurisdictionFlag,
			conceptAElementFlag,
			conceptAObjectiveFlag,
			conceptBNameFlag,
			conceptBJurisdictionFlag,
			conceptBElementFlag,
			conceptBObjectiveFlag,
			factPatternFlag,
			reliabilityFlag,
			frictionFlag,
			iterationsFlag,
			tierFlag,
			traceFlag,
		},
		Action: cmdAnalyze,
	}
)

func cmdAnalyze(_ context.Context, cmd *cli.Command) error {
	a := equivalence.LegalConcept{
		Name:                cmd.String(conceptANameFlag.Name),
		Jurisdiction:        cmd.String(conceptAJurisdictionFlag.Name),
		ConstituentElements: cmd.StringSlice(conceptAElementFlag.Name),
		RegulatoryObjective: cmd.String(conceptAObjectiveFlag.Name),
	}

	b := equivalence.LegalConcept{
		Name:                cmd.String(conceptBNameFlag.Name),
		Jurisdiction:        cmd.String(conceptBJurisdictionFlag.Name),
		ConstituentElements: cmd.StringSlice(conceptBElementFlag.Name),
		RegulatoryObjective: cmd.String(conceptBObjectiveFlag.Name),
	}

	var test *equivalence.FunctionalTest
	if cmd.IsSet(reliabilityFlag.Name) {
		test = &equivalence.FunctionalTest{
			FactPattern:        cmd.String(factPatternFlag.Name),
			ReliabilityRate:    cmd.Float(reliabilityFlag.Name),
			ProceduralFriction: equivalence.Friction(cmd.String(frictionFlag.Name)),
			IterationThreshold: int(cmd.Int(iterationsFlag.Name)),
		}
	}

	var tier *calibration.Tier
	if v := cmd.String(tierFlag.Name); v != "" {
		t := calibration.Tier(v)
		tier = &t
	}

	slog.Debug("analyze",
		"concept_a", a.Name,
		"concept_b", b.Name,
		"functional_test", test != nil,
		"tier", cmd.String(tierFlag.Name),
	)

	res, err := engine.Analyze(a, b, test, tier)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := *res
	if !cmd.Bool(traceFlag.Name) {
		out.Trace = nil
	}

	if err := encode(out); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
