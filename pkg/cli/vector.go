package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexeq/lexeq/pkg/equivalence"
	"github.com/urfave/cli/v3"
)

var (
	vectorT1Flag = &cli.FloatFlag{
		Name:     "t1",
		Usage:    "Legal distance score at the earlier point in time [0.0, 3.0]",
		Required: true,
	}

	vectorT2Flag = &cli.FloatFlag{
		Name:     "t2",
		Usage:    "Legal distance score at the later point in time [0.0, 3.0]",
		Required: true,
	}

	vectorCmd = &cli.Command{
		Name:    "vector",
		Aliases: []string{"v"},
		Usage:   "Compute the convergence vector between two distance scores",
		Flags: []cli.Flag{
			vectorT1Flag,
			vectorT2Flag,
		},
		Action: cmdVector,
	}
)

func cmdVector(_ context.Context, cmd *cli.Command) error {
	before := cmd.Float(vectorT1Flag.Name)
	after := cmd.Float(vectorT2Flag.Name)

	slog.Debug("convergence vector", "t1", before, "t2", after)

	v, err := equivalence.Convergence(before, after)
	if err != nil {
		return fmt.Errorf("vector computation failed: %w", err)
	}

	return encode(v)
}
