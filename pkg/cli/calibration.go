package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexeq/lexeq/pkg/calibration"
	"github.com/urfave/cli/v3"
)

var (
	calibrationFileFlag = &cli.StringFlag{
		Name:     "file",
		Usage:    "Path to the calibration YAML to check",
		Required: true,
	}

	calibrationCmd = &cli.Command{
		Name:    "calibration",
		Aliases: []string{"c"},
		Usage:   "Inspect and validate calibration tables",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the active calibration tables",
				Action: cmdCalibrationShow,
			},
			{
				Name:   "check",
				Usage:  "Validate a calibration file against the closed enumerations",
				Flags: []cli.Flag{
					calibrationFileFlag,
				},
				Action: cmdCalibrationCheck,
			},
		},
	}
)

type calibrationCheck struct {
	Path    string `json:"path" yaml:"path"`
	Version int    `json:"version" yaml:"version"`
	Valid   bool   `json:"valid" yaml:"valid"`
}

func cmdCalibrationShow(_ context.Context, _ *cli.Command) error {
	return encode(cal)
}

func cmdCalibrationCheck(_ context.Context, cmd *cli.Command) error {
	path := cmd.String(calibrationFileFlag.Name)

	c, err := calibration.Load(path)
	if err != nil {
		return fmt.Errorf("calibration check failed: %w", err)
	}

	slog.Debug("calibration valid", "path", path, "version", c.Version)

	return encode(calibrationCheck{
		Path:    path,
		Version: c.Version,
		Valid:   true,
	})
}
