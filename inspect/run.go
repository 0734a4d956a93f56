// Package inspect implements "size" command: it shows how size literals in
// CSS values are scanned, classified and rendered.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssnum/config"
	"cssnum/state"
)

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("size")

	if cmd.Args().Len() == 0 {
		return errors.New("no values to inspect have been specified")
	}

	format := env.Cfg.Size.Format
	if f := cmd.String("format"); len(f) > 0 {
		var err error
		if format, err = config.ParseOutputFormat(f); err != nil {
			return fmt.Errorf("unable to use requested format: %w", err)
		}
	}

	raw, color := cmd.Bool("raw"), cmd.Bool("color")
	if color && !raw {
		log.Warn("Color component flag is only used for raw literals, ignoring")
	}

	reports := make([]ValueReport, 0, cmd.Args().Len())
	for _, v := range cmd.Args().Slice() {
		var r ValueReport
		if raw {
			r = InspectLiteral(v, color)
		} else {
			r = InspectValue(v)
		}
		log.Debug("Inspected", zap.String("value", v), zap.Int("sizes", len(r.Sizes)))
		reports = append(reports, r)
	}
	return Write(os.Stdout, reports, format)
}
