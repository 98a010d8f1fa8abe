package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/agenda/internal/core/agenda"
	"github.com/hay-kot/agenda/internal/core/config"
	"github.com/hay-kot/agenda/internal/printer"
	"github.com/hay-kot/agenda/internal/source"
)

type CheckCmd struct {
	flags *Flags
}

// NewCheckCmd creates a new check command
func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Report every malformed row in an agenda file",
		UsageText: "agenda check <file>",
		Description: `Reads the whole file, skipping bad rows instead of stopping at the first
one, and lists each malformed row by line number.

Exits non-zero when any row is malformed.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if c.Args().Len() < 1 {
		return fmt.Errorf("input file required\n\nUsage: agenda check <file>")
	}
	path := c.Args().First()

	src, err := source.OpenCSV(path, cmd.flags.Config.CommentRune())
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	var (
		list   agenda.List
		logger = log.With().Str("component", "check").Logger()
	)

	res, err := source.Collect(ctx, src, &list, config.ErrorPolicySkip, logger)
	if err != nil {
		return err
	}

	if len(res.Skipped) == 0 {
		p.Successf("%s: %d record(s), no malformed rows", path, list.Len())
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	for _, rowErr := range res.Skipped {
		errs = errs.Append(fmt.Sprintf("line %d", rowErr.Line), errors.New(rowErr.Message()))
	}

	return fmt.Errorf("check %s: %d record(s) readable: %w", path, list.Len(), errs.ToError())
}
