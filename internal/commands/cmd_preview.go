package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/agenda/internal/preview"
)

type PreviewCmd struct {
	flags   *Flags
	csv     string
	onError string
	plain   bool
}

// NewPreviewCmd creates a new preview command
func NewPreviewCmd(flags *Flags) *PreviewCmd {
	return &PreviewCmd{flags: flags}
}

// Register adds the preview command to the application
func (cmd *PreviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "preview",
		Usage:     "Show the agenda in the terminal",
		UsageText: "agenda preview [--csv FILE] [--plain]",
		Description: `Collects agenda items the same way as the default command, then shows them
as a table in the terminal instead of writing HTML.

When stdout is not a terminal, or --plain is set, a rendered markdown table
is printed instead of the interactive view.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "csv",
				Aliases:     []string{"input", "i"},
				Usage:       "read agenda rows from `FILE` instead of prompting",
				Destination: &cmd.csv,
			},
			&cli.StringFlag{
				Name:        "on-error",
				Usage:       "malformed row policy (stop, skip)",
				Destination: &cmd.onError,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print a static table instead of the interactive view",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PreviewCmd) run(ctx context.Context, c *cli.Command) error {
	root := c.Root()

	cfg, err := overrideConfig(cmd.flags.Config, "", cmd.onError, "")
	if err != nil {
		return err
	}

	list, err := collect(ctx, cfg, cmd.csv, streams{in: root.Reader, out: root.Writer, err: root.ErrWriter})
	if err != nil {
		return err
	}

	tty := isTerminal(root.Writer)
	if cmd.plain || !tty || !isTerminal(root.Reader) {
		return preview.Plain(root.Writer, list, terminalWidth(root.Writer, 80), tty)
	}

	return preview.Run(ctx, list, root.Reader, root.Writer)
}
