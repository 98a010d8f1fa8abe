package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/agenda/internal/printer"
	"github.com/hay-kot/agenda/internal/render"
	"github.com/hay-kot/agenda/internal/sink"
)

type RenderCmd struct {
	flags   *Flags
	output  string
	csv     string
	style   string
	onError string
	escape  string
}

// NewRenderCmd creates the default render command
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Flags returns the render flags. They are registered on the root command
// because rendering is the default action.
func (cmd *RenderCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "write HTML to `FILE` instead of stdout",
			Local:       true,
			Destination: &cmd.output,
		},
		&cli.StringFlag{
			Name:        "csv",
			Aliases:     []string{"input", "i"},
			Usage:       "read agenda rows from `FILE` instead of prompting",
			Local:       true,
			Destination: &cmd.csv,
		},
		&cli.StringFlag{
			Name:        "style",
			Usage:       "emit the contents of `FILE` instead of the built-in <style> block",
			Sources:     cli.EnvVars("AGENDA_STYLE"),
			Local:       true,
			Destination: &cmd.style,
		},
		&cli.StringFlag{
			Name:        "on-error",
			Usage:       "malformed row policy (stop, skip)",
			Local:       true,
			Destination: &cmd.onError,
		},
		&cli.StringFlag{
			Name:        "escape",
			Usage:       "field escaping (none, html, sanitize)",
			Local:       true,
			Destination: &cmd.escape,
		},
	}
}

// Run collects the agenda and writes the HTML fragment.
func (cmd *RenderCmd) Run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	root := c.Root()

	cfg, err := overrideConfig(cmd.flags.Config, cmd.style, cmd.onError, cmd.escape)
	if err != nil {
		return err
	}

	style, err := render.LoadStyle(cfg.StyleFile)
	if err != nil {
		return err
	}

	renderer, err := render.New(style, cfg.Escape)
	if err != nil {
		return err
	}

	out, err := sink.Open(cmd.output, root.Writer)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	list, err := collect(ctx, cfg, cmd.csv, streams{in: root.Reader, out: root.Writer, err: root.ErrWriter})
	if err != nil {
		return err
	}

	if cmd.flags.Verbose {
		p.Records(list.All())
	}

	if err := renderer.Render(out, list); err != nil {
		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cmd.output, err)
	}

	log.Debug().Int("records", list.Len()).Str("output", cmd.output).Msg("agenda rendered")
	if cmd.output != "" {
		p.Successf("Wrote %d agenda item(s) to %s", list.Len(), cmd.output)
	}

	return nil
}
