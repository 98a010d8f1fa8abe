package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/hay-kot/agenda/internal/core/agenda"
	"github.com/hay-kot/agenda/internal/core/config"
	"github.com/hay-kot/agenda/internal/printer"
	"github.com/hay-kot/agenda/internal/source"
)

// streams are the terminal handles a command reads prompts from and writes to.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w when it is a terminal, or fallback.
func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// collect builds the agenda from csvPath, or by prompting when csvPath is
// empty. Under the stop policy a malformed row ends ingestion with a warning
// and the records read so far are returned.
func collect(ctx context.Context, cfg *config.Config, csvPath string, s streams) (*agenda.List, error) {
	var (
		p      = printer.Ctx(ctx)
		list   = &agenda.List{}
		logger = log.With().Str("component", "source").Logger()
		src    source.Source
	)

	if csvPath != "" {
		csvSrc, err := source.OpenCSV(csvPath, cfg.CommentRune())
		if err != nil {
			return nil, err
		}
		defer func() { _ = csvSrc.Close() }()

		logger.Debug().Str("path", csvPath).Msg("reading structured input")
		src = csvSrc
	} else {
		var prompter source.Prompter
		if isTerminal(s.in) {
			prompter = source.FormPrompter{}
		} else {
			prompter = source.NewLinePrompter(s.in, s.err)
		}

		logger.Debug().Msg("collecting agenda interactively")
		src = source.NewPromptSource(prompter, cfg.Prompts)
	}

	res, err := source.Collect(ctx, src, list, cfg.OnError, logger)
	if err != nil {
		if !agenda.IsRecoverable(err) {
			return nil, err
		}
		p.Warnf("%v; keeping %d record(s) read before it", err, list.Len())
	}

	if n := len(res.Skipped); n > 0 {
		p.Warnf("skipped %d malformed row(s) in %s", n, csvPath)
	}

	return list, nil
}

// overrideConfig applies non-empty flag values on top of the loaded config
// and re-validates the result.
func overrideConfig(base *config.Config, styleFile, onError, escape string) (*config.Config, error) {
	cfg := *base
	if styleFile != "" {
		cfg.StyleFile = styleFile
	}
	if onError != "" {
		cfg.OnError = config.ErrorPolicy(onError)
	}
	if escape != "" {
		cfg.Escape = config.EscapeMode(escape)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &cfg, nil
}
