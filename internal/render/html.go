// Package render writes an agenda as an HTML table fragment meant for
// embedding in a larger page.
package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hay-kot/agenda/internal/core/agenda"
	"github.com/hay-kot/agenda/internal/core/config"
)

// DefaultStyle is emitted ahead of the table when no style file is configured.
const DefaultStyle = `<style>
  .agenda table { border-collapse: collapse; width: 100%; font-family: Arial, Helvetica, sans-serif; }
  .agenda caption { font-size: 1.25em; font-weight: bold; text-align: left; padding: 0.5em 0; }
  .agenda th, .agenda td { border: 1px solid #d0d7de; padding: 6px 12px; text-align: left; vertical-align: top; }
  .agenda th { background-color: #1f4e79; color: #ffffff; }
  .agenda tbody tr:nth-child(even) { background-color: #f2f6fa; }
</style>
`

const header = `<div class="agenda">
<table>
<caption>Agenda</caption>
<thead>
<tr>
  <th>Time</th>
  <th>Subject</th>
  <th>Presenter</th>
</tr>
</thead>
<tbody>
`

const row = `<tr>
  <td>%s</td>
  <td>%s</td>
  <td>%s</td>
</tr>
`

const footer = "</tbody></table></div>\n"

// LoadStyle returns the style fragment to emit. An empty path selects
// DefaultStyle; otherwise the file is read in full and used verbatim.
func LoadStyle(path string) (string, error) {
	if path == "" {
		return DefaultStyle, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", agenda.ErrStyleResourceUnavailable, path, err)
	}

	return string(data), nil
}

// Renderer emits the style fragment, the table skeleton, and one row per record.
type Renderer struct {
	style  string
	escape func(string) string
}

// New creates a renderer. Field values are passed through the escape mode
// before interpolation; EscapeNone writes them verbatim.
func New(style string, mode config.EscapeMode) (*Renderer, error) {
	r := &Renderer{style: style}

	switch mode {
	case config.EscapeNone, "":
		r.escape = func(s string) string { return s }
	case config.EscapeHTML:
		r.escape = html.EscapeString
	case config.EscapeSanitize:
		r.escape = bluemonday.UGCPolicy().Sanitize
	default:
		return nil, fmt.Errorf("unknown escape mode %q", mode)
	}

	return r, nil
}

// Render writes the full fragment for list to w. Any write error aborts the
// render; bytes already written are not rolled back.
func (r *Renderer) Render(w io.Writer, list *agenda.List) error {
	bw := bufio.NewWriter(w)

	if _, err := io.WriteString(bw, r.style); err != nil {
		return writeErr("style", err)
	}

	if _, err := io.WriteString(bw, header); err != nil {
		return writeErr("header", err)
	}

	err := list.Each(func(i int, rec agenda.Record) error {
		if _, err := fmt.Fprintf(bw, row, r.escape(rec.Time), r.escape(rec.Subject), r.escape(rec.Presenter)); err != nil {
			return writeErr(fmt.Sprintf("row %d", i+1), err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if _, err := io.WriteString(bw, footer); err != nil {
		return writeErr("footer", err)
	}

	if err := bw.Flush(); err != nil {
		return writeErr("output", err)
	}

	return nil
}

func writeErr(part string, err error) error {
	return fmt.Errorf("%w: %s: %w", agenda.ErrWriteFailure, part, err)
}
