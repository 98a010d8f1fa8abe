// Package preview shows a collected agenda in the terminal instead of
// emitting HTML.
package preview

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/agenda/internal/core/agenda"
	"github.com/hay-kot/agenda/internal/styles"
)

// Layout constants for the interactive table.
const (
	maxColumnWidth = 40 // wider values are truncated by the table
	chromeHeight   = 6  // rows for title, borders, and help
	minTableHeight = 3
)

var columnTitles = [3]string{"Time", "Subject", "Presenter"}

// Markdown returns the agenda as a markdown table.
func Markdown(list *agenda.List) string {
	var b strings.Builder

	b.WriteString("# Agenda\n\n")
	if list.Len() == 0 {
		b.WriteString("_No agenda items._\n")
		return b.String()
	}

	b.WriteString("| Time | Subject | Presenter |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, rec := range list.All() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", mdCell(rec.Time), mdCell(rec.Subject), mdCell(rec.Presenter))
	}

	return b.String()
}

// mdCell keeps a value from breaking the table row.
func mdCell(s string) string {
	if s == "" {
		return " "
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// Plain renders the agenda with glamour. When color is false the plain
// "notty" style is used so the output is safe to pipe.
func Plain(w io.Writer, list *agenda.List, width int, color bool) error {
	style := "notty"
	if color {
		style = "tokyo-night"
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	out, err := renderer.Render(Markdown(list))
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

// Model is a read-only Bubble Tea table of agenda records.
type Model struct {
	table table.Model
	count int
}

// New builds the table model for list.
func New(list *agenda.List) Model {
	records := list.All()

	widths := [3]int{}
	for i, title := range columnTitles {
		widths[i] = lipgloss.Width(title)
	}

	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		cells := [3]string{rec.Time, rec.Subject, rec.Presenter}
		for i, c := range cells {
			widths[i] = min(max(widths[i], lipgloss.Width(c)), maxColumnWidth)
		}
		rows = append(rows, table.Row(cells[:]))
	}

	columns := make([]table.Column, len(columnTitles))
	for i, title := range columnTitles {
		columns[i] = table.Column{Title: title, Width: widths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(len(rows), minTableHeight)),
		table.WithStyles(styles.TableStyles()),
	)

	return Model{table: t, count: len(records)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(min(m.count, msg.Height-chromeHeight), minTableHeight))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	title := styles.TitleStyle.Render(fmt.Sprintf("Agenda (%d items)", m.count))
	help := styles.HelpStyle.Render("↑/↓ move • q quit")
	return title + "\n" + styles.BorderStyle.Render(m.table.View()) + "\n" + help + "\n"
}

// Run shows the interactive table until the user quits.
func Run(ctx context.Context, list *agenda.List, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(list),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run preview: %w", err)
	}
	return nil
}
