package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/agenda/internal/core/agenda"
	"github.com/hay-kot/agenda/internal/core/config"
	"github.com/hay-kot/agenda/internal/styles"
)

// Prompter asks the user for a single line of input.
type Prompter interface {
	Ask(ctx context.Context, label string, hint string) (string, error)
}

// PromptSource collects records by asking for time, subject, and presenter in
// turn. An empty time ends the session.
type PromptSource struct {
	prompter Prompter
	labels   config.Prompts
}

// NewPromptSource creates a source that asks questions through p.
func NewPromptSource(p Prompter, labels config.Prompts) *PromptSource {
	return &PromptSource{prompter: p, labels: labels}
}

// Next prompts for one record. It returns io.EOF when the user enters an
// empty time or input is closed before a time is given.
func (s *PromptSource) Next(ctx context.Context) (agenda.Record, error) {
	t, err := s.prompter.Ask(ctx, s.labels.Time, "leave empty to finish")
	if err != nil && !errors.Is(err, io.EOF) {
		return agenda.Record{}, fmt.Errorf("prompt %s: %w", strings.ToLower(s.labels.Time), err)
	}
	if strings.TrimSpace(t) == "" {
		return agenda.Record{}, io.EOF
	}

	subject, err := s.ask(ctx, s.labels.Subject)
	if err != nil {
		return agenda.Record{}, err
	}

	presenter, err := s.ask(ctx, s.labels.Presenter)
	if err != nil {
		return agenda.Record{}, err
	}

	return agenda.NewRecord(t, subject, presenter), nil
}

// ask treats closed input as an empty answer; the next time prompt then
// ends the session.
func (s *PromptSource) ask(ctx context.Context, label string) (string, error) {
	v, err := s.prompter.Ask(ctx, label, "")
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("prompt %s: %w", strings.ToLower(label), err)
	}
	return v, nil
}

// LinePrompter writes "<label>: " to out and reads one line from in.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a line-oriented prompter.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Ask prints the label and returns the next line without its line ending.
// It returns io.EOF only when input is closed and nothing was read.
func (p *LinePrompter) Ask(_ context.Context, label string, _ string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return line, err
	}

	return line, nil
}

// FormPrompter asks each question with a huh input field.
type FormPrompter struct{}

// Ask runs a single-field form and returns the entered value.
func (FormPrompter) Ask(ctx context.Context, label string, hint string) (string, error) {
	var value string

	input := huh.NewInput().
		Title(label).
		Value(&value)

	if hint != "" {
		input.Placeholder(hint)
	}

	form := huh.NewForm(huh.NewGroup(input)).WithTheme(styles.FormTheme())
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", fmt.Errorf("aborted by user: %w", err)
		}
		return "", err
	}

	return value, nil
}
