package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/agenda/internal/core/agenda"
	"github.com/hay-kot/agenda/internal/core/config"
	"github.com/hay-kot/agenda/internal/printer"
	"github.com/hay-kot/agenda/internal/render"
)

type testApp struct {
	app    *cli.Command
	ctx    context.Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	diag   *bytes.Buffer
	flags  *Flags
}

func newTestApp(t *testing.T, stdin string) *testApp {
	t.Helper()

	cfg := config.DefaultConfig()
	ta := &testApp{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		diag:   &bytes.Buffer{},
		flags:  &Flags{Config: &cfg, ConfigPath: filepath.Join(t.TempDir(), "config.yaml")},
	}
	ta.ctx = printer.NewContext(context.Background(), printer.New(ta.diag))

	renderCmd := NewRenderCmd(ta.flags)
	app := &cli.Command{
		Name:      "agenda",
		Reader:    strings.NewReader(stdin),
		Writer:    ta.stdout,
		ErrWriter: ta.stderr,
		Flags:     renderCmd.Flags(),
		Action:    renderCmd.Run,
	}
	app = NewPreviewCmd(ta.flags).Register(app)
	app = NewCheckCmd(ta.flags).Register(app)
	app = NewConfigCmd(ta.flags).Register(app)
	ta.app = app

	return ta
}

func (ta *testApp) run(args ...string) error {
	return ta.app.Run(ta.ctx, append([]string{"agenda"}, args...))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRender_CSVToStdout(t *testing.T) {
	ta := newTestApp(t, "")
	path := writeFile(t, "agenda.csv", "9:00, Kickoff, Alice\n# lunch break\n10:00, Planning,   Bob  \n")

	require.NoError(t, ta.run("--csv", path))

	out := ta.stdout.String()
	assert.True(t, strings.HasPrefix(out, render.DefaultStyle))
	assert.Equal(t, 2, strings.Count(out, "<td>")/3)
	assert.Contains(t, out, "<td>Bob</td>")
	assert.True(t, strings.HasSuffix(out, "</tbody></table></div>\n"))
}

func TestRender_InteractiveToFile(t *testing.T) {
	ta := newTestApp(t, "9:00\nKickoff\nAlice\n\n")
	output := filepath.Join(t.TempDir(), "agenda.html")

	require.NoError(t, ta.run("--output", output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<td>Kickoff</td>")
	assert.Empty(t, ta.stdout.String(), "html goes to the file only")
	assert.Contains(t, ta.stderr.String(), "Time: ")
	assert.Contains(t, ta.diag.String(), "Wrote 1 agenda item(s)")
}

func TestRender_EmptyInteractive(t *testing.T) {
	ta := newTestApp(t, "\n")

	require.NoError(t, ta.run())

	out := ta.stdout.String()
	body := out[strings.Index(out, "<tbody>"):]
	assert.NotContains(t, body, "<tr>")
}

func TestRender_StopPolicyKeepsPartial(t *testing.T) {
	ta := newTestApp(t, "")
	path := writeFile(t, "agenda.csv", "9:00,Kickoff,Alice\nlunch\n10:00,Planning,Bob\n")

	require.NoError(t, ta.run("--csv", path))

	out := ta.stdout.String()
	assert.Contains(t, out, "Kickoff")
	assert.NotContains(t, out, "Planning")
	assert.Contains(t, ta.diag.String(), "line 2")
}

func TestRender_SkipPolicy(t *testing.T) {
	ta := newTestApp(t, "")
	path := writeFile(t, "agenda.csv", "9:00,Kickoff,Alice\nlunch\n10:00,Planning,Bob\n")

	require.NoError(t, ta.run("--csv", path, "--on-error", "skip"))

	out := ta.stdout.String()
	assert.Contains(t, out, "Kickoff")
	assert.Contains(t, out, "Planning")
	assert.Contains(t, ta.diag.String(), "skipped 1 malformed row(s)")
}

func TestRender_ConfiguredCommentMarker(t *testing.T) {
	ta := newTestApp(t, "")
	cfgPath := writeFile(t, "config.yaml", "comment: \";\"\n")

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	ta.flags.Config = cfg
	ta.flags.ConfigPath = cfgPath

	path := writeFile(t, "agenda.csv", "; lunch break\n# 9:00,Kickoff,Alice\n10:00,Planning,Bob\n")

	require.NoError(t, ta.run("--csv", path))

	out := ta.stdout.String()
	assert.NotContains(t, out, "lunch break")
	assert.Contains(t, out, "<td># 9:00</td>")
	assert.Contains(t, out, "<td>Planning</td>")
	assert.Equal(t, 2, strings.Count(out, "<td>")/3)
}

func TestRender_Verbose(t *testing.T) {
	ta := newTestApp(t, "9:00\nKickoff\nAlice\n\n")
	ta.flags.Verbose = true

	require.NoError(t, ta.run())
	assert.Contains(t, ta.diag.String(), "Agenda Items")
	assert.Contains(t, ta.diag.String(), "9:00  Kickoff")
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
		want error
	}{
		{
			name: "missing input file",
			args: func(t *testing.T) []string {
				return []string{"--csv", filepath.Join(t.TempDir(), "missing.csv")}
			},
			want: agenda.ErrInputSourceUnavailable,
		},
		{
			name: "missing style file",
			args: func(t *testing.T) []string {
				return []string{"--style", filepath.Join(t.TempDir(), "missing.html")}
			},
			want: agenda.ErrStyleResourceUnavailable,
		},
		{
			name: "unwritable output",
			args: func(t *testing.T) []string {
				return []string{"--output", filepath.Join(t.TempDir(), "nope", "out.html")}
			},
			want: agenda.ErrOutputSinkUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, "9:00\nKickoff\nAlice\n\n")

			err := ta.run(tt.args(t)...)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, ta.stdout.String(), "nothing is rendered")
		})
	}
}

func TestRender_InvalidOption(t *testing.T) {
	ta := newTestApp(t, "")

	err := ta.run("--escape", "rot13")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "escape", fieldErrs[0].Field)
}

func TestRender_EscapeHTML(t *testing.T) {
	ta := newTestApp(t, "")
	path := writeFile(t, "agenda.csv", "9:00,<b>Q&A</b>,Alice\n")

	require.NoError(t, ta.run("--csv", path, "--escape", "html"))
	assert.Contains(t, ta.stdout.String(), "<td>&lt;b&gt;Q&amp;A&lt;/b&gt;</td>")
}

func TestCheck(t *testing.T) {
	t.Run("clean file", func(t *testing.T) {
		ta := newTestApp(t, "")
		path := writeFile(t, "agenda.csv", "9:00,Kickoff,Alice\n")

		require.NoError(t, ta.run("check", path))
		assert.Contains(t, ta.diag.String(), "1 record(s), no malformed rows")
	})

	t.Run("reports every bad row", func(t *testing.T) {
		ta := newTestApp(t, "")
		path := writeFile(t, "agenda.csv", "lunch\n9:00,Kickoff,Alice\n1,2\n")

		err := ta.run("check", path)

		var fieldErrs criterio.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.Len(t, fieldErrs, 2)
		assert.Equal(t, "line 1", fieldErrs[0].Field)
		assert.Equal(t, "line 3", fieldErrs[1].Field)
		assert.Contains(t, fieldErrs[1].Err.Error(), "expected 3 fields, got 2")
	})

	t.Run("missing argument", func(t *testing.T) {
		ta := newTestApp(t, "")
		assert.Error(t, ta.run("check"))
	})
}

func TestPreview_Plain(t *testing.T) {
	ta := newTestApp(t, "")
	path := writeFile(t, "agenda.csv", "9:00,Kickoff,Alice\n")

	require.NoError(t, ta.run("preview", "--csv", path))

	out := ta.stdout.String()
	assert.Contains(t, out, "Kickoff")
	assert.NotContains(t, out, "<table>")
}

func TestConfig_Show(t *testing.T) {
	ta := newTestApp(t, "")

	require.NoError(t, ta.run("config", "show"))
	assert.Contains(t, ta.stdout.String(), "on_error: stop")

	ta = newTestApp(t, "")
	require.NoError(t, ta.run("config", "show", "--format", "json"))
	assert.Contains(t, ta.stdout.String(), `"escape": "none"`)
}

func TestConfig_Validate(t *testing.T) {
	ta := newTestApp(t, "")

	require.NoError(t, ta.run("config", "validate"))
	assert.Contains(t, ta.diag.String(), "Configuration is valid")

	ta = newTestApp(t, "")
	ta.flags.Config.StyleFile = filepath.Join(t.TempDir(), "missing.html")
	assert.ErrorIs(t, ta.run("config", "validate"), agenda.ErrStyleResourceUnavailable)
}
