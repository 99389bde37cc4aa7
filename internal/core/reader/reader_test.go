package reader

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/labreports/internal/common"
)

type stubRunner struct {
	name   string
	args   []string
	stdout []byte
	err    error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	s.name, s.args = name, args
	return s.stdout, s.err
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestExtractPages_PlainText(t *testing.T) {
	p := writeFile(t, "report.txt", []byte("Test Report\r\nLead (Pb)\t\t12  mg/kg\fDate: 2024.03.02\n\n\n\nEnd\f"))

	pages, err := NewReader(Config{}, nil).ExtractPages(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Test Report\nLead (Pb) 12 mg/kg",
		"Date: 2024.03.02\n\nEnd",
	}, pages)
}

func TestExtractPages_MaxPages(t *testing.T) {
	p := writeFile(t, "report.TXT", []byte("one\ftwo\fthree"))

	pages, err := NewReader(Config{MaxPages: 2}, nil).ExtractPages(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, pages)
}

func TestExtractPages_Pdftotext(t *testing.T) {
	run := &stubRunner{stdout: []byte("page one\nPb 5\fpage two\f")}
	r := NewReader(Config{Backend: common.BackendPdftotext, MaxPages: 4}, nil).WithRunner(run)

	pages, err := r.ExtractPages(context.Background(), "/reports/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"page one\nPb 5", "page two"}, pages)

	assert.Equal(t, "pdftotext", run.name)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "-l", "4", "/reports/a.pdf", "-"}, run.args)
}

func TestExtractPages_PdftotextCustomBinary(t *testing.T) {
	run := &stubRunner{stdout: []byte("x")}
	r := NewReader(Config{Backend: common.BackendPdftotext, Pdftotext: "/opt/poppler/bin/pdftotext"}, nil).WithRunner(run)

	_, err := r.ExtractPages(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/opt/poppler/bin/pdftotext", run.name)
	assert.NotContains(t, run.args, "-l")
}

func TestExtractPages_PdftotextFailure(t *testing.T) {
	run := &stubRunner{err: &ToolError{
		Tool:     "pdftotext",
		ExitCode: 1,
		Stderr:   "Syntax Error: Couldn't find trailer dictionary",
		Err:      errors.New("exit status 1"),
	}}
	r := NewReader(Config{Backend: common.BackendPdftotext}, nil).WithRunner(run)

	_, err := r.ExtractPages(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnreadable)

	var te *ToolError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, te.ExitCode)
	assert.Equal(t,
		"document unreadable: broken.pdf: pdftotext: exit status 1 (error opening PDF file): Syntax Error: Couldn't find trailer dictionary",
		err.Error())
}

func TestToolError(t *testing.T) {
	cause := errors.New("exit status 3")
	te := &ToolError{Tool: "pdftotext", ExitCode: 3, Err: cause}
	assert.Equal(t, "pdftotext: exit status 3 (PDF permissions forbid text extraction)", te.Error())
	assert.ErrorIs(t, te, cause)

	other := &ToolError{Tool: "sh", ExitCode: 1, Stderr: "boom", Err: errors.New("exit status 1")}
	assert.Equal(t, "sh: exit status 1: boom", other.Error())
}

func TestExecRunner(t *testing.T) {
	run := execRunner{logger: slog.Default()}

	t.Run("missing binary", func(t *testing.T) {
		_, err := run.Run(context.Background(), "pdftotext-does-not-exist-here", "a.pdf", "-")
		var te *ToolError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, -1, te.ExitCode)
		assert.ErrorIs(t, err, exec.ErrNotFound)
	})

	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh available")
	}

	t.Run("stdout", func(t *testing.T) {
		out, err := run.Run(context.Background(), sh, "-c", `printf 'one\fTwo'`)
		require.NoError(t, err)
		assert.Equal(t, "one\fTwo", string(out))
	})

	t.Run("stderr and exit code", func(t *testing.T) {
		_, err := run.Run(context.Background(), sh, "-c", "echo 'Syntax Error: bad xref' >&2; exit 3")
		var te *ToolError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "sh", te.Tool)
		assert.Equal(t, 3, te.ExitCode)
		assert.Equal(t, "Syntax Error: bad xref", te.Stderr)
	})
}

func TestStderrTail(t *testing.T) {
	assert.Equal(t, "short", stderrTail("  short\n"))

	long := strings.Repeat("é", stderrLimit)
	got := stderrTail(long)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), stderrLimit+3)
}

func TestExtractPages_Unreadable(t *testing.T) {
	tests := []struct {
		name   string
		path   func(t *testing.T) string
		target error
	}{
		{
			name:   "missing file",
			path:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.txt") },
			target: os.ErrNotExist,
		},
		{
			name:   "unsupported extension",
			path:   func(t *testing.T) string { return writeFile(t, "scan.png", []byte{0x89, 'P', 'N', 'G'}) },
			target: common.ErrUnsupported,
		},
		{
			name: "invalid utf-8 text",
			path: func(t *testing.T) string { return writeFile(t, "bad.txt", []byte{0xff, 0xfe, 0x00, 'P', 'b'}) },
		},
		{
			name: "not a pdf",
			path: func(t *testing.T) string { return writeFile(t, "fake.pdf", []byte("this is not a pdf document")) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := NewReader(Config{}, nil).ExtractPages(context.Background(), tt.path(t))
			require.Error(t, err)
			assert.Nil(t, pages)
			assert.ErrorIs(t, err, common.ErrUnreadable)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "full-width digits and colon", in: "日期：２０２５年２月２７日", want: "日期:2025年2月27日"},
		{name: "micro sign", in: "5 µg/kg", want: "5 μg/kg"},
		{name: "line endings", in: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "tabs and runs of spaces", in: "Lead\t\t(Pb)   3.5", want: "Lead (Pb) 3.5"},
		{name: "blank lines collapse", in: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "trailing spaces and outer whitespace", in: "  \nPb 1   \nCd 2  \n\n", want: "Pb 1\nCd 2"},
		{name: "decimal dates survive", in: "Date: 2024.01.02", want: "Date: 2024.01.02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestSplitPages(t *testing.T) {
	assert.Equal(t, []string{"a"}, splitPages("a"))
	assert.Equal(t, []string{"a", "b"}, splitPages("a\fb\f"))
	assert.Equal(t, []string{"a", "", "c"}, splitPages("a\f\fc"))
	assert.Equal(t, []string{""}, splitPages(""))
}
