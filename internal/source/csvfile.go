package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/agenda/internal/core/agenda"
)

// fieldCount is the number of positional fields consumed per row:
// time, subject, presenter.
const fieldCount = 3

// maxLineSize caps a single physical line. Longer lines are reported as
// malformed rows and reading continues after them.
const maxLineSize = 1 << 20

// errLineTooLong is wrapped by the row error for an oversized line.
var errLineTooLong = fmt.Errorf("line exceeds %d bytes", maxLineSize)

// CSVSource reads comma-delimited agenda rows. There is no header row.
// Lines whose first non-space character is the comment marker are skipped,
// as are blank lines. Extra fields beyond the third are ignored.
//
// Rows are decoded one physical line at a time: quoted fields may contain
// commas but not line breaks. A quoted field spanning lines yields malformed
// rows. A UTF-8 byte order mark at the start of the input is ignored.
type CSVSource struct {
	reader  *bufio.Reader
	closer  io.Closer
	comment rune
	line    int
}

// NewCSVSource reads rows from r.
func NewCSVSource(r io.Reader, comment rune) *CSVSource {
	return &CSVSource{
		reader:  bufio.NewReader(r),
		comment: comment,
	}
}

// OpenCSV opens the file at path for reading. The caller must Close the source.
func OpenCSV(path string, comment rune) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", agenda.ErrInputSourceUnavailable, path, err)
	}

	src := NewCSVSource(f, comment)
	src.closer = f
	return src, nil
}

// Close releases the underlying file, if any.
func (s *CSVSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Next returns the next data row as a record.
func (s *CSVSource) Next(ctx context.Context) (agenda.Record, error) {
	for {
		text, err := s.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return agenda.Record{}, io.EOF
			}
			if errors.Is(err, errLineTooLong) {
				return agenda.Record{}, &agenda.RowError{Line: s.line, Reason: "line too long", Err: err}
			}
			return agenda.Record{}, fmt.Errorf("read line %d: %w", s.line+1, err)
		}

		if s.line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}

		trimmed := strings.TrimSpace(text)
		if trimmed == "" || (s.comment != 0 && strings.HasPrefix(trimmed, string(s.comment))) {
			continue
		}

		return s.decode(text)
	}
}

// readLine returns the next physical line without its line ending. A line
// over maxLineSize is drained and reported as errLineTooLong.
func (s *CSVSource) readLine() (string, error) {
	var (
		buf     []byte
		tooLong bool
		started bool
	)

	for {
		chunk, isPrefix, err := s.reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && started {
				break
			}
			return "", err
		}
		if !started {
			started = true
			s.line++
		}

		if !tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", errLineTooLong
	}
	return string(buf), nil
}

func (s *CSVSource) decode(text string) (agenda.Record, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	fields, err := r.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			err = parseErr.Err
		}
		return agenda.Record{}, &agenda.RowError{Line: s.line, Reason: "cannot decode row", Err: err}
	}

	if len(fields) < fieldCount {
		return agenda.Record{}, &agenda.RowError{
			Line:   s.line,
			Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)),
		}
	}

	return agenda.NewRecord(fields[0], fields[1], fields[2]), nil
}
