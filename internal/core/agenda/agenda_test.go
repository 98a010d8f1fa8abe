package agenda

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_TrimsFields(t *testing.T) {
	t.Parallel()

	r := NewRecord("  9:00 ", "\tKickoff", "   ")
	assert.Equal(t, Record{Time: "9:00", Subject: "Kickoff", Presenter: ""}, r)
}

func TestList_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	var l List
	assert.Equal(t, 0, l.Len())

	l.Append(NewRecord("9:00", "Kickoff", "Alice"))
	l.Append(NewRecord("10:00", "Planning", "Bob"))
	l.Append(NewRecord("9:00", "Kickoff", "Alice"))

	require.Equal(t, 3, l.Len())

	all := l.All()
	assert.Equal(t, "9:00", all[0].Time)
	assert.Equal(t, "10:00", all[1].Time)
	assert.Equal(t, all[0], all[2], "duplicates are allowed")

	// All returns a copy.
	all[0].Subject = "changed"
	assert.Equal(t, "Kickoff", l.All()[0].Subject)
}

func TestList_EachStopsOnError(t *testing.T) {
	t.Parallel()

	var l List
	l.Append(NewRecord("1", "a", ""))
	l.Append(NewRecord("2", "b", ""))

	stop := errors.New("stop")
	var seen []int
	err := l.Each(func(i int, _ Record) error {
		seen = append(seen, i)
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []int{0}, seen)
}

func TestList_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var l *List
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.All())
	assert.NoError(t, l.Each(func(int, Record) error { return errors.New("unreachable") }))
}

func TestRowError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("read input: %w", &RowError{Line: 3, Reason: "expected 3 fields, got 1"})

	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.True(t, IsRecoverable(err))
	assert.Contains(t, err.Error(), "line 3")

	assert.False(t, IsRecoverable(ErrInputSourceUnavailable))
}

func TestRowError_Message(t *testing.T) {
	t.Parallel()

	err := &RowError{Line: 7, Reason: "cannot decode row", Err: errors.New(`bare " in non-quoted field`)}
	assert.Equal(t, `cannot decode row: bare " in non-quoted field`, err.Message())
	assert.Equal(t, `line 7: malformed row: cannot decode row: bare " in non-quoted field`, err.Error())
}
