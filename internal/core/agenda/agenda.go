// Package agenda defines the agenda record and the ordered list that holds
// records for the duration of a run.
package agenda

import "strings"

// Record is a single agenda line item.
type Record struct {
	Time      string `json:"time"`
	Subject   string `json:"subject"`
	Presenter string `json:"presenter"`
}

// NewRecord builds a record from raw field values, trimming surrounding
// whitespace from each one. Presenter may be empty.
func NewRecord(time, subject, presenter string) Record {
	return Record{
		Time:      strings.TrimSpace(time),
		Subject:   strings.TrimSpace(subject),
		Presenter: strings.TrimSpace(presenter),
	}
}

// List is an append-only, insertion-ordered sequence of records.
// It is owned by a single pipeline and is not safe for concurrent use.
type List struct {
	records []Record
}

// Append adds a fully formed record to the end of the list.
func (l *List) Append(r Record) {
	l.records = append(l.records, r)
}

// Len returns the number of records in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// All returns a copy of the records in display order.
func (l *List) All() []Record {
	if l == nil {
		return nil
	}
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Each calls fn for every record in order, stopping at the first error.
func (l *List) Each(fn func(i int, r Record) error) error {
	if l == nil {
		return nil
	}
	for i, r := range l.records {
		if err := fn(i, r); err != nil {
			return err
		}
	}
	return nil
}
