package domain

import (
	"errors"
	"iter"
)

var ErrEmptyLedger = errors.New("empty ledger")

// SalesLedger is the ordered record of completed sales for the current
// event. Insertion order is chronological order; undo always targets the
// last element.
type SalesLedger struct {
	records []SaleRecord
}

func NewSalesLedger(records []SaleRecord) *SalesLedger {
	l := &SalesLedger{records: make([]SaleRecord, len(records))}
	copy(l.records, records)
	return l
}

// Append adds a record at the end. This is the sole write path for new
// sales.
func (l *SalesLedger) Append(r SaleRecord) {
	l.records = append(l.records, r)
}

// RemoveLast removes and returns the most recent record.
func (l *SalesLedger) RemoveLast() (SaleRecord, error) {
	if len(l.records) == 0 {
		return SaleRecord{}, ErrEmptyLedger
	}
	last := l.records[len(l.records)-1]
	l.records = l.records[:len(l.records)-1]
	return last, nil
}

// All yields records in chronological order. The sequence is restartable.
func (l *SalesLedger) All() iter.Seq[SaleRecord] {
	return func(yield func(SaleRecord) bool) {
		for _, r := range l.records {
			if !yield(r) {
				return
			}
		}
	}
}

func (l *SalesLedger) Len() int {
	return len(l.records)
}

// Records returns a copy for persistence.
func (l *SalesLedger) Records() []SaleRecord {
	out := make([]SaleRecord, len(l.records))
	copy(out, l.records)
	return out
}
