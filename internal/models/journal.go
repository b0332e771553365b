package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry mirrors the journal_entries table.
type JournalEntry struct {
	EntryID       int64     `db:"entry_id"`
	EntryDate     time.Time `db:"entry_date"`
	ReferenceType string    `db:"reference_type"`
	ReferenceID   int64     `db:"reference_id"`
	Description   string    `db:"description"`
	Posted        bool      `db:"posted"`
	AuditFields
}

// JournalLine mirrors the journal_lines table.
type JournalLine struct {
	LineID    int64           `db:"line_id"`
	EntryID   int64           `db:"entry_id"`
	AccountID int64           `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	AuditFields
}
