package domain

import "github.com/shopspring/decimal"

// JournalLine is one posting within an entry, debiting or crediting exactly
// one account. Exactly one of Debit/Credit is strictly positive and the
// other is exactly zero.
type JournalLine struct {
	LineID      int64           `json:"lineID"`  // Primary key (assigned by the store)
	EntryID     int64           `json:"entryID"` // FK -> JournalEntry
	AccountID   int64           `json:"accountID"`
	AccountName string          `json:"accountName,omitempty"` // Resolved on read, never stored
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	AuditFields
}
