package domain

import "time"

// ReferenceType tags the originating document of a journal entry. The id it
// pairs with is resolved lazily by the owning module; the ledger core never
// dereferences it.
type ReferenceType string

const (
	RefInvoice      ReferenceType = "INVOICE"
	RefBill         ReferenceType = "BILL"
	RefPayment      ReferenceType = "PAYMENT"
	RefAsset        ReferenceType = "ASSET"
	RefDepreciation ReferenceType = "DEPRECIATION"
	RefManual       ReferenceType = "MANUAL"
)

// ValidReferenceType reports whether t is a known reference tag.
func ValidReferenceType(t ReferenceType) bool {
	switch t {
	case RefInvoice, RefBill, RefPayment, RefAsset, RefDepreciation, RefManual:
		return true
	}
	return false
}

// Reference is the tagged origin of a journal entry. ReferenceID is zero for
// MANUAL entries.
type Reference struct {
	Type ReferenceType `json:"type"`
	ID   int64         `json:"id"`
}

// JournalEntry is a dated group of postings. An entry starts as a draft,
// collects lines, and is posted exactly once; a posted entry is immutable.
type JournalEntry struct {
	EntryID     int64     `json:"entryID"`   // Primary key (assigned by the store)
	EntryDate   time.Time `json:"entryDate"` // Date the event occurred
	Reference   Reference `json:"reference"`
	Description string    `json:"description"`
	Posted      bool      `json:"posted"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // Loaded on demand
}
