package dto

import (
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/hmsuite/hospital_accounting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest defines the data needed to open a draft journal entry.
type CreateEntryRequest struct {
	Date          time.Time            `json:"date" binding:"required"`
	ReferenceType domain.ReferenceType `json:"referenceType" binding:"omitempty,oneof=INVOICE BILL PAYMENT ASSET DEPRECIATION MANUAL"`
	ReferenceID   int64                `json:"referenceID"`
	Description   string               `json:"description"`
}

// UpdateEntryRequest defines the metadata fields of a draft entry that may change.
type UpdateEntryRequest struct {
	Date          *time.Time            `json:"date"`
	ReferenceType *domain.ReferenceType `json:"referenceType"`
	ReferenceID   *int64                `json:"referenceID"`
	Description   *string               `json:"description"`
}

// AddLineRequest defines the data for one posting within a draft entry.
type AddLineRequest struct {
	AccountID int64           `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// UpdateLineRequest rewrites a draft line. Amounts are re-validated in full.
type UpdateLineRequest struct {
	AccountID *int64           `json:"accountID"`
	Debit     *decimal.Decimal `json:"debit"`
	Credit    *decimal.Decimal `json:"credit"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID      int64           `json:"lineID"`
	EntryID     int64           `json:"entryID"`
	AccountID   int64           `json:"accountID"`
	AccountName string          `json:"accountName,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       int64                `json:"entryID"`
	Date          time.Time            `json:"date"`
	ReferenceType domain.ReferenceType `json:"referenceType"`
	ReferenceID   int64                `json:"referenceID"`
	Description   string               `json:"description"`
	Posted        bool                 `json:"posted"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	Lines         []LineResponse       `json:"lines,omitempty"`
	TotalDebit    *decimal.Decimal     `json:"totalDebit,omitempty"`
	TotalCredit   *decimal.Decimal     `json:"totalCredit,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(line *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:      line.LineID,
		EntryID:     line.EntryID,
		AccountID:   line.AccountID,
		AccountName: line.AccountName,
		Debit:       line.Debit,
		Credit:      line.Credit,
	}
}

// ToLineResponses converts a slice of domain.JournalLine to []LineResponse.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToLineResponse(&line)
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       e.EntryID,
		Date:          e.EntryDate,
		ReferenceType: e.Reference.Type,
		ReferenceID:   e.Reference.ID,
		Description:   e.Description,
		Posted:        e.Posted,
		CreatedAt:     e.CreatedAt,
		LastUpdatedAt: e.LastUpdatedAt,
	}
	if e.Lines != nil {
		resp.Lines = ToLineResponses(e.Lines)
		totalDebit, totalCredit := accounting.SumLines(e.Lines)
		resp.TotalDebit = &totalDebit
		resp.TotalCredit = &totalCredit
	}
	return resp
}

// ToEntryResponses converts a slice of domain.JournalEntry to []EntryResponse.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}
