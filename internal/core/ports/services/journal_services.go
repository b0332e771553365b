package services

import (
	"context"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/hmsuite/hospital_accounting_app/internal/dto"
)

// JournalSvcFacade exposes the ledger posting operations to calling layers.
type JournalSvcFacade interface {
	// CreateEntry opens a draft entry with no lines.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry with its lines in insertion order.
	GetEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// ListEntries retrieves all entries without lines.
	ListEntries(ctx context.Context) ([]domain.JournalEntry, error)

	// UpdateEntryMetadata changes date/reference/description of a draft entry.
	UpdateEntryMetadata(ctx context.Context, entryID int64, req dto.UpdateEntryRequest) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry and its lines.
	DeleteEntry(ctx context.Context, entryID int64) error

	// AddLine appends a posting to a draft entry.
	AddLine(ctx context.Context, entryID int64, req dto.AddLineRequest) (*domain.JournalLine, error)

	// GetLineByID retrieves a single line.
	GetLineByID(ctx context.Context, lineID int64) (*domain.JournalLine, error)

	// ListLines retrieves an entry's lines in insertion order.
	ListLines(ctx context.Context, entryID int64) ([]domain.JournalLine, error)

	// UpdateLine rewrites a draft line.
	UpdateLine(ctx context.Context, lineID int64, req dto.UpdateLineRequest) (*domain.JournalLine, error)

	// DeleteLine removes a draft line.
	DeleteLine(ctx context.Context, lineID int64) error

	// PostEntry finalizes a balanced entry; the entry becomes immutable.
	PostEntry(ctx context.Context, entryID int64) (*domain.JournalEntry, error)
}
