package repositories

import (
	"context"
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a specific journal entry by its identifier.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// ListEntries retrieves all journal entries ordered by date then id.
	ListEntries(ctx context.Context) ([]domain.JournalEntry, error)

	// FindLineByID retrieves a single journal line.
	FindLineByID(ctx context.Context, lineID int64) (*domain.JournalLine, error)

	// FindLinesByEntryID retrieves the lines of an entry in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID int64) ([]domain.JournalLine, error)
}

// JournalWriter defines write operations for journal entry headers
type JournalWriter interface {
	// SaveEntry persists a new draft entry and assigns its EntryID.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error

	// UpdateEntry updates the metadata (date, reference, description) of an entry.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes a draft entry; owned lines cascade.
	DeleteEntry(ctx context.Context, entryID int64) error
}

// JournalTxSupport defines the operations that must run inside a transaction
// holding the entry row lock, so that the posted-flag check and the
// balance-sum check cannot race with concurrent line mutations.
type JournalTxSupport interface {
	// FindEntryByIDForUpdate selects the entry and locks its row for update.
	FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID int64) (*domain.JournalEntry, error)

	// SumLinesInTx recomputes debit and credit totals and the line count.
	SumLinesInTx(ctx context.Context, tx pgx.Tx, entryID int64) (totalDebit, totalCredit decimal.Decimal, lineCount int, err error)

	// SaveLineInTx appends a line to the locked entry and assigns its LineID.
	SaveLineInTx(ctx context.Context, tx pgx.Tx, line *domain.JournalLine) error

	// UpdateLineInTx rewrites a line's account and amounts.
	UpdateLineInTx(ctx context.Context, tx pgx.Tx, line domain.JournalLine) error

	// DeleteLineInTx removes a line from the locked entry.
	DeleteLineInTx(ctx context.Context, tx pgx.Tx, lineID int64) error

	// MarkEntryPostedInTx flips the posted flag. The transition is one-way.
	MarkEntryPostedInTx(ctx context.Context, tx pgx.Tx, entryID int64, now time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTxSupport
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
