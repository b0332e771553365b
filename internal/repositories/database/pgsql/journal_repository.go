package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/apperrors"
	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	portsrepo "github.com/hmsuite/hospital_accounting_app/internal/core/ports/repositories"
	"github.com/hmsuite/hospital_accounting_app/internal/models"
	"github.com/hmsuite/hospital_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(db Querier) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository{DB: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_date, reference_type, reference_id, description, posted, created_at, last_updated_at`
const lineColumns = `line_id, entry_id, account_id, debit, credit, created_at, last_updated_at`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryDate,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.Description,
		&m.Posted,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveEntry inserts a new draft entry and fills in the generated id.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(*entry)

	query := `
		INSERT INTO journal_entries (entry_date, reference_type, reference_id, description, posted, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING entry_id;
	`
	err := r.DB.QueryRow(ctx, query,
		m.EntryDate,
		m.ReferenceType,
		m.ReferenceID,
		m.Description,
		m.Posted,
		m.CreatedAt,
		m.LastUpdatedAt,
	).Scan(&entry.EntryID)
	if err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	return nil
}

// FindEntryByID retrieves an entry by its id, without lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.DB.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry %d not found", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %d: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// ListEntries retrieves all entries ordered by date then id.
func (r *PgxJournalRepository) ListEntries(ctx context.Context) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries ORDER BY entry_date, entry_id;`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal entry rows: %w", err)
	}
	return entries, nil
}

// FindLineByID retrieves a single line by its id.
func (r *PgxJournalRepository) FindLineByID(ctx context.Context, lineID int64) (*domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE line_id = $1;`

	m, err := scanLine(r.DB.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal line %d not found", lineID))
		}
		return nil, fmt.Errorf("failed to find journal line %d: %w", lineID, err)
	}

	line := mapping.ToDomainJournalLine(m)
	return &line, nil
}

// FindLinesByEntryID retrieves the lines of an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID int64) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id;`

	rows, err := r.DB.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines for entry %d: %w", entryID, err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal line rows: %w", err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// UpdateEntry rewrites a draft entry's metadata. The posted guard sits in the
// statement itself, so a concurrent post makes this a no-op surfaced as a
// conflict.
func (r *PgxJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	query := `
		UPDATE journal_entries
		SET entry_date = $2, reference_type = $3, reference_id = $4, description = $5, last_updated_at = $6
		WHERE entry_id = $1 AND posted = FALSE;
	`
	tag, err := r.DB.Exec(ctx, query,
		m.EntryID,
		m.EntryDate,
		m.ReferenceType,
		m.ReferenceID,
		m.Description,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %d: %w", m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %d is posted or missing", apperrors.ErrConflict, m.EntryID)
	}
	return nil
}

// DeleteEntry removes a draft entry; its lines cascade. Posted entries are
// never deleted.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID int64) error {
	query := `DELETE FROM journal_entries WHERE entry_id = $1 AND posted = FALSE;`

	tag, err := r.DB.Exec(ctx, query, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %d: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %d is posted or missing", apperrors.ErrConflict, entryID)
	}
	return nil
}

// FindEntryByIDForUpdate selects the entry and locks its row until the
// surrounding transaction ends.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID int64) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`

	m, err := scanEntry(tx.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry %d not found", entryID))
		}
		return nil, fmt.Errorf("failed to lock journal entry %d: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// SumLinesInTx recomputes the entry's debit and credit totals and line count
// within the transaction.
func (r *PgxJournalRepository) SumLinesInTx(ctx context.Context, tx pgx.Tx, entryID int64) (decimal.Decimal, decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(*)
		FROM journal_lines
		WHERE entry_id = $1;
	`
	var totalDebit, totalCredit decimal.Decimal
	var lineCount int
	if err := tx.QueryRow(ctx, query, entryID).Scan(&totalDebit, &totalCredit, &lineCount); err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to sum journal lines for entry %d: %w", entryID, err)
	}
	return totalDebit, totalCredit, lineCount, nil
}

// SaveLineInTx appends a line to the locked entry and fills in the generated id.
func (r *PgxJournalRepository) SaveLineInTx(ctx context.Context, tx pgx.Tx, line *domain.JournalLine) error {
	m := mapping.ToModelJournalLine(*line)

	query := `
		INSERT INTO journal_lines (entry_id, account_id, debit, credit, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING line_id;
	`
	err := tx.QueryRow(ctx, query,
		m.EntryID,
		m.AccountID,
		m.Debit,
		m.Credit,
		m.CreatedAt,
		m.LastUpdatedAt,
	).Scan(&line.LineID)
	if err != nil {
		return fmt.Errorf("failed to save journal line for entry %d: %w", m.EntryID, err)
	}
	return nil
}

// UpdateLineInTx rewrites a line's account and amounts.
func (r *PgxJournalRepository) UpdateLineInTx(ctx context.Context, tx pgx.Tx, line domain.JournalLine) error {
	m := mapping.ToModelJournalLine(line)

	query := `
		UPDATE journal_lines
		SET account_id = $2, debit = $3, credit = $4, last_updated_at = $5
		WHERE line_id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.LineID, m.AccountID, m.Debit, m.Credit, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update journal line %d: %w", m.LineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal line %d not found", m.LineID))
	}
	return nil
}

// DeleteLineInTx removes a line from the locked entry.
func (r *PgxJournalRepository) DeleteLineInTx(ctx context.Context, tx pgx.Tx, lineID int64) error {
	query := `DELETE FROM journal_lines WHERE line_id = $1;`

	tag, err := tx.Exec(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete journal line %d: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal line %d not found", lineID))
	}
	return nil
}

// MarkEntryPostedInTx flips the posted flag. The WHERE clause makes the
// transition one-way even outside the usual locked path.
func (r *PgxJournalRepository) MarkEntryPostedInTx(ctx context.Context, tx pgx.Tx, entryID int64, now time.Time) error {
	query := `UPDATE journal_entries SET posted = TRUE, last_updated_at = $2 WHERE entry_id = $1 AND posted = FALSE;`

	tag, err := tx.Exec(ctx, query, entryID, now)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry %d posted: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %d is posted or missing", apperrors.ErrConflict, entryID)
	}
	return nil
}
