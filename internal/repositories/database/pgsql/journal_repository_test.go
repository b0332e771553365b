package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/apperrors"
	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournalRepoWithMock(t *testing.T) (*PgxJournalRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PgxJournalRepository{BaseRepository{DB: mock}}, mock
}

func TestJournalRepository_SaveEntry(t *testing.T) {
	ctx := context.Background()
	repo, mock := newJournalRepoWithMock(t)
	now := time.Now()

	entry := &domain.JournalEntry{
		EntryDate:   now,
		Reference:   domain.Reference{Type: domain.RefInvoice, ID: 555},
		Description: "Ward A invoice",
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	mock.ExpectQuery(`INSERT INTO journal_entries`).
		WithArgs(now, "INVOICE", int64(555), "Ward A invoice", false, now, now).
		WillReturnRows(pgxmock.NewRows([]string{"entry_id"}).AddRow(int64(1)))

	err := repo.SaveEntry(ctx, entry)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), entry.EntryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_FindEntryByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, mock := newJournalRepoWithMock(t)

	mock.ExpectQuery(`SELECT .+ FROM journal_entries WHERE entry_id = \$1`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindEntryByID(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestJournalRepository_UpdateEntry_PostedGuard(t *testing.T) {
	ctx := context.Background()
	repo, mock := newJournalRepoWithMock(t)
	now := time.Now()

	entry := domain.JournalEntry{
		EntryID:     7,
		EntryDate:   now,
		Reference:   domain.Reference{Type: domain.RefManual},
		Description: "late edit",
		AuditFields: domain.AuditFields{LastUpdatedAt: now},
	}

	// A posted entry matches no row thanks to the posted = FALSE predicate.
	mock.ExpectExec(`UPDATE journal_entries`).
		WithArgs(int64(7), now, "MANUAL", int64(0), "late edit", now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateEntry(ctx, entry)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_PostFlow(t *testing.T) {
	ctx := context.Background()
	repo, mock := newJournalRepoWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	tx, err := repo.Begin(ctx)
	require.NoError(t, err)

	entryRows := pgxmock.NewRows([]string{"entry_id", "entry_date", "reference_type", "reference_id", "description", "posted", "created_at", "last_updated_at"}).
		AddRow(int64(1), now, "MANUAL", int64(0), "", false, now, now)
	mock.ExpectQuery(`SELECT .+ FROM journal_entries WHERE entry_id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(entryRows)

	entry, err := repo.FindEntryByIDForUpdate(ctx, tx, 1)
	require.NoError(t, err)
	assert.False(t, entry.Posted)

	sumRows := pgxmock.NewRows([]string{"sum_debit", "sum_credit", "count"}).
		AddRow(decimal.NewFromInt(250), decimal.NewFromInt(250), 2)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(debit\), 0\), COALESCE\(SUM\(credit\), 0\), COUNT\(\*\)`).
		WithArgs(int64(1)).
		WillReturnRows(sumRows)

	totalDebit, totalCredit, lineCount, err := repo.SumLinesInTx(ctx, tx, 1)
	require.NoError(t, err)
	assert.True(t, totalDebit.Equal(decimal.NewFromInt(250)))
	assert.True(t, totalCredit.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 2, lineCount)

	mock.ExpectExec(`UPDATE journal_entries SET posted = TRUE`).
		WithArgs(int64(1), now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.MarkEntryPostedInTx(ctx, tx, 1, now)
	require.NoError(t, err)

	mock.ExpectCommit()
	assert.NoError(t, repo.Commit(ctx, tx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_MarkEntryPostedInTx_AlreadyPosted(t *testing.T) {
	ctx := context.Background()
	repo, mock := newJournalRepoWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	tx, err := repo.Begin(ctx)
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE journal_entries SET posted = TRUE`).
		WithArgs(int64(7), now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkEntryPostedInTx(ctx, tx, 7, now)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestJournalRepository_SaveLineInTx(t *testing.T) {
	ctx := context.Background()
	repo, mock := newJournalRepoWithMock(t)
	now := time.Now()

	mock.ExpectBegin()
	tx, err := repo.Begin(ctx)
	require.NoError(t, err)

	line := &domain.JournalLine{
		EntryID:     1,
		AccountID:   101,
		Debit:       decimal.NewFromInt(250),
		Credit:      decimal.Zero,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	mock.ExpectQuery(`INSERT INTO journal_lines`).
		WithArgs(int64(1), int64(101), line.Debit, line.Credit, now, now).
		WillReturnRows(pgxmock.NewRows([]string{"line_id"}).AddRow(int64(10)))

	err = repo.SaveLineInTx(ctx, tx, line)
	require.NoError(t, err)
	assert.Equal(t, int64(10), line.LineID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalRepository_FindLinesByEntryID(t *testing.T) {
	ctx := context.Background()
	repo, mock := newJournalRepoWithMock(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"line_id", "entry_id", "account_id", "debit", "credit", "created_at", "last_updated_at"}).
		AddRow(int64(10), int64(1), int64(101), decimal.NewFromInt(250), decimal.Zero, now, now).
		AddRow(int64(11), int64(1), int64(102), decimal.Zero, decimal.NewFromInt(250), now, now)
	mock.ExpectQuery(`SELECT .+ FROM journal_lines WHERE entry_id = \$1 ORDER BY line_id`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	lines, err := repo.FindLinesByEntryID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(10), lines[0].LineID)
	assert.True(t, lines[1].Credit.Equal(decimal.NewFromInt(250)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
