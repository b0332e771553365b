package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/apperrors"
	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	portsrepo "github.com/hmsuite/hospital_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/hmsuite/hospital_accounting_app/internal/core/ports/services"
	"github.com/hmsuite/hospital_accounting_app/internal/dto"
	"github.com/hmsuite/hospital_accounting_app/internal/utils/accounting"
)

var (
	// ErrImmutableEntry indicates a mutation was attempted on a posted entry.
	ErrImmutableEntry = errors.New("posted journal entry is immutable")
	// ErrInvalidLineAmounts indicates a line does not carry exactly one positive side.
	ErrInvalidLineAmounts = errors.New("journal line must have exactly one of debit or credit positive")
	// ErrUnbalancedEntry indicates total debits and total credits differ at post time.
	ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")
	// ErrEmptyEntry indicates an entry with no lines cannot be posted.
	ErrEmptyEntry = errors.New("journal entry has no lines")
)

type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountSvc  portssvc.AccountSvcFacade
}

// NewJournalService creates a new journal service instance.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

// resolvePostableAccount checks that the account exists and is active.
// Lines may only ever be written against active accounts.
func (s *journalService) resolvePostableAccount(ctx context.Context, accountID int64) error {
	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %d", ErrInactiveAccount, accountID)
	}
	return nil
}

// attachAccountNames resolves the accounts referenced by the lines in one
// batch and annotates each line with its account name.
func (s *journalService) attachAccountNames(ctx context.Context, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range lines {
		if account, ok := accounts[lines[i].AccountID]; ok {
			lines[i].AccountName = account.Name
		}
	}
	return nil
}

// CreateEntry opens a new draft entry. Drafts carry no lines and may be
// freely edited until posted.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*domain.JournalEntry, error) {
	referenceType := req.ReferenceType
	if referenceType == "" {
		referenceType = domain.RefManual
	}
	if !domain.ValidReferenceType(referenceType) {
		return nil, fmt.Errorf("%w: invalid reference type %q", apperrors.ErrValidation, referenceType)
	}

	now := time.Now()
	entry := domain.JournalEntry{
		EntryDate: req.Date,
		Reference: domain.Reference{
			Type: referenceType,
			ID:   req.ReferenceID,
		},
		Description: req.Description,
		Posted:      false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.journalRepo.SaveEntry(ctx, &entry); err != nil {
		s.LogError(ctx, err, "failed to save journal entry")
		return nil, err
	}

	s.LogInfo(ctx, "journal entry created", "entryID", entry.EntryID)
	return &entry, nil
}

// GetEntryByID retrieves an entry together with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "failed to find journal entry", "entryID", entryID)
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "failed to load journal lines", "entryID", entryID)
		return nil, err
	}
	if err := s.attachAccountNames(ctx, lines); err != nil {
		s.LogError(ctx, err, "failed to resolve line accounts", "entryID", entryID)
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves all entries ordered by date then id, without lines.
func (s *journalService) ListEntries(ctx context.Context) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.ListEntries(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to list journal entries")
		return nil, err
	}
	return entries, nil
}

// ListLines retrieves the lines of an entry in insertion order. The entry
// must exist even when it has no lines yet.
func (s *journalService) ListLines(ctx context.Context, entryID int64) ([]domain.JournalLine, error) {
	if _, err := s.journalRepo.FindEntryByID(ctx, entryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "failed to find journal entry", "entryID", entryID)
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "failed to load journal lines", "entryID", entryID)
		return nil, err
	}
	if err := s.attachAccountNames(ctx, lines); err != nil {
		s.LogError(ctx, err, "failed to resolve line accounts", "entryID", entryID)
		return nil, err
	}
	return lines, nil
}

// UpdateEntryMetadata changes the date, reference or description of a
// draft entry. Posted entries reject any change.
func (s *journalService) UpdateEntryMetadata(ctx context.Context, entryID int64, req dto.UpdateEntryRequest) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find journal entry", "entryID", entryID)
		}
		return nil, err
	}
	if entry.Posted {
		return nil, fmt.Errorf("%w: entry %d", ErrImmutableEntry, entryID)
	}

	if req.Date != nil {
		entry.EntryDate = *req.Date
	}
	if req.ReferenceType != nil {
		if !domain.ValidReferenceType(*req.ReferenceType) {
			return nil, fmt.Errorf("%w: invalid reference type %q", apperrors.ErrValidation, *req.ReferenceType)
		}
		entry.Reference.Type = *req.ReferenceType
	}
	if req.ReferenceID != nil {
		entry.Reference.ID = *req.ReferenceID
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}

	entry.LastUpdatedAt = time.Now()
	// UpdateEntry re-checks the posted flag in the same statement, so a
	// concurrent post between the read above and this write cannot slip
	// a metadata change onto a posted entry.
	if err := s.journalRepo.UpdateEntry(ctx, *entry); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry %d", ErrImmutableEntry, entryID)
		}
		s.LogError(ctx, err, "failed to update journal entry", "entryID", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "journal entry updated", "entryID", entryID)
	return entry, nil
}

// DeleteEntry removes a draft entry and all of its lines.
func (s *journalService) DeleteEntry(ctx context.Context, entryID int64) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find journal entry", "entryID", entryID)
		}
		return err
	}
	if entry.Posted {
		return fmt.Errorf("%w: entry %d", ErrImmutableEntry, entryID)
	}

	if err := s.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: entry %d", ErrImmutableEntry, entryID)
		}
		s.LogError(ctx, err, "failed to delete journal entry", "entryID", entryID)
		return err
	}

	s.LogInfo(ctx, "journal entry deleted", "entryID", entryID)
	return nil
}

// AddLine appends a posting to a draft entry. The entry row is locked so
// the posted-flag check cannot race with a concurrent PostEntry.
func (s *journalService) AddLine(ctx context.Context, entryID int64, req dto.AddLineRequest) (*domain.JournalLine, error) {
	if !accounting.ValidLineAmounts(req.Debit, req.Credit) {
		return nil, fmt.Errorf("%w: debit %s credit %s", ErrInvalidLineAmounts, req.Debit, req.Credit)
	}
	if err := s.resolvePostableAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to begin transaction")
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to lock journal entry", "entryID", entryID)
		}
		return nil, err
	}
	if entry.Posted {
		return nil, fmt.Errorf("%w: entry %d", ErrImmutableEntry, entryID)
	}

	now := time.Now()
	line := domain.JournalLine{
		EntryID:   entryID,
		AccountID: req.AccountID,
		Debit:     req.Debit,
		Credit:    req.Credit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.journalRepo.SaveLineInTx(ctx, tx, &line); err != nil {
		s.LogError(ctx, err, "failed to save journal line", "entryID", entryID)
		return nil, err
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "failed to commit transaction", "entryID", entryID)
		return nil, err
	}

	s.LogInfo(ctx, "journal line added", "entryID", entryID, "lineID", line.LineID)
	return &line, nil
}

// GetLineByID retrieves a single journal line.
func (s *journalService) GetLineByID(ctx context.Context, lineID int64) (*domain.JournalLine, error) {
	line, err := s.journalRepo.FindLineByID(ctx, lineID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find journal line", "lineID", lineID)
		}
		return nil, err
	}
	return line, nil
}

// UpdateLine rewrites a draft line. The merged amounts are validated as a
// whole, exactly as on insert.
func (s *journalService) UpdateLine(ctx context.Context, lineID int64, req dto.UpdateLineRequest) (*domain.JournalLine, error) {
	line, err := s.journalRepo.FindLineByID(ctx, lineID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find journal line", "lineID", lineID)
		}
		return nil, err
	}

	updated := *line
	if req.AccountID != nil {
		updated.AccountID = *req.AccountID
	}
	if req.Debit != nil {
		updated.Debit = *req.Debit
	}
	if req.Credit != nil {
		updated.Credit = *req.Credit
	}
	if !accounting.ValidLineAmounts(updated.Debit, updated.Credit) {
		return nil, fmt.Errorf("%w: debit %s credit %s", ErrInvalidLineAmounts, updated.Debit, updated.Credit)
	}
	if updated.AccountID != line.AccountID {
		if err := s.resolvePostableAccount(ctx, updated.AccountID); err != nil {
			return nil, err
		}
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to begin transaction")
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, line.EntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to lock journal entry", "entryID", line.EntryID)
		}
		return nil, err
	}
	if entry.Posted {
		return nil, fmt.Errorf("%w: entry %d", ErrImmutableEntry, entry.EntryID)
	}

	updated.LastUpdatedAt = time.Now()
	if err := s.journalRepo.UpdateLineInTx(ctx, tx, updated); err != nil {
		s.LogError(ctx, err, "failed to update journal line", "lineID", lineID)
		return nil, err
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "failed to commit transaction", "lineID", lineID)
		return nil, err
	}

	s.LogInfo(ctx, "journal line updated", "entryID", entry.EntryID, "lineID", lineID)
	return &updated, nil
}

// DeleteLine removes a line from a draft entry.
func (s *journalService) DeleteLine(ctx context.Context, lineID int64) error {
	line, err := s.journalRepo.FindLineByID(ctx, lineID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find journal line", "lineID", lineID)
		}
		return err
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to begin transaction")
		return err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, line.EntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to lock journal entry", "entryID", line.EntryID)
		}
		return err
	}
	if entry.Posted {
		return fmt.Errorf("%w: entry %d", ErrImmutableEntry, entry.EntryID)
	}

	if err := s.journalRepo.DeleteLineInTx(ctx, tx, lineID); err != nil {
		s.LogError(ctx, err, "failed to delete journal line", "lineID", lineID)
		return err
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "failed to commit transaction", "lineID", lineID)
		return err
	}

	s.LogInfo(ctx, "journal line deleted", "entryID", entry.EntryID, "lineID", lineID)
	return nil
}

// PostEntry finalizes a draft entry. The balance check runs against the
// lines as they exist inside the transaction holding the entry lock, so
// no line mutation can land between the check and the flag flip. Once
// posted the entry and its lines are immutable.
func (s *journalService) PostEntry(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to begin transaction")
		return nil, err
	}
	defer func() { _ = s.journalRepo.Rollback(ctx, tx) }()

	entry, err := s.journalRepo.FindEntryByIDForUpdate(ctx, tx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to lock journal entry", "entryID", entryID)
		}
		return nil, err
	}
	if entry.Posted {
		return nil, fmt.Errorf("%w: entry %d is already posted", ErrImmutableEntry, entryID)
	}

	totalDebit, totalCredit, lineCount, err := s.journalRepo.SumLinesInTx(ctx, tx, entryID)
	if err != nil {
		s.LogError(ctx, err, "failed to sum journal lines", "entryID", entryID)
		return nil, err
	}
	if lineCount == 0 {
		return nil, fmt.Errorf("%w: entry %d", ErrEmptyEntry, entryID)
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, fmt.Errorf("%w: entry %d debits %s credits %s (difference %s)",
			ErrUnbalancedEntry, entryID, totalDebit, totalCredit, totalDebit.Sub(totalCredit))
	}

	now := time.Now()
	if err := s.journalRepo.MarkEntryPostedInTx(ctx, tx, entryID, now); err != nil {
		s.LogError(ctx, err, "failed to mark journal entry posted", "entryID", entryID)
		return nil, err
	}

	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "failed to commit transaction", "entryID", entryID)
		return nil, err
	}

	entry.Posted = true
	entry.LastUpdatedAt = now
	s.LogInfo(ctx, "journal entry posted", "entryID", entryID,
		"totalDebit", totalDebit.String(), "totalCredit", totalCredit.String(), "lineCount", lineCount)
	return entry, nil
}
