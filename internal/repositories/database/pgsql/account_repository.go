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
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(db Querier) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{DB: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, name, account_type, parent_account_id, is_active, created_at, last_updated_at`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.IsActive,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveAccount inserts a new account and fills in the generated id.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)

	query := `
		INSERT INTO accounts (name, account_type, parent_account_id, is_active, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING account_id;
	`
	err := r.DB.QueryRow(ctx, query,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.IsActive,
		m.CreatedAt,
		m.LastUpdatedAt,
	).Scan(&account.AccountID)
	if err != nil {
		return fmt.Errorf("failed to save account %q: %w", m.Name, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its id.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.DB.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %d not found", accountID))
		}
		return nil, fmt.Errorf("failed to find account %d: %w", accountID, err)
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves a batch of accounts keyed by id. Missing ids
// are simply absent from the result map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[int64]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.DB.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by ids: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading account rows: %w", err)
	}
	return result, nil
}

// ListAccounts retrieves accounts matching the optional filter, ordered by id.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []any{}

	if filter.AccountType != nil {
		args = append(args, string(*filter.AccountType))
		query += fmt.Sprintf(" AND account_type = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	if filter.ParentAccountID != nil {
		args = append(args, *filter.ParentAccountID)
		query += fmt.Sprintf(" AND parent_account_id = $%d", len(args))
	}
	query += " ORDER BY account_id;"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// FindParentChain loads the id -> parent id map for the whole chart of
// accounts. The chart is small enough that cycle checks work on the full map.
func (r *PgxAccountRepository) FindParentChain(ctx context.Context) (map[int64]*int64, error) {
	query := `SELECT account_id, parent_account_id FROM accounts;`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load account hierarchy: %w", err)
	}
	defer rows.Close()

	parents := make(map[int64]*int64)
	for rows.Next() {
		var accountID int64
		var parentID *int64
		if err := rows.Scan(&accountID, &parentID); err != nil {
			return nil, fmt.Errorf("failed to scan hierarchy row: %w", err)
		}
		parents[accountID] = parentID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading hierarchy rows: %w", err)
	}
	return parents, nil
}

// IsAccountReferenced reports whether any journal line or budget allocation
// points at the account.
func (r *PgxAccountRepository) IsAccountReferenced(ctx context.Context, accountID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1)
			OR EXISTS (SELECT 1 FROM budget_lines WHERE account_id = $1);
	`
	var referenced bool
	if err := r.DB.QueryRow(ctx, query, accountID).Scan(&referenced); err != nil {
		return false, fmt.Errorf("failed to check references for account %d: %w", accountID, err)
	}
	return referenced, nil
}

// UpdateAccount rewrites an account's mutable fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, account_type = $3, parent_account_id = $4, is_active = $5, last_updated_at = $6
		WHERE account_id = $1;
	`
	tag, err := r.DB.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.IsActive,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %d not found", m.AccountID))
	}
	return nil
}

// DeactivateAccount flips the is_active flag off.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID int64, now time.Time) error {
	query := `UPDATE accounts SET is_active = FALSE, last_updated_at = $2 WHERE account_id = $1;`

	tag, err := r.DB.Exec(ctx, query, accountID, now)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %d: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %d not found", accountID))
	}
	return nil
}

// DeleteAccount physically removes an account. The caller checks references
// first; the FK constraints back that check up.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID int64) error {
	query := `DELETE FROM accounts WHERE account_id = $1;`

	tag, err := r.DB.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %d not found", accountID))
	}
	return nil
}
