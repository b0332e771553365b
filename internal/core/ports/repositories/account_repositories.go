package repositories

import (
	"context"
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
)

// AccountFilter narrows ListAccounts results. Nil fields are not applied.
type AccountFilter struct {
	AccountType     *domain.AccountType
	IsActive        *bool
	ParentAccountID *int64
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error)

	// ListAccounts retrieves accounts matching the given filter.
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)

	// FindParentChain returns the parent id of every known account, keyed by
	// account id. Used for the bounded ancestor walk in the cycle check.
	FindParentChain(ctx context.Context) (map[int64]*int64, error)

	// IsAccountReferenced reports whether any journal line or budget line
	// references the account.
	IsAccountReferenced(ctx context.Context, accountID int64) (bool, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and assigns its AccountID.
	SaveAccount(ctx context.Context, account *domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID int64, now time.Time) error

	// DeleteAccount physically removes an unreferenced account.
	DeleteAccount(ctx context.Context, accountID int64) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
