package services

import (
	"context"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/hmsuite/hospital_accounting_app/internal/dto"
)

// AccountSvcFacade exposes the chart-of-accounts operations to calling layers.
type AccountSvcFacade interface {
	// CreateAccount creates an active account, optionally under a parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccountByID retrieves an account. Deactivated accounts stay resolvable.
	GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by id.
	GetAccountsByIDs(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error)

	// ListAccounts retrieves accounts matching the optional type/active/parent filter.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// UpdateAccount renames, retypes, reparents or (de)activates an account.
	UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error)

	// DeactivateAccount soft-deletes an account.
	DeactivateAccount(ctx context.Context, accountID int64) error

	// DeleteAccount physically removes an account not referenced by any line.
	DeleteAccount(ctx context.Context, accountID int64) error
}
