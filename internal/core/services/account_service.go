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
	// ErrAccountNotFound indicates the requested account does not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInactiveAccount indicates the account has been deactivated and cannot take new postings.
	ErrInactiveAccount = errors.New("account is inactive")
	// ErrCycleDetected indicates the requested parent assignment would make the account its own ancestor.
	ErrCycleDetected = errors.New("account hierarchy cycle detected")
	// ErrAccountReferenced indicates the account is referenced by journal or budget lines and cannot be deleted.
	ErrAccountReferenced = errors.New("account is referenced by existing lines")
)

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service instance.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
	}
}

// CreateAccount validates and persists a new chart-of-accounts entry.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	accountType := domain.AccountType(req.AccountType)
	if !domain.ValidAccountType(accountType) {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if req.ParentAccountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %d", ErrAccountNotFound, *req.ParentAccountID)
			}
			s.LogError(ctx, err, "failed to resolve parent account", "parentAccountID", *req.ParentAccountID)
			return nil, err
		}
	}

	now := time.Now()
	account := domain.Account{
		Name:            req.Name,
		AccountType:     accountType,
		ParentAccountID: req.ParentAccountID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, &account); err != nil {
		s.LogError(ctx, err, "failed to save account", "name", req.Name)
		return nil, err
	}

	s.LogInfo(ctx, "account created", "accountID", account.AccountID, "accountType", account.AccountType)
	return &account, nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %d", ErrAccountNotFound, accountID)
		}
		s.LogError(ctx, err, "failed to find account", "accountID", accountID)
		return nil, err
	}
	return account, nil
}

// GetAccountsByIDs retrieves a batch of accounts keyed by id.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "failed to find accounts by ids")
		return nil, err
	}
	return accounts, nil
}

// ListAccounts returns accounts matching the given filter.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountFilter{
		IsActive:        params.IsActive,
		ParentAccountID: params.ParentAccountID,
	}
	if params.AccountType != nil {
		accountType := domain.AccountType(*params.AccountType)
		if !domain.ValidAccountType(accountType) {
			return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, *params.AccountType)
		}
		filter.AccountType = &accountType
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount applies a partial update to an account, guarding the
// hierarchy against cycles when the parent changes.
func (s *accountService) UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	retyped := false
	reparented := false

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountType != nil {
		accountType := domain.AccountType(*req.AccountType)
		if !domain.ValidAccountType(accountType) {
			return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, *req.AccountType)
		}
		if accountType != account.AccountType {
			retyped = true
		}
		account.AccountType = accountType
	}
	if req.ParentAccountID != nil {
		newParentID := *req.ParentAccountID
		if newParentID == accountID {
			return nil, fmt.Errorf("%w: account %d cannot be its own parent", ErrCycleDetected, accountID)
		}
		if _, err := s.accountRepo.FindAccountByID(ctx, newParentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %d", ErrAccountNotFound, newParentID)
			}
			s.LogError(ctx, err, "failed to resolve parent account", "parentAccountID", newParentID)
			return nil, err
		}
		parents, err := s.accountRepo.FindParentChain(ctx)
		if err != nil {
			s.LogError(ctx, err, "failed to load account hierarchy")
			return nil, err
		}
		if accounting.WouldCycle(accountID, newParentID, parents) {
			return nil, fmt.Errorf("%w: account %d under parent %d", ErrCycleDetected, accountID, newParentID)
		}
		if account.ParentAccountID == nil || *account.ParentAccountID != newParentID {
			reparented = true
		}
		account.ParentAccountID = &newParentID
	}

	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if retyped || reparented {
		referenced, err := s.accountRepo.IsAccountReferenced(ctx, accountID)
		if err != nil {
			s.LogError(ctx, err, "failed to check account references", "accountID", accountID)
			return nil, err
		}
		if referenced {
			s.LogWarn(ctx, "changing type or parent of a referenced account", "accountID", accountID, "retyped", retyped, "reparented", reparented)
		}
	}

	account.LastUpdatedAt = time.Now()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "failed to update account", "accountID", accountID)
		return nil, err
	}

	s.LogInfo(ctx, "account updated", "accountID", accountID)
	return account, nil
}

// DeactivateAccount soft-deletes an account. The account remains
// visible in reads and existing lines keep pointing at it.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID int64) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, time.Now()); err != nil {
		s.LogError(ctx, err, "failed to deactivate account", "accountID", accountID)
		return err
	}

	s.LogInfo(ctx, "account deactivated", "accountID", accountID)
	return nil
}

// DeleteAccount permanently removes an account. Accounts referenced by
// journal or budget lines cannot be deleted, only deactivated.
func (s *accountService) DeleteAccount(ctx context.Context, accountID int64) error {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return err
	}

	referenced, err := s.accountRepo.IsAccountReferenced(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "failed to check account references", "accountID", accountID)
		return err
	}
	if referenced {
		return fmt.Errorf("%w: account %d", ErrAccountReferenced, accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "failed to delete account", "accountID", accountID)
		return err
	}

	s.LogInfo(ctx, "account deleted", "accountID", accountID)
	return nil
}
