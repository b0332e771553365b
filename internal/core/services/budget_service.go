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
)

var (
	// ErrDuplicateBudget indicates a budget already exists for the (period, department) pair.
	ErrDuplicateBudget = errors.New("budget already exists for this period and department")
	// ErrBudgetExceeded indicates the allocation would push the allocated sum over the ceiling.
	ErrBudgetExceeded = errors.New("allocation exceeds budget total")
	// ErrBudgetUnderAllocated indicates the new total would fall below the already allocated sum.
	ErrBudgetUnderAllocated = errors.New("budget total cannot fall below the allocated sum")
)

type budgetService struct {
	BaseService
	budgetRepo portsrepo.BudgetRepositoryWithTx
	accountSvc portssvc.AccountSvcFacade
}

// NewBudgetService creates a new budget service instance.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryWithTx, accountSvc portssvc.AccountSvcFacade) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo: budgetRepo,
		accountSvc: accountSvc,
	}
}

// CreateBudget creates a budget for a unique (period, department) pair.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	if req.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: total amount %s must not be negative", apperrors.ErrValidation, req.TotalAmount)
	}

	existing, err := s.budgetRepo.FindBudgetByPeriodAndDepartment(ctx, req.Period, req.Department)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "failed to check budget uniqueness", "period", req.Period, "department", req.Department)
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: period %s department %s", ErrDuplicateBudget, req.Period, req.Department)
	}

	now := time.Now()
	budget := domain.Budget{
		Period:      req.Period,
		Department:  req.Department,
		TotalAmount: req.TotalAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.budgetRepo.SaveBudget(ctx, &budget); err != nil {
		// The unique index backs up the read-then-insert above, so a
		// racing create surfaces here as a duplicate.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: period %s department %s", ErrDuplicateBudget, req.Period, req.Department)
		}
		s.LogError(ctx, err, "failed to save budget", "period", req.Period, "department", req.Department)
		return nil, err
	}

	s.LogInfo(ctx, "budget created", "budgetID", budget.BudgetID, "period", budget.Period, "department", budget.Department)
	return &budget, nil
}

// GetBudgetByID retrieves a budget together with its allocations.
func (s *budgetService) GetBudgetByID(ctx context.Context, budgetID int64) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find budget", "budgetID", budgetID)
		}
		return nil, err
	}

	lines, err := s.budgetRepo.FindLinesByBudgetID(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "failed to load budget lines", "budgetID", budgetID)
		return nil, err
	}
	budget.Lines = lines
	return budget, nil
}

// ListBudgets retrieves all budgets without allocations.
func (s *budgetService) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to list budgets")
		return nil, err
	}
	return budgets, nil
}

// UpdateBudget applies a partial update to a budget. Shrinking the total
// below the currently allocated sum is rejected, with the sum recomputed
// under the budget row lock.
func (s *budgetService) UpdateBudget(ctx context.Context, budgetID int64, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: total amount %s must not be negative", apperrors.ErrValidation, *req.TotalAmount)
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to begin transaction")
		return nil, err
	}
	defer func() { _ = s.budgetRepo.Rollback(ctx, tx) }()

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to lock budget", "budgetID", budgetID)
		}
		return nil, err
	}

	if req.Period != nil {
		budget.Period = *req.Period
	}
	if req.Department != nil {
		budget.Department = *req.Department
	}
	if req.TotalAmount != nil {
		allocated, err := s.budgetRepo.SumAllocationsInTx(ctx, tx, budgetID)
		if err != nil {
			s.LogError(ctx, err, "failed to sum allocations", "budgetID", budgetID)
			return nil, err
		}
		if req.TotalAmount.LessThan(allocated) {
			return nil, fmt.Errorf("%w: total %s allocated %s", ErrBudgetUnderAllocated, *req.TotalAmount, allocated)
		}
		budget.TotalAmount = *req.TotalAmount
	}

	budget.LastUpdatedAt = time.Now()
	if err := s.budgetRepo.UpdateBudgetInTx(ctx, tx, *budget); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: period %s department %s", ErrDuplicateBudget, budget.Period, budget.Department)
		}
		s.LogError(ctx, err, "failed to update budget", "budgetID", budgetID)
		return nil, err
	}

	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "failed to commit transaction", "budgetID", budgetID)
		return nil, err
	}

	s.LogInfo(ctx, "budget updated", "budgetID", budgetID)
	return budget, nil
}

// DeleteBudget removes a budget and all of its allocations.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID int64) error {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find budget", "budgetID", budgetID)
		}
		return err
	}

	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		s.LogError(ctx, err, "failed to delete budget", "budgetID", budgetID)
		return err
	}

	s.LogInfo(ctx, "budget deleted", "budgetID", budgetID)
	return nil
}

// Allocate assigns part of the budget ceiling to an account. The check
// against the ceiling runs on the allocated sum recomputed under the
// budget row lock, so concurrent allocations cannot jointly overshoot.
func (s *budgetService) Allocate(ctx context.Context, budgetID int64, req dto.AllocateRequest) (*domain.BudgetLine, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: allocation amount %s must be positive", apperrors.ErrValidation, req.Amount)
	}

	account, err := s.accountSvc.GetAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %d", ErrInactiveAccount, req.AccountID)
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to begin transaction")
		return nil, err
	}
	defer func() { _ = s.budgetRepo.Rollback(ctx, tx) }()

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, budgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to lock budget", "budgetID", budgetID)
		}
		return nil, err
	}

	allocated, err := s.budgetRepo.SumAllocationsInTx(ctx, tx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "failed to sum allocations", "budgetID", budgetID)
		return nil, err
	}
	if allocated.Add(req.Amount).GreaterThan(budget.TotalAmount) {
		return nil, fmt.Errorf("%w: allocated %s + %s exceeds total %s",
			ErrBudgetExceeded, allocated, req.Amount, budget.TotalAmount)
	}

	now := time.Now()
	line := domain.BudgetLine{
		BudgetID:        budgetID,
		AccountID:       req.AccountID,
		AllocatedAmount: req.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.budgetRepo.SaveBudgetLineInTx(ctx, tx, &line); err != nil {
		s.LogError(ctx, err, "failed to save budget line", "budgetID", budgetID)
		return nil, err
	}

	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "failed to commit transaction", "budgetID", budgetID)
		return nil, err
	}

	s.LogInfo(ctx, "budget allocation created", "budgetID", budgetID, "lineID", line.LineID,
		"amount", req.Amount.String(), "remaining", budget.TotalAmount.Sub(allocated.Add(req.Amount)).String())
	return &line, nil
}

// GetAllocationByID retrieves a single allocation.
func (s *budgetService) GetAllocationByID(ctx context.Context, lineID int64) (*domain.BudgetLine, error) {
	line, err := s.budgetRepo.FindBudgetLineByID(ctx, lineID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find budget line", "lineID", lineID)
		}
		return nil, err
	}
	return line, nil
}

// ListAllocations retrieves a budget's allocations in insertion order.
func (s *budgetService) ListAllocations(ctx context.Context, budgetID int64) ([]domain.BudgetLine, error) {
	if _, err := s.budgetRepo.FindBudgetByID(ctx, budgetID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find budget", "budgetID", budgetID)
		}
		return nil, err
	}

	lines, err := s.budgetRepo.FindLinesByBudgetID(ctx, budgetID)
	if err != nil {
		s.LogError(ctx, err, "failed to load budget lines", "budgetID", budgetID)
		return nil, err
	}
	return lines, nil
}

// UpdateAllocation rewrites an allocation's amount. The ceiling check
// counts the line at its new amount in place of its old one.
func (s *budgetService) UpdateAllocation(ctx context.Context, lineID int64, req dto.UpdateAllocationRequest) (*domain.BudgetLine, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: allocation amount %s must be positive", apperrors.ErrValidation, req.Amount)
	}

	line, err := s.budgetRepo.FindBudgetLineByID(ctx, lineID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find budget line", "lineID", lineID)
		}
		return nil, err
	}

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "failed to begin transaction")
		return nil, err
	}
	defer func() { _ = s.budgetRepo.Rollback(ctx, tx) }()

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, line.BudgetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to lock budget", "budgetID", line.BudgetID)
		}
		return nil, err
	}

	// Re-read the line under the lock in case it was deleted meanwhile.
	locked, err := s.budgetRepo.FindBudgetLineByIDInTx(ctx, tx, lineID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find budget line", "lineID", lineID)
		}
		return nil, err
	}

	allocated, err := s.budgetRepo.SumAllocationsInTx(ctx, tx, budget.BudgetID)
	if err != nil {
		s.LogError(ctx, err, "failed to sum allocations", "budgetID", budget.BudgetID)
		return nil, err
	}
	newAllocated := allocated.Sub(locked.AllocatedAmount).Add(req.Amount)
	if newAllocated.GreaterThan(budget.TotalAmount) {
		return nil, fmt.Errorf("%w: allocated %s exceeds total %s",
			ErrBudgetExceeded, newAllocated, budget.TotalAmount)
	}

	updated := *locked
	updated.AllocatedAmount = req.Amount
	updated.LastUpdatedAt = time.Now()
	if err := s.budgetRepo.UpdateBudgetLineInTx(ctx, tx, updated); err != nil {
		s.LogError(ctx, err, "failed to update budget line", "lineID", lineID)
		return nil, err
	}

	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "failed to commit transaction", "lineID", lineID)
		return nil, err
	}

	s.LogInfo(ctx, "budget allocation updated", "budgetID", budget.BudgetID, "lineID", lineID, "amount", req.Amount.String())
	return &updated, nil
}

// DeleteAllocation removes an allocation. Removal only lowers the
// allocated sum, so no ceiling check is needed.
func (s *budgetService) DeleteAllocation(ctx context.Context, lineID int64) error {
	line, err := s.budgetRepo.FindBudgetLineByID(ctx, lineID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find budget line", "lineID", lineID)
		}
		return err
	}

	if err := s.budgetRepo.DeleteBudgetLine(ctx, lineID); err != nil {
		s.LogError(ctx, err, "failed to delete budget line", "lineID", lineID)
		return err
	}

	s.LogInfo(ctx, "budget allocation deleted", "budgetID", line.BudgetID, "lineID", lineID)
	return nil
}
