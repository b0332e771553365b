package services

import (
	"context"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/hmsuite/hospital_accounting_app/internal/dto"
)

// BudgetSvcFacade exposes the budget-control operations to calling layers.
type BudgetSvcFacade interface {
	// CreateBudget creates a budget for a unique (period, department) pair.
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest) (*domain.Budget, error)

	// GetBudgetByID retrieves a budget with its allocations.
	GetBudgetByID(ctx context.Context, budgetID int64) (*domain.Budget, error)

	// ListBudgets retrieves all budgets without allocations.
	ListBudgets(ctx context.Context) ([]domain.Budget, error)

	// UpdateBudget changes budget fields; shrinking the ceiling below the
	// allocated sum is rejected.
	UpdateBudget(ctx context.Context, budgetID int64, req dto.UpdateBudgetRequest) (*domain.Budget, error)

	// DeleteBudget removes a budget and its allocations.
	DeleteBudget(ctx context.Context, budgetID int64) error

	// Allocate assigns part of the budget ceiling to an account.
	Allocate(ctx context.Context, budgetID int64, req dto.AllocateRequest) (*domain.BudgetLine, error)

	// GetAllocationByID retrieves a single allocation.
	GetAllocationByID(ctx context.Context, lineID int64) (*domain.BudgetLine, error)

	// ListAllocations retrieves a budget's allocations in insertion order.
	ListAllocations(ctx context.Context, budgetID int64) ([]domain.BudgetLine, error)

	// UpdateAllocation rewrites an allocation's amount under the same ceiling check.
	UpdateAllocation(ctx context.Context, lineID int64, req dto.UpdateAllocationRequest) (*domain.BudgetLine, error)

	// DeleteAllocation removes an allocation; never violates the ceiling.
	DeleteAllocation(ctx context.Context, lineID int64) error
}
