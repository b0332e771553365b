package repositories

import (
	"context"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByID retrieves a specific budget by its identifier.
	FindBudgetByID(ctx context.Context, budgetID int64) (*domain.Budget, error)

	// FindBudgetByPeriodAndDepartment retrieves a budget by its natural key.
	FindBudgetByPeriodAndDepartment(ctx context.Context, period, department string) (*domain.Budget, error)

	// ListBudgets retrieves all budgets.
	ListBudgets(ctx context.Context) ([]domain.Budget, error)

	// FindBudgetLineByID retrieves a single allocation line.
	FindBudgetLineByID(ctx context.Context, lineID int64) (*domain.BudgetLine, error)

	// FindLinesByBudgetID retrieves a budget's allocations in insertion order.
	FindLinesByBudgetID(ctx context.Context, budgetID int64) ([]domain.BudgetLine, error)
}

// BudgetWriter defines write operations that need no aggregate lock
type BudgetWriter interface {
	// SaveBudget persists a new budget and assigns its BudgetID.
	SaveBudget(ctx context.Context, budget *domain.Budget) error

	// DeleteBudget removes a budget; owned lines cascade.
	DeleteBudget(ctx context.Context, budgetID int64) error

	// DeleteBudgetLine removes an allocation. Removal only ever decreases the
	// allocated sum, so no ceiling re-check is required.
	DeleteBudgetLine(ctx context.Context, lineID int64) error
}

// BudgetTxSupport defines the operations that must run inside a transaction
// holding the budget row lock, so the ceiling check cannot race with
// concurrent allocations.
type BudgetTxSupport interface {
	// FindBudgetByIDForUpdate selects the budget and locks its row for update.
	FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID int64) (*domain.Budget, error)

	// FindBudgetLineByIDInTx retrieves an allocation within the transaction.
	FindBudgetLineByIDInTx(ctx context.Context, tx pgx.Tx, lineID int64) (*domain.BudgetLine, error)

	// SumAllocationsInTx recomputes the allocated total for the locked budget.
	SumAllocationsInTx(ctx context.Context, tx pgx.Tx, budgetID int64) (decimal.Decimal, error)

	// SaveBudgetLineInTx appends an allocation and assigns its LineID.
	SaveBudgetLineInTx(ctx context.Context, tx pgx.Tx, line *domain.BudgetLine) error

	// UpdateBudgetLineInTx rewrites an allocation's amount.
	UpdateBudgetLineInTx(ctx context.Context, tx pgx.Tx, line domain.BudgetLine) error

	// UpdateBudgetInTx rewrites the locked budget's fields.
	UpdateBudgetInTx(ctx context.Context, tx pgx.Tx, budget domain.Budget) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
	BudgetTxSupport
}

// BudgetRepositoryWithTx extends BudgetRepositoryFacade with transaction capabilities
type BudgetRepositoryWithTx interface {
	BudgetRepositoryFacade
	TransactionManager
}
