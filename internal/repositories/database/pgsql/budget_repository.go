package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hmsuite/hospital_accounting_app/internal/apperrors"
	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	portsrepo "github.com/hmsuite/hospital_accounting_app/internal/core/ports/repositories"
	"github.com/hmsuite/hospital_accounting_app/internal/models"
	"github.com/hmsuite/hospital_accounting_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(db Querier) *PgxBudgetRepository {
	return &PgxBudgetRepository{BaseRepository{DB: db}}
}

// Ensure PgxBudgetRepository implements portsrepo.BudgetRepositoryWithTx
var _ portsrepo.BudgetRepositoryWithTx = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, period, department, total_amount, created_at, last_updated_at`
const budgetLineColumns = `line_id, budget_id, account_id, allocated_amount, created_at, last_updated_at`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.Period,
		&m.Department,
		&m.TotalAmount,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

func scanBudgetLine(row pgx.Row) (models.BudgetLine, error) {
	var m models.BudgetLine
	err := row.Scan(
		&m.LineID,
		&m.BudgetID,
		&m.AccountID,
		&m.AllocatedAmount,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveBudget inserts a new budget and fills in the generated id. The unique
// index on (period, department) surfaces racing creates as duplicates.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget *domain.Budget) error {
	m := mapping.ToModelBudget(*budget)

	query := `
		INSERT INTO budgets (period, department, total_amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING budget_id;
	`
	err := r.DB.QueryRow(ctx, query,
		m.Period,
		m.Department,
		m.TotalAmount,
		m.CreatedAt,
		m.LastUpdatedAt,
	).Scan(&budget.BudgetID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: budget for period %s department %s already exists", apperrors.ErrDuplicate, m.Period, m.Department)
		}
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// FindBudgetByID retrieves a budget by its id, without lines.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID int64) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1;`

	m, err := scanBudget(r.DB.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("budget %d not found", budgetID))
		}
		return nil, fmt.Errorf("failed to find budget %d: %w", budgetID, err)
	}

	budget := mapping.ToDomainBudget(m)
	return &budget, nil
}

// FindBudgetByPeriodAndDepartment retrieves a budget by its natural key.
func (r *PgxBudgetRepository) FindBudgetByPeriodAndDepartment(ctx context.Context, period, department string) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE period = $1 AND department = $2;`

	m, err := scanBudget(r.DB.QueryRow(ctx, query, period, department))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("budget for period %s department %s not found", period, department))
		}
		return nil, fmt.Errorf("failed to find budget for period %s department %s: %w", period, department, err)
	}

	budget := mapping.ToDomainBudget(m)
	return &budget, nil
}

// ListBudgets retrieves all budgets ordered by period then department.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context) ([]domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets ORDER BY period, department;`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		m, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		budgets = append(budgets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading budget rows: %w", err)
	}
	return mapping.ToDomainBudgetSlice(budgets), nil
}

// FindBudgetLineByID retrieves a single allocation by its id.
func (r *PgxBudgetRepository) FindBudgetLineByID(ctx context.Context, lineID int64) (*domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines WHERE line_id = $1;`

	m, err := scanBudgetLine(r.DB.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("budget line %d not found", lineID))
		}
		return nil, fmt.Errorf("failed to find budget line %d: %w", lineID, err)
	}

	line := mapping.ToDomainBudgetLine(m)
	return &line, nil
}

// FindLinesByBudgetID retrieves a budget's allocations in insertion order.
func (r *PgxBudgetRepository) FindLinesByBudgetID(ctx context.Context, budgetID int64) ([]domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines WHERE budget_id = $1 ORDER BY line_id;`

	rows, err := r.DB.Query(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget lines for budget %d: %w", budgetID, err)
	}
	defer rows.Close()

	var lines []models.BudgetLine
	for rows.Next() {
		m, err := scanBudgetLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget line row: %w", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading budget line rows: %w", err)
	}
	return mapping.ToDomainBudgetLineSlice(lines), nil
}

// DeleteBudget removes a budget; its allocations cascade.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID int64) error {
	query := `DELETE FROM budgets WHERE budget_id = $1;`

	tag, err := r.DB.Exec(ctx, query, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %d: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("budget %d not found", budgetID))
	}
	return nil
}

// DeleteBudgetLine removes an allocation.
func (r *PgxBudgetRepository) DeleteBudgetLine(ctx context.Context, lineID int64) error {
	query := `DELETE FROM budget_lines WHERE line_id = $1;`

	tag, err := r.DB.Exec(ctx, query, lineID)
	if err != nil {
		return fmt.Errorf("failed to delete budget line %d: %w", lineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("budget line %d not found", lineID))
	}
	return nil
}

// FindBudgetByIDForUpdate selects the budget and locks its row until the
// surrounding transaction ends.
func (r *PgxBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID int64) (*domain.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE budget_id = $1 FOR UPDATE;`

	m, err := scanBudget(tx.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("budget %d not found", budgetID))
		}
		return nil, fmt.Errorf("failed to lock budget %d: %w", budgetID, err)
	}

	budget := mapping.ToDomainBudget(m)
	return &budget, nil
}

// FindBudgetLineByIDInTx retrieves an allocation within the transaction.
func (r *PgxBudgetRepository) FindBudgetLineByIDInTx(ctx context.Context, tx pgx.Tx, lineID int64) (*domain.BudgetLine, error) {
	query := `SELECT ` + budgetLineColumns + ` FROM budget_lines WHERE line_id = $1;`

	m, err := scanBudgetLine(tx.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("budget line %d not found", lineID))
		}
		return nil, fmt.Errorf("failed to find budget line %d: %w", lineID, err)
	}

	line := mapping.ToDomainBudgetLine(m)
	return &line, nil
}

// SumAllocationsInTx recomputes the allocated total for the locked budget.
func (r *PgxBudgetRepository) SumAllocationsInTx(ctx context.Context, tx pgx.Tx, budgetID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(allocated_amount), 0) FROM budget_lines WHERE budget_id = $1;`

	var total decimal.Decimal
	if err := tx.QueryRow(ctx, query, budgetID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum allocations for budget %d: %w", budgetID, err)
	}
	return total, nil
}

// SaveBudgetLineInTx appends an allocation and fills in the generated id.
func (r *PgxBudgetRepository) SaveBudgetLineInTx(ctx context.Context, tx pgx.Tx, line *domain.BudgetLine) error {
	m := mapping.ToModelBudgetLine(*line)

	query := `
		INSERT INTO budget_lines (budget_id, account_id, allocated_amount, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING line_id;
	`
	err := tx.QueryRow(ctx, query,
		m.BudgetID,
		m.AccountID,
		m.AllocatedAmount,
		m.CreatedAt,
		m.LastUpdatedAt,
	).Scan(&line.LineID)
	if err != nil {
		return fmt.Errorf("failed to save budget line for budget %d: %w", m.BudgetID, err)
	}
	return nil
}

// UpdateBudgetLineInTx rewrites an allocation's amount.
func (r *PgxBudgetRepository) UpdateBudgetLineInTx(ctx context.Context, tx pgx.Tx, line domain.BudgetLine) error {
	m := mapping.ToModelBudgetLine(line)

	query := `
		UPDATE budget_lines
		SET allocated_amount = $2, last_updated_at = $3
		WHERE line_id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.LineID, m.AllocatedAmount, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update budget line %d: %w", m.LineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("budget line %d not found", m.LineID))
	}
	return nil
}

// UpdateBudgetInTx rewrites the locked budget's fields.
func (r *PgxBudgetRepository) UpdateBudgetInTx(ctx context.Context, tx pgx.Tx, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)

	query := `
		UPDATE budgets
		SET period = $2, department = $3, total_amount = $4, last_updated_at = $5
		WHERE budget_id = $1;
	`
	tag, err := tx.Exec(ctx, query, m.BudgetID, m.Period, m.Department, m.TotalAmount, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: budget for period %s department %s already exists", apperrors.ErrDuplicate, m.Period, m.Department)
		}
		return fmt.Errorf("failed to update budget %d: %w", m.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("budget %d not found", m.BudgetID))
	}
	return nil
}
