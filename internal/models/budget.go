package models

import "github.com/shopspring/decimal"

// Budget mirrors the budgets table.
type Budget struct {
	BudgetID    int64           `db:"budget_id"`
	Period      string          `db:"period"`
	Department  string          `db:"department"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	AuditFields
}

// BudgetLine mirrors the budget_lines table.
type BudgetLine struct {
	LineID          int64           `db:"line_id"`
	BudgetID        int64           `db:"budget_id"`
	AccountID       int64           `db:"account_id"`
	AllocatedAmount decimal.Decimal `db:"allocated_amount"`
	AuditFields
}
