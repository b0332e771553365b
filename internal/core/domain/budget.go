package domain

import "github.com/shopspring/decimal"

// Budget is a per-period, per-department spending ceiling. The
// (Period, Department) pair is unique across all budgets.
type Budget struct {
	BudgetID    int64           `json:"budgetID"` // Primary key (assigned by the store)
	Period      string          `json:"period"`   // Financial period key, e.g. "2026-Q1"
	Department  string          `json:"department"`
	TotalAmount decimal.Decimal `json:"totalAmount"` // Ceiling, >= 0
	AuditFields
	Lines []BudgetLine `json:"lines,omitempty"` // Loaded on demand
}

// BudgetLine allocates part of a budget's ceiling to one account. The sum of
// allocated amounts across a budget's lines never exceeds its TotalAmount.
type BudgetLine struct {
	LineID          int64           `json:"lineID"`   // Primary key (assigned by the store)
	BudgetID        int64           `json:"budgetID"` // FK -> Budget
	AccountID       int64           `json:"accountID"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"` // > 0
	AuditFields
}
