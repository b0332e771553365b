package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account mirrors the accounts table.
type Account struct {
	AccountID       int64       `db:"account_id"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID *int64      `db:"parent_account_id"` // Nullable
	IsActive        bool        `db:"is_active"`
	AuditFields
}
