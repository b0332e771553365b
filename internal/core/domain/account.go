package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ValidAccountType reports whether t is one of the five account types.
func ValidAccountType(t AccountType) bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a node in the chart of accounts. Accounts form a forest via
// ParentAccountID; once a journal or budget line references an account it is
// never physically deleted, only deactivated.
type Account struct {
	AccountID       int64       `json:"accountID"`       // Primary key (assigned by the store)
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID *int64      `json:"parentAccountID"` // Nullable, self-referencing
	IsActive        bool        `json:"isActive"`        // Soft delete flag
	AuditFields
}
