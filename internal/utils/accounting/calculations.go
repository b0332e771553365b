package accounting

import (
	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidLineAmounts reports whether a debit/credit pair is well formed:
// both non-negative, exactly one strictly positive and the other exactly
// zero. A line is never both-sided or zero-sided.
func ValidLineAmounts(debit, credit decimal.Decimal) bool {
	if debit.IsNegative() || credit.IsNegative() {
		return false
	}
	return (debit.IsPositive() && credit.IsZero()) || (credit.IsPositive() && debit.IsZero())
}

// SumLines recomputes the debit and credit totals over a set of journal
// lines. Totals are recomputed on demand rather than cached; the posting
// check relies on exact decimal equality of the two sums.
func SumLines(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return totalDebit, totalCredit
}

// SumAllocations recomputes the allocated total over a budget's lines.
func SumAllocations(lines []domain.BudgetLine) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.AllocatedAmount)
	}
	return sum
}

// WouldCycle reports whether assigning newParentID as the parent of
// accountID would place the account inside its own ancestor chain. The walk
// is bounded by the number of known accounts, so a corrupted chain cannot
// loop forever. parents maps each account id to its (nullable) parent id.
func WouldCycle(accountID int64, newParentID int64, parents map[int64]*int64) bool {
	current := newParentID
	for hops := 0; hops <= len(parents); hops++ {
		if current == accountID {
			return true
		}
		parent, ok := parents[current]
		if !ok || parent == nil {
			return false
		}
		current = *parent
	}
	// Walked more hops than accounts exist; the chain is already cyclic.
	return true
}
