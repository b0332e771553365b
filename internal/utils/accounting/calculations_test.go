package accounting_test

import (
	"testing"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/hmsuite/hospital_accounting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidLineAmounts(t *testing.T) {
	tests := []struct {
		name   string
		debit  string
		credit string
		want   bool
	}{
		{"debit only", "1000", "0", true},
		{"credit only", "0", "250.75", true},
		{"both sided", "500", "500", false},
		{"zero sided", "0", "0", false},
		{"negative debit", "-10", "0", false},
		{"negative credit", "0", "-10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit := decimal.RequireFromString(tt.debit)
			credit := decimal.RequireFromString(tt.credit)
			assert.Equal(t, tt.want, accounting.ValidLineAmounts(debit, credit))
		})
	}
}

func TestSumLines(t *testing.T) {
	lines := []domain.JournalLine{
		{Debit: decimal.RequireFromString("100.50"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: decimal.RequireFromString("60.25")},
		{Debit: decimal.Zero, Credit: decimal.RequireFromString("40.25")},
	}

	totalDebit, totalCredit := accounting.SumLines(lines)

	assert.True(t, totalDebit.Equal(decimal.RequireFromString("100.50")))
	assert.True(t, totalCredit.Equal(decimal.RequireFromString("100.50")))
	assert.True(t, totalDebit.Equal(totalCredit))
}

func TestSumLines_Empty(t *testing.T) {
	totalDebit, totalCredit := accounting.SumLines(nil)
	assert.True(t, totalDebit.IsZero())
	assert.True(t, totalCredit.IsZero())
}

func TestSumAllocations(t *testing.T) {
	lines := []domain.BudgetLine{
		{AllocatedAmount: decimal.RequireFromString("50000")},
		{AllocatedAmount: decimal.RequireFromString("0.01")},
	}
	assert.True(t, accounting.SumAllocations(lines).Equal(decimal.RequireFromString("50000.01")))
}

func TestWouldCycle(t *testing.T) {
	parentOf := func(id int64) *int64 { return &id }

	// 1 <- 2 <- 3 (3's parent is 2, 2's parent is 1)
	parents := map[int64]*int64{
		1: nil,
		2: parentOf(1),
		3: parentOf(2),
	}

	// Reparenting 1 under 3 closes the loop.
	assert.True(t, accounting.WouldCycle(1, 3, parents))
	// Self-parenting is the degenerate cycle.
	assert.True(t, accounting.WouldCycle(2, 2, parents))
	// Moving 3 under 1 just shortens the chain.
	assert.False(t, accounting.WouldCycle(3, 1, parents))
	// A fresh account cannot be its own ancestor.
	assert.False(t, accounting.WouldCycle(99, 3, parents))
}

func TestWouldCycle_CorruptedChain(t *testing.T) {
	parentOf := func(id int64) *int64 { return &id }

	// 2 and 3 already point at each other; the bounded walk must terminate.
	parents := map[int64]*int64{
		2: parentOf(3),
		3: parentOf(2),
	}
	assert.True(t, accounting.WouldCycle(1, 2, parents))
}
