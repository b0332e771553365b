package dto

import (
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/hmsuite/hospital_accounting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest defines the data needed to create a budget.
type CreateBudgetRequest struct {
	Period      string          `json:"period" binding:"required,budgetperiod"`
	Department  string          `json:"department" binding:"required"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
}

// UpdateBudgetRequest defines the budget fields that may change.
type UpdateBudgetRequest struct {
	Period      *string          `json:"period" binding:"omitempty,budgetperiod"`
	Department  *string          `json:"department"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

// AllocateRequest defines the data for one allocation within a budget.
type AllocateRequest struct {
	AccountID int64           `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// UpdateAllocationRequest rewrites an allocation's amount.
type UpdateAllocationRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// BudgetLineResponse defines the data returned for an allocation.
type BudgetLineResponse struct {
	LineID          int64           `json:"lineID"`
	BudgetID        int64           `json:"budgetID"`
	AccountID       int64           `json:"accountID"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID       int64                `json:"budgetID"`
	Period         string               `json:"period"`
	Department     string               `json:"department"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	CreatedAt      time.Time            `json:"createdAt"`
	LastUpdatedAt  time.Time            `json:"lastUpdatedAt"`
	Lines          []BudgetLineResponse `json:"lines,omitempty"`
	AllocatedTotal *decimal.Decimal     `json:"allocatedTotal,omitempty"`
}

// ToBudgetLineResponse converts a domain.BudgetLine to BudgetLineResponse DTO.
func ToBudgetLineResponse(line *domain.BudgetLine) BudgetLineResponse {
	return BudgetLineResponse{
		LineID:          line.LineID,
		BudgetID:        line.BudgetID,
		AccountID:       line.AccountID,
		AllocatedAmount: line.AllocatedAmount,
	}
}

// ToBudgetLineResponses converts a slice of domain.BudgetLine to []BudgetLineResponse.
func ToBudgetLineResponses(lines []domain.BudgetLine) []BudgetLineResponse {
	responses := make([]BudgetLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToBudgetLineResponse(&line)
	}
	return responses
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	resp := BudgetResponse{
		BudgetID:      b.BudgetID,
		Period:        b.Period,
		Department:    b.Department,
		TotalAmount:   b.TotalAmount,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
	if b.Lines != nil {
		resp.Lines = ToBudgetLineResponses(b.Lines)
		allocated := accounting.SumAllocations(b.Lines)
		resp.AllocatedTotal = &allocated
	}
	return resp
}

// ToBudgetResponses converts a slice of domain.Budget to []BudgetResponse.
func ToBudgetResponses(budgets []domain.Budget) []BudgetResponse {
	responses := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = ToBudgetResponse(&b)
	}
	return responses
}
