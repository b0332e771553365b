package mapping

import (
	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
	"github.com/hmsuite/hospital_accounting_app/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:    d.BudgetID,
		Period:      d.Period,
		Department:  d.Department,
		TotalAmount: d.TotalAmount,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:    m.BudgetID,
		Period:      m.Period,
		Department:  m.Department,
		TotalAmount: m.TotalAmount,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBudgetSlice converts a slice of model Budgets to domain Budgets
func ToDomainBudgetSlice(ms []models.Budget) []domain.Budget {
	ds := make([]domain.Budget, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBudget(m)
	}
	return ds
}

// ToModelBudgetLine converts a domain BudgetLine to a model BudgetLine
func ToModelBudgetLine(d domain.BudgetLine) models.BudgetLine {
	return models.BudgetLine{
		LineID:          d.LineID,
		BudgetID:        d.BudgetID,
		AccountID:       d.AccountID,
		AllocatedAmount: d.AllocatedAmount,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetLine converts a model BudgetLine to a domain BudgetLine
func ToDomainBudgetLine(m models.BudgetLine) domain.BudgetLine {
	return domain.BudgetLine{
		LineID:          m.LineID,
		BudgetID:        m.BudgetID,
		AccountID:       m.AccountID,
		AllocatedAmount: m.AllocatedAmount,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBudgetLineSlice converts a slice of model BudgetLines to domain BudgetLines
func ToDomainBudgetLineSlice(ms []models.BudgetLine) []domain.BudgetLine {
	ds := make([]domain.BudgetLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBudgetLine(m)
	}
	return ds
}
