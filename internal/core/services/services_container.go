package services

import (
	portsrepo "github.com/hmsuite/hospital_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/hmsuite/hospital_accounting_app/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc)
	budgetSvc := NewBudgetService(repos.BudgetRepo, accountSvc)

	return &portssvc.ServiceContainer{
		Account: accountSvc,
		Journal: journalSvc,
		Budget:  budgetSvc,
	}
}
