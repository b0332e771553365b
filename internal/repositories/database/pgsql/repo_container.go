package pgsql

import (
	portsrepo "github.com/hmsuite/hospital_accounting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the concrete repositories over the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo: newPgxAccountRepository(dbPool),
		JournalRepo: newPgxJournalRepository(dbPool),
		BudgetRepo:  newPgxBudgetRepository(dbPool),
	}
}
