package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/shawqlabs/fxn_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:  newPgxRateRepository(dbPool),
		UsageRepo: newPgxUsageRepository(dbPool),
		SpendRepo: newPgxSpendRepository(dbPool),
	}
}
