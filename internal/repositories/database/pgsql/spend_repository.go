package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
)

// adMetricTables lists the three tables the Meta sync pipeline writes spend
// rows into. Table names are interpolated into SQL, so the list is a closed
// constant, never caller input.
var adMetricTables = []string{"campaign_daily", "adset_daily", "ad_daily"}

// PgxSpendRepository implements the ports.SpendRepositoryFacade interface using pgxpool.
type PgxSpendRepository struct {
	BaseRepository
}

func newPgxSpendRepository(db *pgxpool.Pool) *PgxSpendRepository {
	return &PgxSpendRepository{BaseRepository: BaseRepository{Pool: db}}
}

// ApplyRates rewrites spend, conversion_value and cost_per_link_click from
// their _original columns for every TRY row in the window whose date has a
// stored rate. All three tables are updated inside one transaction: either
// the whole window commits or nothing is written. The rewrite is a pure
// function of (_original columns, stored rate), which makes re-runs
// idempotent.
func (r *PgxSpendRepository) ApplyRates(ctx context.Context, store string, start, end time.Time) ([]domain.TableApplyStats, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	stats := make([]domain.TableApplyStats, 0, len(adMetricTables))
	for _, table := range adMetricTables {
		ts := domain.TableApplyStats{Table: table}

		// NULL original_currency counts as TRY; the sync pipeline only omits
		// the column for its TRY tenant.
		candidatesQ := fmt.Sprintf(`
			SELECT COUNT(*) FROM %s t
			WHERE t.store = $1 AND t.date BETWEEN $2 AND $3
			  AND COALESCE(t.original_currency, 'TRY') = 'TRY'`, table)
		if err := tx.QueryRow(ctx, candidatesQ, store, start, end).Scan(&ts.Candidates); err != nil {
			return nil, apperrors.NewAppError(500, "failed to count candidate rows in "+table, err)
		}

		convertibleQ := fmt.Sprintf(`
			SELECT COUNT(*) FROM %s t
			WHERE t.store = $1 AND t.date BETWEEN $2 AND $3
			  AND COALESCE(t.original_currency, 'TRY') = 'TRY'
			  AND EXISTS (
				SELECT 1 FROM exchange_rates er
				WHERE er.from_currency = 'TRY' AND er.to_currency = 'USD' AND er.date = t.date
			  )`, table)
		if err := tx.QueryRow(ctx, convertibleQ, store, start, end).Scan(&ts.Convertible); err != nil {
			return nil, apperrors.NewAppError(500, "failed to count convertible rows in "+table, err)
		}

		// Each derived column is rewritten only when its _original value is
		// present; a NULL original leaves the derived column untouched.
		updateQ := fmt.Sprintf(`
			UPDATE %s t SET
				spend = CASE WHEN t.spend_original IS NULL
					THEN t.spend ELSE t.spend_original * er.rate END,
				conversion_value = CASE WHEN t.conversion_value_original IS NULL
					THEN t.conversion_value ELSE t.conversion_value_original * er.rate END,
				cost_per_link_click = CASE WHEN t.cost_per_link_click_original IS NULL
					THEN t.cost_per_link_click ELSE t.cost_per_link_click_original * er.rate END
			FROM exchange_rates er
			WHERE er.from_currency = 'TRY' AND er.to_currency = 'USD' AND er.date = t.date
			  AND t.store = $1 AND t.date BETWEEN $2 AND $3
			  AND COALESCE(t.original_currency, 'TRY') = 'TRY'`, table)
		ct, err := tx.Exec(ctx, updateQ, store, start, end)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to apply rates to "+table, err)
		}
		ts.Updated = ct.RowsAffected()

		stats = append(stats, ts)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return stats, nil
}
