package pgsql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/utils/mapping"
)

// PgxUsageRepository implements the ports.UsageRepositoryFacade interface using pgxpool.
type PgxUsageRepository struct {
	BaseRepository
}

func newPgxUsageRepository(db *pgxpool.Pool) *PgxUsageRepository {
	return &PgxUsageRepository{BaseRepository: BaseRepository{Pool: db}}
}

// InsertUsage appends one usage event. Rows are never updated afterwards.
func (r *PgxUsageRepository) InsertUsage(ctx context.Context, ev domain.UsageEvent) error {
	if ev.UsageID == "" {
		ev.UsageID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	m := mapping.ToModelAPIUsage(ev)

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rate_api_usage (
			usage_id, provider, kind, date, start_date, end_date,
			status, http_status, error_code, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.UsageID, m.Provider, m.Kind, m.Date, m.StartDate, m.EndDate,
		m.Status, m.HTTPStatus, m.ErrorCode, m.ErrorMessage, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert usage event", err)
	}
	return nil
}

// CountByProvider returns per-provider event counts for created_at in [from, to).
func (r *PgxUsageRepository) CountByProvider(ctx context.Context, from, to time.Time) (map[domain.ProviderName]int64, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT provider, COUNT(*)
		FROM exchange_rate_api_usage
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY provider`,
		from, to,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count usage events", err)
	}
	defer rows.Close()

	counts := make(map[domain.ProviderName]int64)
	for rows.Next() {
		var provider string
		var n int64
		if err := rows.Scan(&provider, &n); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan usage count", err)
		}
		counts[domain.ProviderName(provider)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating usage counts", err)
	}
	return counts, nil
}
