package pgsql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shawqlabs/fxn_backend/internal/apperrors"
	"github.com/shawqlabs/fxn_backend/internal/core/domain"
	"github.com/shawqlabs/fxn_backend/internal/models"
	"github.com/shawqlabs/fxn_backend/internal/utils/dateutil"
	"github.com/shawqlabs/fxn_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// PgxRateRepository implements the ports.RateRepositoryFacade interface using pgxpool.
type PgxRateRepository struct {
	BaseRepository
}

func newPgxRateRepository(db *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{BaseRepository: BaseRepository{Pool: db}}
}

const rateColumns = `from_currency, to_currency, rate, date, source, created_at`

// GetRate retrieves the rate for a pair and reporting day.
func (r *PgxRateRepository) GetRate(ctx context.Context, pair domain.CurrencyPair, date time.Time) (*domain.RateRecord, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND date = $3;
	`

	var m models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, normalizeCode(pair.From), normalizeCode(pair.To), date).Scan(
		&m.FromCurrency, &m.ToCurrency, &m.Rate, &m.Date, &m.Source, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate not found for " + dateutil.Format(date))
		}
		return nil, apperrors.NewAppError(500, "failed to get exchange rate", err)
	}

	rec := mapping.ToDomainExchangeRate(m)
	return &rec, nil
}

// UpsertRate inserts or replaces the record for its pair and day. The unique
// key (from_currency, to_currency, date) makes concurrent resolvers safe:
// the last writer wins.
func (r *PgxRateRepository) UpsertRate(ctx context.Context, rec domain.RateRecord) error {
	if rec.Rate.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewValidationError("exchange rate must be positive")
	}
	if normalizeCode(rec.FromCurrency) == normalizeCode(rec.ToCurrency) {
		return apperrors.NewValidationError("from and to currencies cannot be the same")
	}

	m := mapping.ToModelExchangeRate(rec)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	_, err := r.Pool.Exec(ctx, `
		INSERT INTO exchange_rates (from_currency, to_currency, rate, date, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (from_currency, to_currency, date)
		DO UPDATE SET rate = EXCLUDED.rate, source = EXCLUDED.source, created_at = EXCLUDED.created_at`,
		normalizeCode(m.FromCurrency), normalizeCode(m.ToCurrency), m.Rate, m.Date, m.Source, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rate", err)
	}
	return nil
}

// ListRecent retrieves up to limit records for a pair, newest day first.
func (r *PgxRateRepository) ListRecent(ctx context.Context, pair domain.CurrencyPair, limit int) ([]domain.RateRecord, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
		ORDER BY date DESC
		LIMIT $3;
	`
	return r.queryRates(ctx, query, normalizeCode(pair.From), normalizeCode(pair.To), limit)
}

// ListWindow retrieves all records for a pair within [start, end].
func (r *PgxRateRepository) ListWindow(ctx context.Context, pair domain.CurrencyPair, start, end time.Time) ([]domain.RateRecord, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND date BETWEEN $3 AND $4
		ORDER BY date;
	`
	return r.queryRates(ctx, query, normalizeCode(pair.From), normalizeCode(pair.To), start, end)
}

// ExistingDates returns the set of days within [start, end] that have a
// stored rate, keyed by YYYY-MM-DD.
func (r *PgxRateRepository) ExistingDates(ctx context.Context, pair domain.CurrencyPair, start, end time.Time) (map[string]struct{}, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT date FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND date BETWEEN $3 AND $4`,
		normalizeCode(pair.From), normalizeCode(pair.To), start, end,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rate dates", err)
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate date", err)
		}
		dates[dateutil.Format(d)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rate dates", err)
	}
	return dates, nil
}

func (r *PgxRateRepository) queryRates(ctx context.Context, query string, args ...any) ([]domain.RateRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rates", err)
	}
	defer rows.Close()

	var recs []domain.RateRecord
	for rows.Next() {
		var m models.ExchangeRate
		if err := rows.Scan(&m.FromCurrency, &m.ToCurrency, &m.Rate, &m.Date, &m.Source, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate", err)
		}
		recs = append(recs, mapping.ToDomainExchangeRate(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rates", err)
	}
	return recs, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
