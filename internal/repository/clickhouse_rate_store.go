package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FXPulse/internal/domain/models"
	domrepo "FXPulse/internal/domain/repository"
	pkgch "FXPulse/pkg/clickhouse"
	applogger "FXPulse/pkg/logger"
)

var _ domrepo.RateSource = (*CHRateStore)(nil)

// RatesSchema is the DDL for the daily rates table the store reads from.
func RatesSchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
            date  Date,
            base  LowCardinality(String),
            quote LowCardinality(String),
            rate  Float64
        ) ENGINE = ReplacingMergeTree ORDER BY (base, quote, date)`, database, table),
	}
}

// CHRateStore implements RateSource backed by ClickHouse.
type CHRateStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHRateStore(ch *pkgch.Client, table string, l *applogger.Logger) *CHRateStore {
	return &CHRateStore{db: ch.DB(), table: table, l: l}
}

func ratesQuery(table string) string {
	// FINAL collapses ReplacingMergeTree duplicates so each date appears once.
	const qtpl = `
        SELECT date, rate
        FROM %s FINAL
        WHERE base = ? AND quote = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `
	return fmt.Sprintf(qtpl, table)
}

func (s *CHRateStore) GetSeries(ctx context.Context, pair models.CurrencyPair, from, to time.Time) (models.RateSeries, error) {
	start := time.Now()
	series := models.RateSeries{PairID: pair.ID}

	rows, err := s.db.QueryContext(ctx, ratesQuery(s.table), pair.Base, pair.Quote, from, to)
	if err != nil {
		s.logError("clickhouse get_series query error", pair.ID, err)
		return series, fmt.Errorf("get series: %w", err)
	}
	defer rows.Close()

	points, err := scanPoints(rows)
	if err != nil {
		s.logError("clickhouse get_series scan error", pair.ID, err)
		return series, err
	}
	series.Points = points

	if s.l != nil {
		s.l.Debug("clickhouse get_series ok",
			applogger.String("table", s.table),
			applogger.String("pair", pair.ID),
			applogger.Int("rows", len(points)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

func (s *CHRateStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHRateStore) logError(msg, pairID string, err error) {
	if s.l != nil {
		s.l.Error(msg,
			applogger.String("table", s.table),
			applogger.String("pair", pairID),
			applogger.Error(err),
		)
	}
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPoints(rows rowScanner) ([]models.RatePoint, error) {
	out := make([]models.RatePoint, 0, 400)
	for rows.Next() {
		var p models.RatePoint
		if err := rows.Scan(&p.Date, &p.Rate); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		p.Date = p.Date.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}
