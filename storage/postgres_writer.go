package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

// PostgresWriter exports the run's cleaned listings and derived tables to
// PostgreSQL. Rows are stamped with the run id; nothing is read back by the
// pipeline except through FetchRankings.
type PostgresWriter struct {
	db    *sql.DB
	runID uuid.UUID
}

// NewPostgresWriter opens a connection, pings it through retry, runs schema
// migrations and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, runID uuid.UUID, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db, runID: runID}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS listings_clean (
			run_id                  UUID         NOT NULL,
			id                      BIGINT       NOT NULL,
			name                    TEXT         NOT NULL,
			host_id                 BIGINT       NOT NULL,
			host_name               TEXT         NOT NULL,
			neighbourhood_group     TEXT         NOT NULL,
			neighbourhood           TEXT         NOT NULL,
			room_type               TEXT         NOT NULL,
			price                   INTEGER      NOT NULL,
			minimum_nights          INTEGER      NOT NULL,
			number_of_reviews       INTEGER      NOT NULL,
			last_review             DATE,
			availability_365        INTEGER      NOT NULL,
			price_category          TEXT         NOT NULL,
			length_of_stay_category TEXT         NOT NULL,
			availability_status     TEXT         NOT NULL,
			PRIMARY KEY (run_id, id)
		);

		CREATE TABLE IF NOT EXISTS neighbourhood_rankings (
			run_id              UUID          NOT NULL,
			neighbourhood_group TEXT          NOT NULL,
			total_listings      INTEGER       NOT NULL,
			average_price       DOUBLE PRECISION NOT NULL,
			ranking             DOUBLE PRECISION NOT NULL,
			rank                INTEGER       NOT NULL,
			created_at          TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			PRIMARY KEY (run_id, neighbourhood_group)
		);

		CREATE TABLE IF NOT EXISTS monthly_trends (
			run_id            UUID             NOT NULL,
			month_end         DATE             NOT NULL,
			number_of_reviews INTEGER          NOT NULL,
			average_price     DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (run_id, month_end)
		);

		CREATE INDEX IF NOT EXISTS idx_listings_clean_group ON listings_clean(neighbourhood_group);
	`)
	return err
}

// WriteListings batch-inserts the cleaned working set.
func (pw *PostgresWriter) WriteListings(ctx context.Context, listings []*models.Listing) error {
	const cols = 16
	const batchSize = 500
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		args := make([]interface{}, 0, (end-i)*cols)
		for _, l := range listings[i:end] {
			var lastReview interface{}
			if l.LastReview.Valid {
				lastReview = l.LastReview.Time
			}
			args = append(args,
				pw.runID, l.ID, l.Name.String, l.HostID, l.HostName.String,
				l.NeighbourhoodGroup, l.Neighbourhood, l.RoomType,
				l.Price, l.MinimumNights, l.NumberOfReviews, lastReview, l.Availability365,
				l.PriceCategory, l.LengthOfStayCategory, l.AvailabilityStatus)
		}
		query := fmt.Sprintf(`
			INSERT INTO listings_clean (run_id, id, name, host_id, host_name, neighbourhood_group,
				neighbourhood, room_type, price, minimum_nights, number_of_reviews, last_review,
				availability_365, price_category, length_of_stay_category, availability_status)
			VALUES %s
			ON CONFLICT (run_id, id) DO NOTHING
		`, valuesClause(end-i, cols))
		if _, err := pw.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert listings: %w", err)
		}
	}
	return nil
}

// WriteRankings inserts the per group aggregate inside one transaction.
func (pw *PostgresWriter) WriteRankings(ctx context.Context, rankings []models.GroupRanking) error {
	if len(rankings) == 0 {
		return nil
	}
	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO neighbourhood_rankings (run_id, neighbourhood_group, total_listings, average_price, ranking, rank)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("postgres: prepare rankings: %w", err)
	}
	defer stmt.Close()

	for _, r := range rankings {
		if _, err := stmt.ExecContext(ctx, pw.runID, r.NeighbourhoodGroup, r.TotalListings, r.AveragePrice, r.Ranking, r.Rank); err != nil {
			return fmt.Errorf("postgres: insert ranking %s: %w", r.NeighbourhoodGroup, err)
		}
	}
	return tx.Commit()
}

// WriteMonthly inserts the month-end resample.
func (pw *PostgresWriter) WriteMonthly(ctx context.Context, trends []models.MonthlyTrend) error {
	if len(trends) == 0 {
		return nil
	}
	const cols = 4
	args := make([]interface{}, 0, len(trends)*cols)
	for _, t := range trends {
		args = append(args, pw.runID, t.MonthEnd, t.NumberOfReviews, t.AveragePrice)
	}
	query := fmt.Sprintf(`
		INSERT INTO monthly_trends (run_id, month_end, number_of_reviews, average_price)
		VALUES %s
	`, valuesClause(len(trends), cols))
	if _, err := pw.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: insert monthly trends: %w", err)
	}
	return nil
}

// FetchRankings retrieves the rankings stored for this run.
func (pw *PostgresWriter) FetchRankings(ctx context.Context) ([]models.GroupRanking, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT neighbourhood_group, total_listings, average_price, ranking, rank
		FROM neighbourhood_rankings
		WHERE run_id = $1
		ORDER BY rank, neighbourhood_group
	`, pw.runID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch rankings: %w", err)
	}
	defer rows.Close()

	var out []models.GroupRanking
	for rows.Next() {
		var r models.GroupRanking
		if err := rows.Scan(&r.NeighbourhoodGroup, &r.TotalListings, &r.AveragePrice, &r.Ranking, &r.Rank); err != nil {
			return nil, fmt.Errorf("postgres: scan ranking: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// valuesClause renders "($1,$2),($3,$4)" for rows x cols placeholders.
func valuesClause(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
