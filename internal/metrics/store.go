package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RequestMetric records metadata for a single handled API request.
type RequestMetric struct {
	UserID     string
	Method     string
	Path       string
	Status     int
	DurationMS int64
	Timestamp  time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m RequestMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_metrics (user_id, method, path, status, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.UserID, m.Method, m.Path, m.Status, m.DurationMS, ts.UnixMilli())
	if err != nil {
		return fmt.Errorf("recording request metric: %w", err)
	}
	return nil
}

// DailyUsage represents request totals for a single day.
type DailyUsage struct {
	Date          string
	TotalRequests int
	TotalErrors   int
	AvgDurationMS float64
}

// GetDailyUsage retrieves usage for the last N days.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().AddDate(0, 0, -days).UnixMilli()
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(created_at / 1000, 'unixepoch') AS day,
		       COUNT(*),
		       SUM(CASE WHEN status >= 500 THEN 1 ELSE 0 END),
		       AVG(duration_ms)
		FROM request_metrics
		WHERE created_at >= ?
		GROUP BY day
		ORDER BY day`, since)
	if err != nil {
		return nil, fmt.Errorf("querying daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var u DailyUsage
		var day sql.NullString
		var avg sql.NullFloat64
		if err := rows.Scan(&day, &u.TotalRequests, &u.TotalErrors, &avg); err != nil {
			return nil, fmt.Errorf("scanning daily usage: %w", err)
		}
		if day.Valid {
			u.Date = day.String
		} else {
			u.Date = "Unknown"
		}
		if avg.Valid {
			u.AvgDurationMS = avg.Float64
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many rows were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UnixMilli()
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM request_metrics WHERE created_at < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("cleaning up metrics: %w", err)
	}
	return res.RowsAffected()
}
