package analytics

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder implements Recorder over modernc.org/sqlite.
type SQLiteRecorder struct {
	db *sql.DB

	now func() time.Time // test hook
}

// NewSQLite opens (or creates) the analytics database at the given path
// and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "analytics: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "analytics: exec %s", pragma)
		}
	}
	return &SQLiteRecorder{db: db, now: time.Now}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS daily_analytics (
	license_id INTEGER NOT NULL,
	day        TEXT    NOT NULL,
	field      TEXT    NOT NULL,
	value      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (license_id, day, field)
);

CREATE INDEX IF NOT EXISTS idx_daily_analytics_day ON daily_analytics(day);
`

// Migrate creates the analytics schema.
func (r *SQLiteRecorder) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "analytics: migrate")
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// Record increments today's counter for the license and field.
func (r *SQLiteRecorder) Record(ctx context.Context, licenseID int64, field string, delta int64) error {
	day := r.now().UTC().Format("2006-01-02")
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_analytics (license_id, day, field, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT (license_id, day, field) DO UPDATE SET value = value + excluded.value`,
		licenseID, day, field, delta,
	)
	return eris.Wrapf(err, "analytics: record %s", field)
}

// Snapshot returns today's counters for a license.
func (r *SQLiteRecorder) Snapshot(ctx context.Context, licenseID int64) (map[string]int64, error) {
	day := r.now().UTC().Format("2006-01-02")
	rows, err := r.db.QueryContext(ctx,
		`SELECT field, value FROM daily_analytics WHERE license_id = ? AND day = ?`,
		licenseID, day,
	)
	if err != nil {
		return nil, eris.Wrap(err, "analytics: snapshot")
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var field string
		var value int64
		if err := rows.Scan(&field, &value); err != nil {
			return nil, eris.Wrap(err, "analytics: scan row")
		}
		out[field] = value
	}
	return out, eris.Wrap(rows.Err(), "analytics: iterate rows")
}
