package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"docdesk/internal/report"

	"github.com/google/uuid"
)

const ReportQueued = "queued"

// ReportQueue records report requests for a generator to pick up. It is the
// report.Submitter the CLI, TUI and web server share.
type ReportQueue struct {
	Store Store
	// Now defaults to time.Now.
	Now func() time.Time
}

func (q ReportQueue) Submit(ctx context.Context, req report.Request) (report.Record, error) {
	now := time.Now
	if q.Now != nil {
		now = q.Now
	}
	rec := report.Record{
		ID:          uuid.NewString(),
		SubmittedAt: now().UTC(),
		State:       ReportQueued,
		Request:     req,
	}
	payload, err := req.JSON()
	if err != nil {
		return report.Record{}, err
	}
	err = q.Store.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `INSERT INTO report_requests(id, submitted_at_unixms, output_format, payload_json, state)
			VALUES(?, ?, ?, ?, ?);`,
			rec.ID, unixMS(rec.SubmittedAt), string(req.OutputFormat), string(payload), rec.State)
		return err
	})
	if err != nil {
		return report.Record{}, err
	}
	return rec, nil
}

// ListReports returns the most recent requests first. limit <= 0 returns all.
func (s Store) ListReports(ctx context.Context, limit int) ([]report.Record, error) {
	var out []report.Record
	err := s.withDB(ctx, func(db *sql.DB) error {
		q := `SELECT id, submitted_at_unixms, payload_json, state FROM report_requests ORDER BY submitted_at_unixms DESC, id`
		args := []any{}
		if limit > 0 {
			q += ` LIMIT ?`
			args = append(args, limit)
		}
		rows, err := db.QueryContext(ctx, q+";", args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				rec     report.Record
				ms      int64
				payload string
			)
			if err := rows.Scan(&rec.ID, &ms, &payload, &rec.State); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(payload), &rec.Request); err != nil {
				return fmt.Errorf("report %s: %w", rec.ID, err)
			}
			rec.SubmittedAt = fromUnixMS(ms)
			out = append(out, rec)
		}
		return rows.Err()
	})
	return out, err
}
