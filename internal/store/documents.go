package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"docdesk/internal/filter"
	"docdesk/internal/model"
)

const documentColumns = `id, title, summary, status, office, classification, type, date,
	released_at_unixms, created_at_unixms, updated_at_unixms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(r rowScanner) (model.Document, error) {
	var (
		d        model.Document
		date     string
		released sql.NullInt64
		created  int64
		updated  int64
	)
	if err := r.Scan(&d.ID, &d.Title, &d.Summary, &d.Status, &d.Office, &d.Classification, &d.Type,
		&date, &released, &created, &updated); err != nil {
		return model.Document{}, err
	}
	if date != "" {
		t, err := time.Parse(filter.DateLayout, date)
		if err != nil {
			return model.Document{}, fmt.Errorf("document %s: bad date %q: %w", d.ID, date, err)
		}
		d.Date = t
	}
	if released.Valid {
		t := fromUnixMS(released.Int64)
		d.ReleasedAt = &t
	}
	d.CreatedAt = fromUnixMS(created)
	d.UpdatedAt = fromUnixMS(updated)
	return d, nil
}

// ListDocuments returns every document, newest date first.
func (s Store) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var out []model.Document
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY date DESC, id ASC;`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			d, err := scanDocument(rows)
			if err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	return out, err
}

func (s Store) GetDocument(ctx context.Context, id string) (model.Document, error) {
	id = strings.TrimSpace(id)
	var out model.Document
	err := s.withDB(ctx, func(db *sql.DB) error {
		d, err := getDocument(ctx, db, id)
		out = d
		return err
	})
	return out, err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getDocument(ctx context.Context, q queryer, id string) (model.Document, error) {
	d, err := scanDocument(q.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, NotFoundError{Kind: "document", ID: id}
	}
	return d, err
}

// PutDocument inserts or replaces d. Zero timestamps are filled with now.
func (s Store) PutDocument(ctx context.Context, d model.Document) error {
	d.ID = strings.TrimSpace(d.ID)
	if d.ID == "" {
		return errors.New("document: empty id")
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}
	date := ""
	if !d.Date.IsZero() {
		date = filter.Day(d.Date).Format(filter.DateLayout)
	}
	var released any
	if d.ReleasedAt != nil {
		released = unixMS(*d.ReleasedAt)
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO documents(`+documentColumns+`)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			d.ID, d.Title, d.Summary, d.Status, d.Office, d.Classification, d.Type, date,
			released, unixMS(d.CreatedAt), unixMS(d.UpdatedAt))
		return err
	})
}

// SetDocumentStatus sets the status and reports whether it changed.
func (s Store) SetDocumentStatus(ctx context.Context, id, status string, now time.Time) (bool, error) {
	changed := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		d, err := getDocument(ctx, tx, id)
		if err != nil {
			return err
		}
		if d.Status == status {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE documents SET status = ?, updated_at_unixms = ? WHERE id = ?;`,
			status, unixMS(now), id); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// ReleaseDocument stamps released_at and moves the document to releasedStatus. Releasing
// an already released document changes nothing.
func (s Store) ReleaseDocument(ctx context.Context, id, releasedStatus string, now time.Time) (bool, error) {
	changed := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		d, err := getDocument(ctx, tx, id)
		if err != nil {
			return err
		}
		if d.ReleasedAt != nil && d.Status == releasedStatus {
			return nil
		}
		released := unixMS(now)
		if d.ReleasedAt != nil {
			released = unixMS(*d.ReleasedAt)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE documents SET status = ?, released_at_unixms = ?, updated_at_unixms = ? WHERE id = ?;`,
			releasedStatus, released, unixMS(now), id); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (s Store) RetitleDocument(ctx context.Context, id, title string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("document: empty title")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getDocument(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE documents SET title = ?, updated_at_unixms = ? WHERE id = ?;`,
			title, unixMS(now), id)
		return err
	})
}

func (s Store) DeleteDocument(ctx context.Context, id string) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?;`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return NotFoundError{Kind: "document", ID: id}
		}
		return nil
	})
}
