package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"docdesk/internal/model"
)

func scanUser(r rowScanner) (model.User, error) {
	var (
		u       model.User
		created int64
	)
	if err := r.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &created); err != nil {
		return model.User{}, err
	}
	u.CreatedAt = fromUnixMS(created)
	return u, nil
}

// ListUsers returns every user ordered by name.
func (s Store) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT id, name, email, role, status, created_at_unixms FROM users ORDER BY name COLLATE NOCASE, id;`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	return out, err
}

// GetUser looks a user up by id or email.
func (s Store) GetUser(ctx context.Context, idOrEmail string) (model.User, error) {
	key := strings.TrimSpace(idOrEmail)
	var out model.User
	err := s.withDB(ctx, func(db *sql.DB) error {
		u, err := scanUser(db.QueryRowContext(ctx,
			`SELECT id, name, email, role, status, created_at_unixms FROM users WHERE id = ? OR email = ? COLLATE NOCASE;`, key, key))
		if errors.Is(err, sql.ErrNoRows) {
			return NotFoundError{Kind: "user", ID: key}
		}
		out = u
		return err
	})
	return out, err
}

// PutUser inserts or replaces u.
func (s Store) PutUser(ctx context.Context, u model.User) error {
	u.ID = strings.TrimSpace(u.ID)
	u.Email = strings.TrimSpace(u.Email)
	if u.ID == "" {
		return errors.New("user: empty id")
	}
	if u.Email == "" {
		return errors.New("user: empty email")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO users(id, name, email, role, status, created_at_unixms)
			VALUES(?, ?, ?, ?, ?, ?);`,
			u.ID, strings.TrimSpace(u.Name), u.Email, u.Role, u.Status, unixMS(u.CreatedAt))
		return err
	})
}
