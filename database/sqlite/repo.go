// Package sqlite implements privmedia.UserRepo using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sagarc03/privmedia"
)

type Repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, tables privmedia.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{db: db, tableName: tables.Users}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Get(ctx context.Context, id string) (privmedia.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, name, active, staff, superuser, created_at, updated_at
		FROM %s
		WHERE id = ?`, quoteIdentifier(r.tableName))

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return privmedia.User{}, fmt.Errorf("get user %q: %w", id, privmedia.ErrNotFound)
		}
		return privmedia.User{}, fmt.Errorf("get: %w", err)
	}

	return u, nil
}

func (r *Repo) Upsert(ctx context.Context, u privmedia.User) (privmedia.User, bool, error) {
	if u.ID == "" {
		return privmedia.User{}, false, fmt.Errorf("upsert: %w: user id is required", privmedia.ErrInvalidInput)
	}

	// Check if the user exists first to determine if this is an insert or update
	var createdAt string
	checkQuery := fmt.Sprintf(`SELECT created_at FROM %s WHERE id = ?`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated
	err := r.db.QueryRowContext(ctx, checkQuery, u.ID).Scan(&createdAt)
	isInsert := errors.Is(err, sql.ErrNoRows)
	if err != nil && !isInsert {
		return privmedia.User{}, false, fmt.Errorf("upsert: check existing: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if isInsert {
		insertQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`INSERT INTO %s (id, name, active, staff, superuser, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, quoteIdentifier(r.tableName))

		_, err = r.db.ExecContext(ctx, insertQuery,
			u.ID, u.Name, u.Active, u.Staff, u.Superuser, now, now,
		)
		if err != nil {
			return privmedia.User{}, false, fmt.Errorf("upsert: insert: %w", err)
		}

		createdAt = now
	} else {
		updateQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`UPDATE %s
			SET name = ?, active = ?, staff = ?, superuser = ?, updated_at = ?
			WHERE id = ?`, quoteIdentifier(r.tableName))

		_, err = r.db.ExecContext(ctx, updateQuery,
			u.Name, u.Active, u.Staff, u.Superuser, now, u.ID,
		)
		if err != nil {
			return privmedia.User{}, false, fmt.Errorf("upsert: update: %w", err)
		}
	}

	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return privmedia.User{}, false, fmt.Errorf("upsert: parse created_at: %w", err)
	}
	u.UpdatedAt, _ = time.Parse(time.RFC3339Nano, now)

	return u, isInsert, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteIdentifier(r.tableName)) //nolint:gosec // table name is validated

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", privmedia.ErrNotFound)
	}

	return nil
}

func (r *Repo) List(ctx context.Context) ([]privmedia.User, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT id, name, active, staff, superuser, created_at, updated_at
		FROM %s
		ORDER BY id`, quoteIdentifier(r.tableName))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []privmedia.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return users, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (privmedia.User, error) {
	var u privmedia.User
	var createdAt, updatedAt string

	if err := s.Scan(&u.ID, &u.Name, &u.Active, &u.Staff, &u.Superuser, &createdAt, &updatedAt); err != nil {
		return privmedia.User{}, err
	}

	var err error
	u.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return privmedia.User{}, fmt.Errorf("parse created_at: %w", err)
	}

	u.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return privmedia.User{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return u, nil
}
