// Package postgres implements privmedia.UserRepo using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/privmedia"
)

type Repo struct {
	pool       *pgxpool.Pool
	quotedName string
}

func NewRepo(pool *pgxpool.Pool, tables privmedia.Tables) (*Repo, error) {
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new repo: %w", err)
	}

	return &Repo{pool: pool, quotedName: pgx.Identifier{tables.Users}.Sanitize()}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Get(ctx context.Context, id string) (privmedia.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, active, staff, superuser, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.quotedName)

	var u privmedia.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Active, &u.Staff, &u.Superuser, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, active, staff, superuser)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			active = EXCLUDED.active,
			staff = EXCLUDED.staff,
			superuser = EXCLUDED.superuser,
			updated_at = NOW()
		RETURNING id, name, active, staff, superuser, created_at, updated_at,
			(xmax = 0) AS inserted
	`, r.quotedName)

	var out privmedia.User
	var inserted bool

	err := r.pool.QueryRow(ctx, query, u.ID, u.Name, u.Active, u.Staff, u.Superuser).Scan(
		&out.ID, &out.Name, &out.Active, &out.Staff, &out.Superuser, &out.CreatedAt, &out.UpdatedAt, &inserted,
	)
	if err != nil {
		return privmedia.User{}, false, fmt.Errorf("upsert: %w", err)
	}

	return out, inserted, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.quotedName)

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", privmedia.ErrNotFound)
	}

	return nil
}

func (r *Repo) List(ctx context.Context) ([]privmedia.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, active, staff, superuser, created_at, updated_at
		FROM %s
		ORDER BY id
	`, r.quotedName)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	users := []privmedia.User{}
	for rows.Next() {
		var u privmedia.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Active, &u.Staff, &u.Superuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list: scan: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: rows: %w", err)
	}

	return users, nil
}
