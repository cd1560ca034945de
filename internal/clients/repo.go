package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrClientNotFound = errors.New("client not found")

type Client struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) List(ctx context.Context, skip, limit int) ([]Client, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM clients ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Client, error) {
	var c Client
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, email, created_at, updated_at FROM clients WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Create(ctx context.Context, in Input) (*Client, error) {
	var c Client
	err := r.DB.QueryRow(ctx, `
		INSERT INTO clients(name, email) VALUES ($1,$2)
		RETURNING id, name, email, created_at, updated_at`, in.Name, in.Email).
		Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return &c, nil
}

func (r *Repo) Update(ctx context.Context, id int64, in Input) (*Client, error) {
	var c Client
	err := r.DB.QueryRow(ctx, `
		UPDATE clients SET name=$2, email=$3, updated_at=now() WHERE id=$1
		RETURNING id, name, email, created_at, updated_at`, id, in.Name, in.Email).
		Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}
