package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo struct{ DB *pgxpool.Pool }

func (r *ProductRepo) List(ctx context.Context, skip, limit int) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price, stock, category_id, created_at, updated_at
		FROM products ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, price, stock, category_id, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, in ProductInput) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(name, price, stock, category_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, name, price, stock, category_id, created_at, updated_at`,
		in.Name, in.Price, in.Stock, in.CategoryID).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &p, nil
}

// Update sengaja tidak menyentuh stock: mutasi stok hanya lewat reservasi.
func (r *ProductRepo) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		UPDATE products SET name=$2, price=$3, category_id=$4, updated_at=now()
		WHERE id=$1
		RETURNING id, name, price, stock, category_id, created_at, updated_at`,
		id, in.Name, in.Price, in.CategoryID).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return &p, nil
}

// Delete menolak product yang sudah punya riwayat penjualan.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	var hasSales bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM order_details WHERE product_id=$1)`, id).Scan(&hasSales)
	if err != nil {
		return err
	}
	if hasSales {
		return ErrProductHasSales
	}

	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

type CategoryRepo struct{ DB *pgxpool.Pool }

func (r *CategoryRepo) List(ctx context.Context, skip, limit int) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (*Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (*Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx, `
		INSERT INTO categories(name) VALUES ($1)
		RETURNING id, name, created_at, updated_at`, name).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return nil, ErrCategoryTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, id int64, name string) (*Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx, `
		UPDATE categories SET name=$2, updated_at=now() WHERE id=$1
		RETURNING id, name, created_at, updated_at`, id, name).
		Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return nil, ErrCategoryTaken
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
