package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo: CRUD order di luar jalur reservasi. Reservasi stok line item
// lewat ReservationManager, bukan di sini.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) List(ctx context.Context, skip, limit int, clientID *int64) ([]Order, error) {
	q := `SELECT id, date, total, delivery_method, status, client_id, created_at, updated_at
	      FROM orders`
	args := []any{skip, limit}
	if clientID != nil {
		q += ` WHERE client_id=$3`
		args = append(args, *clientID)
	}
	q += ` ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Date, &o.Total, &o.DeliveryMethod, &o.Status,
			&o.ClientID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, date, total, delivery_method, status, client_id, created_at, updated_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Date, &o.Total, &o.DeliveryMethod, &o.Status,
			&o.ClientID, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "order", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) Create(ctx context.Context, in OrderInput) (*Order, error) {
	date := time.Now().UTC()
	if in.Date != nil {
		date = *in.Date
	}
	var o Order
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(date, total, delivery_method, status, client_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, date, total, delivery_method, status, client_id, created_at, updated_at`,
		date, in.Total, in.DeliveryMethod, StatusPending, in.ClientID).
		Scan(&o.ID, &o.Date, &o.Total, &o.DeliveryMethod, &o.Status,
			&o.ClientID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &o, nil
}

// UpdateStatus validasi transisi status sebelum menulis.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, to Status) (*Order, error) {
	cur, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(cur.Status, to) {
		return nil, fmt.Errorf("invalid status transition %s -> %s", cur.Status, to)
	}

	var o Order
	err = r.DB.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE id=$1
		RETURNING id, date, total, delivery_method, status, client_id, created_at, updated_at`,
		id, to).
		Scan(&o.ID, &o.Date, &o.Total, &o.DeliveryMethod, &o.Status,
			&o.ClientID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return &NotFoundError{Entity: "order", ID: id}
	}
	return nil
}

// DetailRepo: read model order detail (list/get tanpa lock).
type DetailRepo struct{ DB *pgxpool.Pool }

func (r *DetailRepo) List(ctx context.Context, skip, limit int) ([]OrderDetail, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_details ORDER BY id OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderDetail
	for rows.Next() {
		var d OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.Price); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DetailRepo) Get(ctx context.Context, id int64) (*OrderDetail, error) {
	var d OrderDetail
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_details WHERE id=$1`, id).
		Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "order detail", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
