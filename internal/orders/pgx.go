package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
)

// PgxUnitOfWork: UnitOfWork di atas pgxpool. Satu request = satu tx =
// satu koneksi, tidak ada session global.
type PgxUnitOfWork struct{ DB *pgxpool.Pool }

func (u *PgxUnitOfWork) Begin(ctx context.Context) (Tx, error) {
	tx, err := u.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &pgxTx{tx: tx}, nil
}

type pgxTx struct{ tx pgx.Tx }

func (t *pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// pgtx unwrap Tx ke pgx.Tx; store pgx hanya dipakai bersama PgxUnitOfWork.
func pgtx(tx Tx) pgx.Tx { return tx.(*pgxTx).tx }

type PgxOrderStore struct{}

func (PgxOrderStore) Exists(ctx context.Context, tx Tx, id int64) (bool, error) {
	var ok bool
	err := pgtx(tx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	return ok, nil
}

type PgxProductStore struct{}

func (PgxProductStore) LockForUpdate(ctx context.Context, tx Tx, id int64) (*catalog.Product, error) {
	var p catalog.Product
	err := pgtx(tx).QueryRow(ctx, `
		SELECT id, name, price, stock, category_id, created_at, updated_at
		FROM products WHERE id=$1 FOR UPDATE`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "product", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("lock product %d: %w", id, err)
	}
	return &p, nil
}

func (PgxProductStore) SetStock(ctx context.Context, tx Tx, id int64, stock int) error {
	ct, err := pgtx(tx).Exec(ctx,
		`UPDATE products SET stock=$2, updated_at=now() WHERE id=$1`, id, stock)
	if err != nil {
		return fmt.Errorf("set stock product %d: %w", id, err)
	}
	if ct.RowsAffected() != 1 {
		return &NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

type PgxDetailStore struct{}

func (PgxDetailStore) Get(ctx context.Context, tx Tx, id int64) (*OrderDetail, error) {
	var d OrderDetail
	err := pgtx(tx).QueryRow(ctx, `
		SELECT id, order_id, product_id, quantity, price
		FROM order_details WHERE id=$1`, id).
		Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Quantity, &d.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "order detail", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get order detail %d: %w", id, err)
	}
	return &d, nil
}

func (PgxDetailStore) Insert(ctx context.Context, tx Tx, d *OrderDetail) (int64, error) {
	var id int64
	err := pgtx(tx).QueryRow(ctx, `
		INSERT INTO order_details(order_id, product_id, quantity, price)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		d.OrderID, d.ProductID, d.Quantity, d.Price).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order detail: %w", err)
	}
	return id, nil
}

func (PgxDetailStore) Update(ctx context.Context, tx Tx, d *OrderDetail) error {
	ct, err := pgtx(tx).Exec(ctx, `
		UPDATE order_details SET order_id=$2, product_id=$3, quantity=$4, price=$5
		WHERE id=$1`,
		d.ID, d.OrderID, d.ProductID, d.Quantity, d.Price)
	if err != nil {
		return fmt.Errorf("update order detail %d: %w", d.ID, err)
	}
	if ct.RowsAffected() != 1 {
		return &NotFoundError{Entity: "order detail", ID: d.ID}
	}
	return nil
}

func (PgxDetailStore) Delete(ctx context.Context, tx Tx, id int64) error {
	ct, err := pgtx(tx).Exec(ctx, `DELETE FROM order_details WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete order detail %d: %w", id, err)
	}
	if ct.RowsAffected() != 1 {
		return &NotFoundError{Entity: "order detail", ID: id}
	}
	return nil
}

// NewPgxManager rakit ReservationManager dengan backing Postgres.
func NewPgxManager(db *pgxpool.Pool) *ReservationManager {
	return &ReservationManager{
		UoW:      &PgxUnitOfWork{DB: db},
		Orders:   PgxOrderStore{},
		Products: PgxProductStore{},
		Details:  PgxDetailStore{},
	}
}
