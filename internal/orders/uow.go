package orders

import (
	"context"

	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
)

// Tx: batas unit-of-work. Semua baca/tulis di dalamnya commit atau
// rollback bersama-sama. Row lock dilepas saat Commit/Rollback.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Tx, error)
}

// OrderStore: cek eksistensi order. Tanpa row lock (precheck murah
// sebelum lock product diambil).
type OrderStore interface {
	Exists(ctx context.Context, tx Tx, id int64) (bool, error)
}

// ProductStore: akses product di dalam transaksi aktif.
type ProductStore interface {
	// LockForUpdate ambil baris product dengan lock eksklusif (SELECT ...
	// FOR UPDATE). Blocking kalau transaksi lain pegang lock yang sama.
	// Return *NotFoundError kalau barisnya tidak ada.
	LockForUpdate(ctx context.Context, tx Tx, id int64) (*catalog.Product, error)

	// SetStock tulis nilai stok baru; baris harus sudah di-lock
	// oleh transaksi yang sama.
	SetStock(ctx context.Context, tx Tx, id int64, stock int) error
}

type DetailStore interface {
	Get(ctx context.Context, tx Tx, id int64) (*OrderDetail, error)
	Insert(ctx context.Context, tx Tx, d *OrderDetail) (int64, error)
	Update(ctx context.Context, tx Tx, d *OrderDetail) error
	Delete(ctx context.Context, tx Tx, id int64) error
}
