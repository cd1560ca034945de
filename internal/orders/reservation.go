package orders

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
)

// PriceTolerance: selisih maksimum harga dari client vs harga product.
const PriceTolerance = 0.01

// ReservationManager menjaga invariant "total quantity yang di-reserve
// utk sebuah product tidak pernah melebihi stoknya". Semua operasi jalan
// dalam satu transaksi: lock baris product (FOR UPDATE) -> validasi ->
// mutasi stok + line item -> commit. Gagal di tengah = rollback total,
// tidak ada partial state.
type ReservationManager struct {
	UoW      UnitOfWork
	Orders   OrderStore
	Products ProductStore
	Details  DetailStore
}

// Create reservasi stok utk line item baru.
func (m *ReservationManager) Create(ctx context.Context, in CreateDetail) (*OrderDetail, error) {
	if in.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx, err := m.UoW.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := m.Orders.Exists(ctx, tx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Entity: "order", ID: in.OrderID}
	}

	p, err := m.Products.LockForUpdate(ctx, tx, in.ProductID)
	if err != nil {
		return nil, err
	}

	if p.Stock < in.Quantity {
		return nil, &InsufficientStockError{ProductID: p.ID, Requested: in.Quantity, Available: p.Stock}
	}

	// harga dari client hanya diterima kalau cocok dengan harga product
	price := p.Price
	if in.Price != nil {
		price = *in.Price
		if math.Abs(price-p.Price) > PriceTolerance {
			return nil, &PriceMismatchError{Expected: p.Price, Got: price}
		}
	}

	if err := m.Products.SetStock(ctx, tx, p.ID, p.Stock-in.Quantity); err != nil {
		return nil, err
	}

	d := &OrderDetail{OrderID: in.OrderID, ProductID: in.ProductID, Quantity: in.Quantity, Price: price}
	id, err := m.Details.Insert(ctx, tx, d)
	if err != nil {
		return nil, err
	}
	d.ID = id

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Info().Int64("order_id", d.OrderID).Int64("product_id", d.ProductID).
		Int("quantity", d.Quantity).Msg("order detail created, stock reserved")
	return d, nil
}

// Update ubah line item. Kalau quantity berubah, delta-nya divalidasi
// terhadap stok dan diterapkan atomik. Kalau product-nya diganti, stok
// product lama dikembalikan penuh dan quantity baru di-reserve di
// product baru; dua baris di-lock urut id naik supaya bebas deadlock.
func (m *ReservationManager) Update(ctx context.Context, id int64, patch DetailPatch) (*OrderDetail, error) {
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	tx, err := m.UoW.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d, err := m.Details.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if patch.OrderID != nil {
		ok, err := m.Orders.Exists(ctx, tx, *patch.OrderID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &NotFoundError{Entity: "order", ID: *patch.OrderID}
		}
		d.OrderID = *patch.OrderID
	}

	if patch.ProductID != nil || patch.Quantity != nil {
		newPID := d.ProductID
		if patch.ProductID != nil {
			newPID = *patch.ProductID
		}
		newQty := d.Quantity
		if patch.Quantity != nil {
			newQty = *patch.Quantity
		}

		if newPID != d.ProductID {
			oldP, newP, err := m.lockPair(ctx, tx, d.ProductID, newPID)
			if err != nil {
				return nil, err
			}
			if newP.Stock < newQty {
				return nil, &InsufficientStockError{ProductID: newP.ID, Requested: newQty, Available: newP.Stock}
			}
			// kembalikan reservasi lama, ambil reservasi baru
			if err := m.Products.SetStock(ctx, tx, oldP.ID, oldP.Stock+d.Quantity); err != nil {
				return nil, err
			}
			if err := m.Products.SetStock(ctx, tx, newP.ID, newP.Stock-newQty); err != nil {
				return nil, err
			}
			d.Price = newP.Price // snapshot harga product baru
		} else if newQty != d.Quantity {
			p, err := m.Products.LockForUpdate(ctx, tx, d.ProductID)
			if err != nil {
				return nil, err
			}
			delta := newQty - d.Quantity
			if delta > 0 && p.Stock < delta {
				return nil, &InsufficientStockError{ProductID: p.ID, Requested: delta, Available: p.Stock}
			}
			if err := m.Products.SetStock(ctx, tx, p.ID, p.Stock-delta); err != nil {
				return nil, err
			}
		}

		d.ProductID = newPID
		d.Quantity = newQty
	}

	if err := m.Details.Update(ctx, tx, d); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	log.Info().Int64("order_detail_id", d.ID).Int64("product_id", d.ProductID).
		Int("quantity", d.Quantity).Msg("order detail updated")
	return d, nil
}

// Delete hapus line item dan kembalikan stoknya (compensating restoration).
func (m *ReservationManager) Delete(ctx context.Context, id int64) error {
	tx, err := m.UoW.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d, err := m.Details.Get(ctx, tx, id)
	if err != nil {
		return err
	}

	p, err := m.Products.LockForUpdate(ctx, tx, d.ProductID)
	if err != nil {
		return err
	}

	if err := m.Products.SetStock(ctx, tx, p.ID, p.Stock+d.Quantity); err != nil {
		return err
	}
	if err := m.Details.Delete(ctx, tx, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Info().Int64("order_detail_id", id).Int64("product_id", p.ID).
		Int("restored", d.Quantity).Msg("order detail deleted, stock restored")
	return nil
}

// lockPair lock dua baris product urut id naik, return sesuai urutan argumen.
func (m *ReservationManager) lockPair(ctx context.Context, tx Tx, aID, bID int64) (*catalog.Product, *catalog.Product, error) {
	first, second := aID, bID
	if bID < aID {
		first, second = bID, aID
	}
	p1, err := m.Products.LockForUpdate(ctx, tx, first)
	if err != nil {
		return nil, nil, err
	}
	p2, err := m.Products.LockForUpdate(ctx, tx, second)
	if err != nil {
		return nil, nil, err
	}
	if p1.ID == aID {
		return p1, p2, nil
	}
	return p2, p1, nil
}
