package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiwicaksono/go-shop-backend/internal/catalog"
)

// memDB simulasi store transaksional dengan row lock per product:
// LockForUpdate pegang mutex baris sampai Commit/Rollback, tulisan
// di-stage dan baru kelihatan setelah Commit. Semantik sama dengan
// SELECT ... FOR UPDATE di Postgres.
type memDB struct {
	mu       sync.Mutex
	products map[int64]*catalog.Product
	orders   map[int64]bool
	details  map[int64]*OrderDetail
	rowLocks map[int64]*sync.Mutex
	nextID   int64
}

func newMemDB() *memDB {
	return &memDB{
		products: map[int64]*catalog.Product{},
		orders:   map[int64]bool{},
		details:  map[int64]*OrderDetail{},
		rowLocks: map[int64]*sync.Mutex{},
	}
}

func (db *memDB) addProduct(id int64, stock int, price float64) {
	db.products[id] = &catalog.Product{ID: id, Stock: stock, Price: price}
	db.rowLocks[id] = &sync.Mutex{}
}

func (db *memDB) addOrder(id int64) { db.orders[id] = true }

func (db *memDB) stock(id int64) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.products[id].Stock
}

type memTx struct {
	db     *memDB
	held   []int64
	staged []func()
	done   bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.db.mu.Lock()
	for _, apply := range t.staged {
		apply()
	}
	t.db.mu.Unlock()
	t.finish()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.staged = nil
	t.finish()
	return nil
}

func (t *memTx) finish() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.db.rowLocks[t.held[i]].Unlock()
	}
	t.held = nil
	t.done = true
}

type memUoW struct{ db *memDB }

func (u memUoW) Begin(ctx context.Context) (Tx, error) { return &memTx{db: u.db}, nil }

type memStores struct{ db *memDB }

func (s memStores) Exists(ctx context.Context, tx Tx, id int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.orders[id], nil
}

func (s memStores) LockForUpdate(ctx context.Context, tx Tx, id int64) (*catalog.Product, error) {
	t := tx.(*memTx)

	s.db.mu.Lock()
	lock, ok := s.db.rowLocks[id]
	s.db.mu.Unlock()
	if !ok {
		return nil, &NotFoundError{Entity: "product", ID: id}
	}

	lock.Lock() // blocking sampai tx lain commit/rollback
	t.held = append(t.held, id)

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.products[id]
	if !ok {
		return nil, &NotFoundError{Entity: "product", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (s memStores) SetStock(ctx context.Context, tx Tx, id int64, stock int) error {
	t := tx.(*memTx)
	t.staged = append(t.staged, func() { s.db.products[id].Stock = stock })
	return nil
}

func (s memStores) Get(ctx context.Context, tx Tx, id int64) (*OrderDetail, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	d, ok := s.db.details[id]
	if !ok {
		return nil, &NotFoundError{Entity: "order detail", ID: id}
	}
	cp := *d
	return &cp, nil
}

func (s memStores) Insert(ctx context.Context, tx Tx, d *OrderDetail) (int64, error) {
	t := tx.(*memTx)
	s.db.mu.Lock()
	s.db.nextID++
	id := s.db.nextID
	s.db.mu.Unlock()

	cp := *d
	cp.ID = id
	t.staged = append(t.staged, func() { s.db.details[id] = &cp })
	return id, nil
}

func (s memStores) Update(ctx context.Context, tx Tx, d *OrderDetail) error {
	t := tx.(*memTx)
	cp := *d
	t.staged = append(t.staged, func() { s.db.details[cp.ID] = &cp })
	return nil
}

func (s memStores) Delete(ctx context.Context, tx Tx, id int64) error {
	t := tx.(*memTx)
	t.staged = append(t.staged, func() { delete(s.db.details, id) })
	return nil
}

func newTestManager(db *memDB) *ReservationManager {
	st := memStores{db: db}
	return &ReservationManager{UoW: memUoW{db: db}, Orders: st, Products: st, Details: st}
}

func ptrI64(v int64) *int64 { return &v }
func ptrInt(v int) *int     { return &v }
func ptrF64(v float64) *float64 { return &v }

func TestCreateThenDeleteRoundTrip(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 10, 9.99)
	m := newTestManager(db)

	d, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 5, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 9.99, d.Price)
	assert.Equal(t, 7, db.stock(5))

	require.NoError(t, m.Delete(context.Background(), d.ID))
	assert.Equal(t, 10, db.stock(5))
	_, ok := db.details[d.ID]
	assert.False(t, ok)
}

func TestCreateOrderNotFound(t *testing.T) {
	db := newMemDB()
	db.addProduct(5, 10, 9.99)
	m := newTestManager(db)

	_, err := m.Create(context.Background(), CreateDetail{OrderID: 99, ProductID: 5, Quantity: 1})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order", nf.Entity)
	assert.Equal(t, 10, db.stock(5))
}

func TestCreateProductNotFound(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	m := newTestManager(db)

	_, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 42, Quantity: 1})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Entity)
	assert.Equal(t, int64(42), nf.ID)
}

func TestCreateStockBoundary(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 4, 2.50)
	m := newTestManager(db)

	// quantity == stock: habis persis
	_, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 5, Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 0, db.stock(5))

	// quantity = stock+1 di state awal
	db2 := newMemDB()
	db2.addOrder(1)
	db2.addProduct(5, 4, 2.50)
	m2 := newTestManager(db2)

	_, err = m2.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 5, Quantity: 5})
	var is *InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, 5, is.Requested)
	assert.Equal(t, 4, is.Available)
	assert.Equal(t, 4, db2.stock(5))
	assert.Empty(t, db2.details)
}

func TestCreatePriceTolerance(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 10, 9.99)
	m := newTestManager(db)

	// dalam toleransi: diterima, price pakai nilai dari client
	d, err := m.Create(context.Background(),
		CreateDetail{OrderID: 1, ProductID: 5, Quantity: 1, Price: ptrF64(9.995)})
	require.NoError(t, err)
	assert.Equal(t, 9.995, d.Price)
	assert.Equal(t, 9, db.stock(5))

	// di luar toleransi: ditolak, rollback total (stok & detail tidak berubah)
	_, err = m.Create(context.Background(),
		CreateDetail{OrderID: 1, ProductID: 5, Quantity: 1, Price: ptrF64(10.01)})
	var pm *PriceMismatchError
	require.ErrorAs(t, err, &pm)
	assert.Equal(t, 9.99, pm.Expected)
	assert.Equal(t, 10.01, pm.Got)
	assert.Equal(t, 9, db.stock(5))
	assert.Len(t, db.details, 1)
}

func TestCreateInvalidQuantity(t *testing.T) {
	m := newTestManager(newMemDB())
	_, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 5, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateQuantityDelta(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 8, 1.00)
	m := newTestManager(db)

	d, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 5, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 5, db.stock(5))

	// naik 3 -> 6, delta +3 <= stok 5
	got, err := m.Update(context.Background(), d.ID, DetailPatch{Quantity: ptrInt(6)})
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)
	assert.Equal(t, 2, db.stock(5))

	// naik 6 -> 13, delta +7 > stok 2: gagal, semua tidak berubah
	_, err = m.Update(context.Background(), d.ID, DetailPatch{Quantity: ptrInt(13)})
	var is *InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, 7, is.Requested)
	assert.Equal(t, 2, is.Available)
	assert.Equal(t, 2, db.stock(5))
	assert.Equal(t, 6, db.details[d.ID].Quantity)

	// turun 6 -> 2: delta negatif mengembalikan stok
	got, err = m.Update(context.Background(), d.ID, DetailPatch{Quantity: ptrInt(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 6, db.stock(5))
}

func TestUpdateProductReassignment(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 10, 9.99)
	db.addProduct(7, 4, 3.25)
	m := newTestManager(db)

	d, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 5, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 7, db.stock(5))

	// pindah product 5 -> 7: stok lama balik penuh, stok baru dipotong
	// quantity penuh, price snapshot ulang dari product baru
	got, err := m.Update(context.Background(), d.ID, DetailPatch{ProductID: ptrI64(7)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ProductID)
	assert.Equal(t, 3.25, got.Price)
	assert.Equal(t, 10, db.stock(5))
	assert.Equal(t, 1, db.stock(7))

	// pindah balik dengan quantity yang tidak muat di product 5? muat (10).
	// coba pindah ke product baru sambil naikkan qty melebihi stoknya: rollback total
	db.addProduct(9, 2, 1.10)
	_, err = m.Update(context.Background(), d.ID, DetailPatch{ProductID: ptrI64(9), Quantity: ptrInt(3)})
	var is *InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.Equal(t, int64(9), is.ProductID)
	assert.Equal(t, 1, db.stock(7)) // reservasi lama tetap
	assert.Equal(t, 2, db.stock(9))
	assert.Equal(t, int64(7), db.details[d.ID].ProductID)
}

func TestUpdateOrderNotFound(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 10, 9.99)
	m := newTestManager(db)

	d, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 5, Quantity: 1})
	require.NoError(t, err)

	_, err = m.Update(context.Background(), d.ID, DetailPatch{OrderID: ptrI64(2)})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order", nf.Entity)
	assert.Equal(t, int64(1), db.details[d.ID].OrderID)
}

func TestUpdateDetailNotFound(t *testing.T) {
	m := newTestManager(newMemDB())
	_, err := m.Update(context.Background(), 123, DetailPatch{Quantity: ptrInt(2)})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order detail", nf.Entity)
}

func TestDeleteDetailNotFound(t *testing.T) {
	m := newTestManager(newMemDB())
	err := m.Delete(context.Background(), 77)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order detail", nf.Entity)
}

// K request Create konkuren dengan total permintaan melebihi stok:
// yang sukses maksimal sebanyak stok yang ada, sisanya
// InsufficientStock, tidak pernah oversell.
func TestConcurrentCreateNoOversell(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 10, 2.00)
	m := newTestManager(db)

	const workers = 8
	const qty = 3

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Create(context.Background(),
				CreateDetail{OrderID: 1, ProductID: 5, Quantity: qty})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var is *InsufficientStockError
		assert.ErrorAs(t, err, &is)
	}

	// serialisasi lewat row lock: 3 pertama sukses, sisanya lihat stok 1
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 10-succeeded*qty, db.stock(5))
	assert.Len(t, db.details, succeeded)
	assert.GreaterOrEqual(t, db.stock(5), 0)
}

// Dua update konkuren yang saling menukar product line item-nya.
// Lock urut id naik mencegah deadlock.
func TestConcurrentReassignmentNoDeadlock(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(1, 10, 1.00)
	db.addProduct(2, 10, 2.00)
	m := newTestManager(db)

	d1, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	d2, err := m.Create(context.Background(), CreateDetail{OrderID: 1, ProductID: 2, Quantity: 2})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	var err1, err2 error
	go func() {
		defer wg.Done()
		_, err1 = m.Update(context.Background(), d1.ID, DetailPatch{ProductID: ptrI64(2)})
	}()
	go func() {
		defer wg.Done()
		_, err2 = m.Update(context.Background(), d2.ID, DetailPatch{ProductID: ptrI64(1)})
	}()
	wg.Wait()

	require.NoError(t, err1)
	require.NoError(t, err2)

	// konservasi: total reservasi tetap 4, tersebar di dua product
	total := db.stock(1) + db.stock(2)
	assert.Equal(t, 16, total)
	assert.Equal(t, int64(2), db.details[d1.ID].ProductID)
	assert.Equal(t, int64(1), db.details[d2.ID].ProductID)
}

// Konservasi stok di bawah campuran create/update/delete.
func TestStockBookkeepingConservative(t *testing.T) {
	db := newMemDB()
	db.addOrder(1)
	db.addProduct(5, 20, 1.50)
	m := newTestManager(db)

	ctx := context.Background()
	d1, err := m.Create(ctx, CreateDetail{OrderID: 1, ProductID: 5, Quantity: 4})
	require.NoError(t, err)
	d2, err := m.Create(ctx, CreateDetail{OrderID: 1, ProductID: 5, Quantity: 6})
	require.NoError(t, err)

	_, err = m.Update(ctx, d2.ID, DetailPatch{Quantity: ptrInt(2)})
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, d1.ID))

	// 20 - 4 - 6 + 4 (delete d1) + 4 (delta d2: 6->2)
	assert.Equal(t, 18, db.stock(5))

	reserved := 0
	for _, d := range db.details {
		reserved += d.Quantity
	}
	assert.Equal(t, 20, db.stock(5)+reserved)
}
