package catalog

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryTaken    = errors.New("category name already taken")

	// Product dengan riwayat penjualan tidak boleh dihapus (order detail masih refer).
	ErrProductHasSales = errors.New("cannot delete a product with sales history")
)
