package cart

// Item: satu baris di keranjang. Price snapshot harga product saat
// dimasukkan (validasi final tetap di reservasi saat checkout).
type Item struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

type Cart struct {
	Items     []Item  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

func Empty() Cart {
	return Cart{Items: []Item{}}
}

// recalc hitung ulang total & item_count dari items.
func (c *Cart) recalc() {
	c.Total = 0
	c.ItemCount = 0
	for _, it := range c.Items {
		c.Total += it.Price * float64(it.Quantity)
		c.ItemCount += it.Quantity
	}
}

func (c *Cart) find(productID int64) *Item {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Add tambah item baru atau naikkan quantity item yang sudah ada.
func (c *Cart) Add(it Item) {
	if existing := c.find(it.ProductID); existing != nil {
		existing.Quantity += it.Quantity
	} else {
		c.Items = append(c.Items, it)
	}
	c.recalc()
}

// SetQuantity set quantity item; <= 0 berarti hapus dari keranjang.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		kept := c.Items[:0]
		for _, it := range c.Items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		c.Items = kept
	} else if it := c.find(productID); it != nil {
		it.Quantity = quantity
	}
	c.recalc()
}

// Merge gabungkan cart lain ke cart ini (dipakai saat guest login).
func (c *Cart) Merge(other Cart) {
	for _, it := range other.Items {
		if existing := c.find(it.ProductID); existing != nil {
			existing.Quantity += it.Quantity
		} else {
			c.Items = append(c.Items, it)
		}
	}
	c.recalc()
}
