package orderbookv1

// BookEntry is the resting state of an order, owned by the arena and referenced
// from the price ladder queues. OpenQty is the displayed remaining quantity;
// TotalQty additionally includes the hidden iceberg remainder. A cancelled or
// fully filled entry has OpenQty == 0 and is treated as a tombstone wherever it
// still sits in a queue.
type BookEntry struct {
	OrderID  uint64
	Side     Side
	Price    int64
	OpenQty  int32
	TotalQty int32
	// Display is the displayed tranche size an iceberg reloads to.
	Display int32
	Iceberg bool
	GTC     bool
}

// Active reports whether the entry can still be matched.
func (e *BookEntry) Active() bool {
	return e.OpenQty > 0
}

// Hidden returns the undisplayed remainder of an iceberg entry.
func (e *BookEntry) Hidden() int32 {
	return e.TotalQty - e.OpenQty
}
