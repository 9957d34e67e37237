package orderbook

import (
	"errors"
	"fmt"

	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/quantfold/matching-engine/internal/domain/snapshot/v1"
)

// ErrPriceOutOfRange is returned when a limit price falls outside [1, MaxPrice].
var ErrPriceOutOfRange = errors.New("price outside configured range")

// Config bounds the book's fixed allocations.
type Config struct {
	Symbol string
	// MaxOrders is the highest order id accepted for the session.
	MaxOrders uint64
	// MaxPrice is the highest scaled price accepted.
	MaxPrice int64
	// PriceWindow is the dense ladder window; prices beyond it use the
	// sparse overflow index.
	PriceWindow int64
}

// OrderBook is the single-instrument price-time-priority book. It is not
// safe for concurrent use: one goroutine owns it and serializes Add/Cancel.
type OrderBook struct {
	symbol   string
	arena    *Arena
	ladder   *Ladder
	listener orderbookv1.EventListener

	maxPrice int64
	// bidMax caches the highest occupied bid price, 0 when no bids.
	bidMax int64
	// askMin caches the lowest occupied ask price, maxPrice+1 when no asks.
	askMin int64
}

var _ orderbookv1.Book = (*OrderBook)(nil)

// NewOrderBook creates an empty book. A nil listener discards all events.
func NewOrderBook(cfg Config, listener orderbookv1.EventListener) *OrderBook {
	if listener == nil {
		listener = orderbookv1.NopListener{}
	}
	return &OrderBook{
		symbol:   cfg.Symbol,
		arena:    NewArena(cfg.MaxOrders),
		ladder:   NewLadder(cfg.PriceWindow, cfg.MaxPrice),
		listener: listener,
		maxPrice: cfg.MaxPrice,
		bidMax:   0,
		askMin:   cfg.MaxPrice + 1,
	}
}

// Add processes one order. Cancels delegate to Cancel. New orders are matched
// against the opposite side while they cross; a non-IOC remainder rests.
// Validation errors leave the book untouched.
func (ob *OrderBook) Add(order *orderbookv1.Order) (bool, error) {
	if order.Status == orderbookv1.OrderStatusCancel {
		ob.Cancel(order.ID)
		return false, nil
	}

	// A doomed order must not mutate anything, so bounds come first.
	if order.ID == 0 || order.ID > ob.arena.Capacity() {
		return false, fmt.Errorf("%w: id %d, capacity %d", ErrArenaCapacity, order.ID, ob.arena.Capacity())
	}
	if existing := ob.arena.Get(order.ID); existing != nil {
		return false, fmt.Errorf("%w: id %d", ErrDuplicateOrderID, order.ID)
	}
	limit := order.Price
	if order.Type == orderbookv1.OrderTypeMarket {
		// A market order crosses every occupied level on the far side.
		if order.IsBuy() {
			limit = ob.maxPrice
		} else {
			limit = 1
		}
	} else if order.Price < 1 || order.Price > ob.maxPrice {
		return false, fmt.Errorf("%w: price %d, max %d", ErrPriceOutOfRange, order.Price, ob.maxPrice)
	}

	entry := orderbookv1.BookEntry{
		OrderID:  order.ID,
		Side:     order.Side,
		Price:    order.Price,
		OpenQty:  order.Display,
		TotalQty: order.Quantity,
		Display:  order.Display,
		Iceberg:  order.Type == orderbookv1.OrderTypeIceberg,
		GTC:      order.GoodTillCancel(),
	}

	var matched bool
	var err error
	if order.IsBuy() {
		matched, err = ob.matchAsks(&entry, limit)
	} else {
		matched, err = ob.matchBids(&entry, limit)
	}
	if err != nil {
		return matched, err
	}

	if entry.TotalQty > 0 && !order.ImmediateOrCancel() {
		if err := ob.rest(&entry); err != nil {
			return matched, err
		}
	}
	return matched, nil
}

// matchAsks walks ask levels from askMin upward while the incoming buy still
// crosses, trading at each resting order's price.
func (ob *OrderBook) matchAsks(in *orderbookv1.BookEntry, limit int64) (bool, error) {
	matched := false
	for refreshTranche(in) && ob.askMin <= ob.maxPrice && limit >= ob.askMin {
		levelPrice := ob.askMin
		filled, err := ob.drainLevel(in, levelPrice, orderbookv1.SideSell)
		matched = matched || filled
		if err != nil {
			return matched, err
		}
		if ob.ladder.Empty(levelPrice) {
			// Level exhausted, advance the cached best ask one step.
			ob.askMin++
		}
	}
	return matched, nil
}

// matchBids walks bid levels from bidMax downward while the incoming sell
// still crosses, trading at each resting order's price.
func (ob *OrderBook) matchBids(in *orderbookv1.BookEntry, limit int64) (bool, error) {
	matched := false
	for refreshTranche(in) && ob.bidMax >= 1 && limit <= ob.bidMax {
		levelPrice := ob.bidMax
		filled, err := ob.drainLevel(in, levelPrice, orderbookv1.SideBuy)
		matched = matched || filled
		if err != nil {
			return matched, err
		}
		if ob.ladder.Empty(levelPrice) {
			ob.bidMax--
		}
	}
	return matched, nil
}

// drainLevel trades the incoming entry against one price level in queue order
// until the incoming quantity or the level is exhausted. Tombstones left by
// lazy cancels are dropped for free as the walk reaches them. Fully filled
// resting icebergs reload their next displayed tranche at the back of the
// queue, forfeiting time priority.
func (ob *OrderBook) drainLevel(in *orderbookv1.BookEntry, levelPrice int64, restingSide orderbookv1.Side) (bool, error) {
	matched := false
	for refreshTranche(in) {
		id, ok := ob.ladder.Front(levelPrice)
		if !ok {
			break
		}
		resting := ob.arena.Get(id)
		if resting == nil || !resting.Active() {
			ob.ladder.PopFront(levelPrice)
			continue
		}

		qty := min32(in.OpenQty, resting.OpenQty)
		if err := ob.arena.Reduce(id, qty); err != nil {
			return matched, err
		}
		in.OpenQty -= qty
		in.TotalQty -= qty
		matched = true

		// The fill is committed before any notification goes out.
		ob.listener.OnTrade(levelPrice, qty)

		if resting.OpenQty > 0 {
			ob.listener.OnDepth(restingSide, orderbookv1.ActionModify, levelPrice, resting.OpenQty)
			continue
		}
		ob.ladder.PopFront(levelPrice)
		if resting.Iceberg && resting.TotalQty > 0 {
			resting.OpenQty = min32(resting.Display, resting.TotalQty)
			ob.ladder.PushBack(levelPrice, id)
			ob.listener.OnDepth(restingSide, orderbookv1.ActionModify, levelPrice, resting.OpenQty)
		} else {
			ob.listener.OnDepth(restingSide, orderbookv1.ActionDelete, levelPrice, 0)
		}
	}
	return matched, nil
}

// refreshTranche reloads an exhausted iceberg display tranche from the hidden
// remainder and reports whether the entry still has open quantity.
func refreshTranche(e *orderbookv1.BookEntry) bool {
	if e.OpenQty == 0 && e.Iceberg && e.TotalQty > 0 {
		e.OpenQty = min32(e.Display, e.TotalQty)
	}
	return e.OpenQty > 0
}

func (ob *OrderBook) rest(e *orderbookv1.BookEntry) error {
	refreshTranche(e)
	stored, err := ob.arena.Allocate(e.OrderID, *e)
	if err != nil {
		return err
	}
	ob.ladder.PushBack(e.Price, e.OrderID)
	if e.Side == orderbookv1.SideBuy {
		if e.Price > ob.bidMax {
			ob.bidMax = e.Price
		}
	} else if e.Price < ob.askMin {
		ob.askMin = e.Price
	}
	ob.listener.OnDepth(e.Side, orderbookv1.ActionAdd, e.Price, stored.OpenQty)
	return nil
}

// Cancel deactivates a resting order in place. The id stays queued in its
// level as a tombstone until a walk or compaction removes it. Unknown and
// already inactive ids are ignored: cancels racing fills are expected.
func (ob *OrderBook) Cancel(orderID uint64) {
	entry := ob.arena.Get(orderID)
	if entry == nil || !entry.Active() {
		return
	}
	side, price := entry.Side, entry.Price
	ob.arena.Deactivate(orderID)
	ob.ladder.MarkTombstone(price, ob.activeID)

	// Compaction may have emptied the level at the top of the book.
	if side == orderbookv1.SideSell && price == ob.askMin {
		for ob.askMin <= ob.maxPrice && ob.ladder.Empty(ob.askMin) {
			ob.askMin++
		}
	} else if side == orderbookv1.SideBuy && price == ob.bidMax {
		for ob.bidMax >= 1 && ob.ladder.Empty(ob.bidMax) {
			ob.bidMax--
		}
	}

	ob.listener.OnDepth(side, orderbookv1.ActionDelete, price, 0)
}

func (ob *OrderBook) activeID(id uint64) bool {
	entry := ob.arena.Get(id)
	return entry != nil && entry.Active()
}

// BestBid returns the highest occupied bid price, if any. The cached price
// can trail one empty level per exhausted walk, so it is repaired here; each
// downward step is paid for by the insert that raised the cache.
func (ob *OrderBook) BestBid() (int64, bool) {
	for ob.bidMax >= 1 && ob.ladder.Empty(ob.bidMax) {
		ob.bidMax--
	}
	if ob.bidMax < 1 {
		return 0, false
	}
	return ob.bidMax, true
}

// BestAsk returns the lowest occupied ask price, if any.
func (ob *OrderBook) BestAsk() (int64, bool) {
	for ob.askMin <= ob.maxPrice && ob.ladder.Empty(ob.askMin) {
		ob.askMin++
	}
	if ob.askMin > ob.maxPrice {
		return 0, false
	}
	return ob.askMin, true
}

// CreateSnapshot captures every active GTC order in book order: ascending
// price, queue order within a level. Since bids always sit below asks this
// replays without crossing.
func (ob *OrderBook) CreateSnapshot() *snapshotv1.Snapshot {
	snap := &snapshotv1.Snapshot{Symbol: ob.symbol}
	ob.ladder.Ascend(func(price int64, id uint64) bool {
		entry := ob.arena.Get(id)
		if entry == nil || !entry.Active() || !entry.GTC {
			return true
		}
		snap.Orders = append(snap.Orders, snapshotv1.BookOrder{
			OrderID:  entry.OrderID,
			Side:     entry.Side.String(),
			Price:    entry.Price,
			OpenQty:  entry.OpenQty,
			TotalQty: entry.TotalQty,
			Display:  entry.Display,
			Iceberg:  entry.Iceberg,
		})
		return true
	})
	return snap
}

// Restore rests a snapshot's orders directly into the book, preserving each
// order's partially consumed iceberg tranche.
func (ob *OrderBook) Restore(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return nil
	}
	for i := range snapshot.Orders {
		bo := snapshot.Orders[i]
		entry := orderbookv1.BookEntry{
			OrderID:  bo.OrderID,
			Side:     orderbookv1.SideFromString(bo.Side),
			Price:    bo.Price,
			OpenQty:  bo.OpenQty,
			TotalQty: bo.TotalQty,
			Display:  bo.Display,
			Iceberg:  bo.Iceberg,
			GTC:      true,
		}
		if entry.Side == orderbookv1.SideUnknown {
			return fmt.Errorf("restore order %d: unknown side %q", bo.OrderID, bo.Side)
		}
		if bo.Price < 1 || bo.Price > ob.maxPrice {
			return fmt.Errorf("restore order %d: %w: price %d", bo.OrderID, ErrPriceOutOfRange, bo.Price)
		}
		if err := ob.rest(&entry); err != nil {
			return err
		}
	}
	return nil
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
