package orderbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/quantfold/matching-engine/internal/domain/snapshot/v1"
)

type trade struct {
	price int64
	qty   int32
}

type depthEvent struct {
	side   orderbookv1.Side
	action orderbookv1.DepthAction
	price  int64
	qty    int32
}

type recordingListener struct {
	trades []trade
	depths []depthEvent
}

func (r *recordingListener) OnTrade(price int64, qty int32) {
	r.trades = append(r.trades, trade{price: price, qty: qty})
}

func (r *recordingListener) OnDepth(side orderbookv1.Side, action orderbookv1.DepthAction, price int64, qty int32) {
	r.depths = append(r.depths, depthEvent{side: side, action: action, price: price, qty: qty})
}

func (r *recordingListener) reset() {
	r.trades = nil
	r.depths = nil
}

func newTestBook(listener orderbookv1.EventListener) *OrderBook {
	return NewOrderBook(Config{
		Symbol:      "AAPL",
		MaxOrders:   1000,
		MaxPrice:    2000000,
		PriceWindow: 1500000,
	}, listener)
}

func limitOrder(id uint64, side orderbookv1.Side, price int64, qty int32) *orderbookv1.Order {
	return &orderbookv1.Order{
		ID:       id,
		Symbol:   "AAPL",
		Side:     side,
		Type:     orderbookv1.OrderTypeLimit,
		Status:   orderbookv1.OrderStatusNew,
		TIF:      orderbookv1.TIFDay,
		Price:    price,
		Quantity: qty,
		Display:  qty,
	}
}

func gtcOrder(id uint64, side orderbookv1.Side, price int64, qty int32) *orderbookv1.Order {
	o := limitOrder(id, side, price, qty)
	o.TIF = orderbookv1.TIFGTC
	return o
}

func iocOrder(id uint64, side orderbookv1.Side, price int64, qty int32) *orderbookv1.Order {
	o := limitOrder(id, side, price, qty)
	o.TIF = orderbookv1.TIFIOC
	return o
}

func marketOrder(id uint64, side orderbookv1.Side, qty int32) *orderbookv1.Order {
	return &orderbookv1.Order{
		ID:       id,
		Symbol:   "AAPL",
		Side:     side,
		Type:     orderbookv1.OrderTypeMarket,
		Status:   orderbookv1.OrderStatusNew,
		TIF:      orderbookv1.TIFIOC,
		Quantity: qty,
		Display:  qty,
	}
}

func icebergOrder(id uint64, side orderbookv1.Side, price int64, display, hidden int32) *orderbookv1.Order {
	return &orderbookv1.Order{
		ID:       id,
		Symbol:   "AAPL",
		Side:     side,
		Type:     orderbookv1.OrderTypeIceberg,
		Status:   orderbookv1.OrderStatusNew,
		TIF:      orderbookv1.TIFDay,
		Price:    price,
		Quantity: display + hidden,
		Display:  display,
	}
}

func cancelOrder(id uint64) *orderbookv1.Order {
	return &orderbookv1.Order{ID: id, Symbol: "AAPL", Status: orderbookv1.OrderStatusCancel}
}

func TestOrderBook_RestingThenCrossing(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	matched, err := book.Add(limitOrder(1, orderbookv1.SideBuy, 1005000, 100))
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, []depthEvent{{orderbookv1.SideBuy, orderbookv1.ActionAdd, 1005000, 100}}, listener.depths)

	listener.reset()
	matched, err = book.Add(limitOrder(2, orderbookv1.SideSell, 1005000, 60))
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, []trade{{1005000, 60}}, listener.trades)
	assert.Equal(t, []depthEvent{{orderbookv1.SideBuy, orderbookv1.ActionModify, 1005000, 40}}, listener.depths)

	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(1005000), bid)
	_, ok = book.BestAsk()
	assert.False(t, ok)
}

func TestOrderBook_TradesAtRestingPrice(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideSell, 1000000, 30))
	require.NoError(t, err)

	// aggressive buy above the resting price still trades at the resting price
	matched, err := book.Add(limitOrder(2, orderbookv1.SideBuy, 1020000, 30))
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, []trade{{1000000, 30}}, listener.trades)
}

func TestOrderBook_WalkAcrossLevels(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideSell, 1000000, 30))
	require.NoError(t, err)
	_, err = book.Add(limitOrder(2, orderbookv1.SideSell, 1010000, 50))
	require.NoError(t, err)

	listener.reset()
	matched, err := book.Add(limitOrder(3, orderbookv1.SideBuy, 1010000, 100))
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, []trade{{1000000, 30}, {1010000, 50}}, listener.trades)

	// the 20 left after sweeping both levels rests on the bid side
	bid, ok := book.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(1010000), bid)
	_, ok = book.BestAsk()
	assert.False(t, ok)

	entry := book.arena.Get(3)
	require.NotNil(t, entry)
	assert.Equal(t, int32(20), entry.OpenQty)
}

func TestOrderBook_PriceTimePriority(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideSell, 1000000, 40))
	require.NoError(t, err)
	_, err = book.Add(limitOrder(2, orderbookv1.SideSell, 1000000, 40))
	require.NoError(t, err)

	listener.reset()
	_, err = book.Add(limitOrder(3, orderbookv1.SideBuy, 1000000, 50))
	require.NoError(t, err)

	// the earlier order fills completely before the later one is touched
	assert.Equal(t, []trade{{1000000, 40}, {1000000, 10}}, listener.trades)
	assert.False(t, book.arena.Get(1).Active())
	assert.Equal(t, int32(30), book.arena.Get(2).OpenQty)
}

func TestOrderBook_CancelThenMatch(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideBuy, 1000000, 50))
	require.NoError(t, err)
	_, err = book.Add(limitOrder(2, orderbookv1.SideBuy, 1000000, 50))
	require.NoError(t, err)

	book.Cancel(1)

	listener.reset()
	matched, err := book.Add(limitOrder(3, orderbookv1.SideSell, 1000000, 50))
	require.NoError(t, err)
	assert.True(t, matched)

	// the walk skips the tombstone and fills the surviving order
	assert.Equal(t, []trade{{1000000, 50}}, listener.trades)
	assert.False(t, book.arena.Get(2).Active())

	_, ok := book.BestBid()
	assert.False(t, ok)
}

func TestOrderBook_CancelIdempotent(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideBuy, 1000000, 50))
	require.NoError(t, err)

	listener.reset()
	book.Cancel(1)
	book.Cancel(1)
	book.Cancel(99)

	assert.Equal(t, []depthEvent{{orderbookv1.SideBuy, orderbookv1.ActionDelete, 1000000, 0}}, listener.depths)
}

func TestOrderBook_CancelViaAdd(t *testing.T) {
	book := newTestBook(nil)

	_, err := book.Add(limitOrder(1, orderbookv1.SideBuy, 1000000, 50))
	require.NoError(t, err)

	matched, err := book.Add(cancelOrder(1))
	require.NoError(t, err)
	assert.False(t, matched)
	assert.False(t, book.arena.Get(1).Active())
}

func TestOrderBook_IOCResidualDiscarded(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideSell, 1000000, 30))
	require.NoError(t, err)

	listener.reset()
	matched, err := book.Add(iocOrder(2, orderbookv1.SideBuy, 1000000, 100))
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, []trade{{1000000, 30}}, listener.trades)

	// the 70 left over never rests
	assert.Nil(t, book.arena.Get(2))
	_, ok := book.BestBid()
	assert.False(t, ok)
}

func TestOrderBook_MarketOrder(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideBuy, 1000000, 30))
	require.NoError(t, err)
	_, err = book.Add(limitOrder(2, orderbookv1.SideBuy, 990000, 30))
	require.NoError(t, err)

	listener.reset()
	matched, err := book.Add(marketOrder(3, orderbookv1.SideSell, 100))
	require.NoError(t, err)
	assert.True(t, matched)

	// sweeps every bid level, then the residual is discarded
	assert.Equal(t, []trade{{1000000, 30}, {990000, 30}}, listener.trades)
	assert.Nil(t, book.arena.Get(3))
	_, ok := book.BestBid()
	assert.False(t, ok)
}

func TestOrderBook_MarketOrderEmptyBook(t *testing.T) {
	book := newTestBook(nil)

	matched, err := book.Add(marketOrder(1, orderbookv1.SideBuy, 100))
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Nil(t, book.arena.Get(1))
}

func TestOrderBook_IcebergRefreshLosesPriority(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(icebergOrder(1, orderbookv1.SideSell, 1000000, 10, 20))
	require.NoError(t, err)
	_, err = book.Add(limitOrder(2, orderbookv1.SideSell, 1000000, 20))
	require.NoError(t, err)

	listener.reset()
	_, err = book.Add(limitOrder(3, orderbookv1.SideBuy, 1000000, 25))
	require.NoError(t, err)

	// the iceberg's first tranche fills, its reload requeues behind order 2,
	// so the remaining 15 hits order 2 next
	assert.Equal(t, []trade{{1000000, 10}, {1000000, 15}}, listener.trades)
	assert.Equal(t, int32(10), book.arena.Get(1).OpenQty)
	assert.Equal(t, int32(20), book.arena.Get(1).TotalQty)
	assert.Equal(t, int32(5), book.arena.Get(2).OpenQty)
}

func TestOrderBook_IcebergDepthShowsDisplayOnly(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(icebergOrder(1, orderbookv1.SideSell, 1000000, 10, 90))
	require.NoError(t, err)

	// only the displayed tranche is advertised
	assert.Equal(t, []depthEvent{{orderbookv1.SideSell, orderbookv1.ActionAdd, 1000000, 10}}, listener.depths)
}

func TestOrderBook_IncomingIcebergMatchesFullQuantity(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	_, err := book.Add(limitOrder(1, orderbookv1.SideSell, 1000000, 50))
	require.NoError(t, err)

	listener.reset()
	matched, err := book.Add(icebergOrder(2, orderbookv1.SideBuy, 1000000, 10, 30))
	require.NoError(t, err)
	assert.True(t, matched)

	// all four tranches cross before anything could rest
	assert.Equal(t, []trade{{1000000, 10}, {1000000, 10}, {1000000, 10}, {1000000, 10}}, listener.trades)
	assert.Nil(t, book.arena.Get(2))
	assert.Equal(t, int32(10), book.arena.Get(1).OpenQty)
}

func TestOrderBook_RejectsWithoutMutation(t *testing.T) {
	book := newTestBook(nil)
	_, err := book.Add(limitOrder(1, orderbookv1.SideBuy, 1000000, 50))
	require.NoError(t, err)

	tests := []struct {
		name    string
		order   *orderbookv1.Order
		wantErr error
	}{
		{"id zero", limitOrder(0, orderbookv1.SideSell, 1000000, 10), ErrArenaCapacity},
		{"id beyond capacity", limitOrder(1001, orderbookv1.SideSell, 1000000, 10), ErrArenaCapacity},
		{"duplicate resting id", limitOrder(1, orderbookv1.SideSell, 1100000, 10), ErrDuplicateOrderID},
		{"price zero", limitOrder(2, orderbookv1.SideSell, 0, 10), ErrPriceOutOfRange},
		{"price above max", limitOrder(2, orderbookv1.SideSell, 2000001, 10), ErrPriceOutOfRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matched, err := book.Add(tc.order)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.False(t, matched)

			bid, ok := book.BestBid()
			require.True(t, ok)
			assert.Equal(t, int64(1000000), bid)
			assert.Equal(t, int32(50), book.arena.Get(1).OpenQty)
		})
	}
}

func TestOrderBook_NoSelfCrossing(t *testing.T) {
	book := newTestBook(nil)

	orders := []*orderbookv1.Order{
		limitOrder(1, orderbookv1.SideBuy, 1000000, 40),
		limitOrder(2, orderbookv1.SideSell, 1010000, 40),
		limitOrder(3, orderbookv1.SideBuy, 1005000, 20),
		limitOrder(4, orderbookv1.SideSell, 1005000, 50),
		limitOrder(5, orderbookv1.SideBuy, 1020000, 10),
		icebergOrder(6, orderbookv1.SideSell, 1002000, 5, 25),
		limitOrder(7, orderbookv1.SideBuy, 1002000, 12),
	}
	for _, o := range orders {
		_, err := book.Add(o)
		require.NoError(t, err)

		bid, hasBid := book.BestBid()
		ask, hasAsk := book.BestAsk()
		if hasBid && hasAsk {
			assert.Less(t, bid, ask, "book crossed after order %d", o.ID)
		}
	}
}

func TestOrderBook_QuantityConservation(t *testing.T) {
	listener := &recordingListener{}
	book := newTestBook(listener)

	orders := []*orderbookv1.Order{
		limitOrder(1, orderbookv1.SideBuy, 1000000, 100),
		limitOrder(2, orderbookv1.SideSell, 1010000, 80),
		limitOrder(3, orderbookv1.SideSell, 1000000, 30),
		iocOrder(4, orderbookv1.SideBuy, 1010000, 50),
		icebergOrder(5, orderbookv1.SideSell, 995000, 10, 40),
		marketOrder(6, orderbookv1.SideBuy, 25),
		limitOrder(7, orderbookv1.SideBuy, 995000, 60),
	}
	var submitted int64
	for _, o := range orders {
		submitted += int64(o.Quantity)
		_, err := book.Add(o)
		require.NoError(t, err)
	}

	var traded, open int64
	for _, tr := range listener.trades {
		traded += int64(tr.qty)
	}
	for id := uint64(1); id <= 7; id++ {
		if entry := book.arena.Get(id); entry != nil {
			open += int64(entry.TotalQty)
		}
	}

	// every traded unit consumes one unit from each side
	discarded := submitted - open - 2*traded
	assert.GreaterOrEqual(t, discarded, int64(0))
	for _, tr := range listener.trades {
		assert.Positive(t, tr.qty)
	}
}

func TestOrderBook_SnapshotRestore(t *testing.T) {
	book := newTestBook(nil)

	_, err := book.Add(gtcOrder(1, orderbookv1.SideBuy, 990000, 40))
	require.NoError(t, err)
	_, err = book.Add(limitOrder(2, orderbookv1.SideBuy, 995000, 30))
	require.NoError(t, err)
	_, err = book.Add(gtcOrder(3, orderbookv1.SideSell, 1010000, 20))
	require.NoError(t, err)
	_, err = book.Add(gtcOrder(4, orderbookv1.SideSell, 1010000, 50))
	require.NoError(t, err)
	book.Cancel(4)

	snap := book.CreateSnapshot()
	assert.Equal(t, "AAPL", snap.Symbol)

	// day orders and cancelled orders are excluded, ascending book order kept
	require.Len(t, snap.Orders, 2)
	assert.Equal(t, uint64(1), snap.Orders[0].OrderID)
	assert.Equal(t, "BUY", snap.Orders[0].Side)
	assert.Equal(t, uint64(3), snap.Orders[1].OrderID)

	restored := newTestBook(nil)
	require.NoError(t, restored.Restore(snap))

	bid, ok := restored.BestBid()
	require.True(t, ok)
	assert.Equal(t, int64(990000), bid)
	ask, ok := restored.BestAsk()
	require.True(t, ok)
	assert.Equal(t, int64(1010000), ask)

	// the restored book matches like the live one did
	listener := &recordingListener{}
	restored.listener = listener
	matched, err := restored.Add(limitOrder(10, orderbookv1.SideBuy, 1010000, 20))
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, []trade{{1010000, 20}}, listener.trades)
}

func TestOrderBook_RestoreRejectsBadSnapshot(t *testing.T) {
	book := newTestBook(nil)

	err := book.Restore(carryover(1, "HOLD", 1000000))
	assert.Error(t, err)

	err = book.Restore(carryover(2, "BUY", 3000000))
	assert.ErrorIs(t, err, ErrPriceOutOfRange)

	require.NoError(t, book.Restore(nil))
}

func carryover(orderID uint64, side string, price int64) *snapshotv1.Snapshot {
	return &snapshotv1.Snapshot{
		Symbol: "AAPL",
		Orders: []snapshotv1.BookOrder{{
			OrderID:  orderID,
			Side:     side,
			Price:    price,
			OpenQty:  10,
			TotalQty: 10,
			Display:  10,
		}},
	}
}

func BenchmarkOrderBook_Add(b *testing.B) {
	book := NewOrderBook(Config{
		Symbol:      "AAPL",
		MaxOrders:   uint64(b.N) + 1,
		MaxPrice:    2000000,
		PriceWindow: 1500000,
	}, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := orderbookv1.SideBuy
		price := int64(1000000 - i%100)
		if i%2 == 0 {
			side = orderbookv1.SideSell
			price = int64(1000000 + i%100)
		}
		_, _ = book.Add(limitOrder(uint64(i)+1, side, price, 10))
	}
}
