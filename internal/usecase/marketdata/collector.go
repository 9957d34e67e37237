package marketdata

import (
	"context"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantfold/matching-engine/pkg/price"
)

// Collector buffers the book's notifications while one order is processed and
// publishes them afterwards: every trade individually, all depth changes as a
// single aggregated update. It implements the book's EventListener; callbacks
// only append to buffers and can never fail back into the book.
type Collector struct {
	publisher marketdatav1.Publisher

	trades []marketdatav1.Trade
	bids   []marketdatav1.DepthEntry
	asks   []marketdatav1.DepthEntry
}

// NewCollector creates a collector publishing through the given publisher.
func NewCollector(publisher marketdatav1.Publisher) *Collector {
	return &Collector{publisher: publisher}
}

// OnTrade implements orderbookv1.EventListener.
func (c *Collector) OnTrade(p int64, quantity int32) {
	c.trades = append(c.trades, marketdatav1.Trade{
		Price:    price.Price(p),
		Quantity: quantity,
	})
}

// OnDepth implements orderbookv1.EventListener.
func (c *Collector) OnDepth(side orderbookv1.Side, action orderbookv1.DepthAction, p int64, quantity int32) {
	entry := marketdatav1.DepthEntry{
		Action:   string(action),
		Price:    price.Price(p),
		Quantity: quantity,
	}
	if side == orderbookv1.SideBuy {
		c.bids = append(c.bids, entry)
	} else {
		c.asks = append(c.asks, entry)
	}
}

// Flush publishes everything buffered since the last flush and clears the
// buffers. Buffers are cleared even on error: the book state is already
// committed, market data is advisory and never replayed.
func (c *Collector) Flush(ctx context.Context) error {
	defer c.Reset()

	for i := range c.trades {
		if err := c.publisher.PublishTrade(ctx, &c.trades[i]); err != nil {
			return err
		}
	}

	if len(c.bids) == 0 && len(c.asks) == 0 {
		return nil
	}
	update := &marketdatav1.DepthUpdate{
		Bid: c.bids,
		Ask: c.asks,
	}
	return c.publisher.PublishDepthUpdate(ctx, update)
}

// Reset discards all buffered notifications.
func (c *Collector) Reset() {
	c.trades = nil
	c.bids = nil
	c.asks = nil
}
