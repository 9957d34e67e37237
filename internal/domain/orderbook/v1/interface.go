package orderbookv1

import snapshotv1 "github.com/quantfold/matching-engine/internal/domain/snapshot/v1"

// Book defines the interface of the single-instrument limit order book.
// Implementations are single-writer: the caller serializes all mutations.
type Book interface {
	// Add processes a validated order record: cancels delegate to Cancel,
	// crossing orders are matched against the opposite side, and any
	// non-IOC remainder rests in the book. Reports whether any quantity
	// was matched.
	Add(order *Order) (bool, error)
	// Cancel deactivates a resting order by id. Unknown or already inactive
	// ids are a silent no-op.
	Cancel(orderID uint64)
	// BestBid returns the highest occupied bid price, if any.
	BestBid() (int64, bool)
	// BestAsk returns the lowest occupied ask price, if any.
	BestAsk() (int64, bool)
	// CreateSnapshot captures resting GTC orders in book order.
	CreateSnapshot() *snapshotv1.Snapshot
	// Restore replays a snapshot's orders into an empty book.
	Restore(snapshot *snapshotv1.Snapshot) error
}
