package orderbook

import (
	"errors"
	"fmt"

	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

var (
	// ErrArenaCapacity is returned when an order id exceeds the configured arena capacity.
	ErrArenaCapacity = errors.New("order id exceeds arena capacity")
	// ErrDuplicateOrderID is returned when an order id is already resting in the arena.
	ErrDuplicateOrderID = errors.New("order id already allocated")
	// ErrEntryNotFound is returned when an arena mutation targets an unknown id.
	ErrEntryNotFound = errors.New("entry not found in arena")
	// ErrQuantityUnderflow is returned when a fill would push open quantity below zero.
	// It indicates a bug in the matching walk, not a recoverable condition.
	ErrQuantityUnderflow = errors.New("fill larger than open quantity")
)

// Arena is the fixed-capacity, order-id-indexed store of resting order state.
// Order ids double as slot indices; id 0 is reserved and ids are never reused.
type Arena struct {
	entries []orderbookv1.BookEntry
}

// NewArena creates an arena that accepts order ids in [1, capacity].
func NewArena(capacity uint64) *Arena {
	return &Arena{
		entries: make([]orderbookv1.BookEntry, capacity+1),
	}
}

// Capacity returns the highest order id the arena accepts.
func (a *Arena) Capacity() uint64 {
	return uint64(len(a.entries)) - 1
}

// Allocate stores a resting entry under its order id and returns the stored
// entry. Rejects ids beyond capacity and ids already occupied, without
// mutating any state.
func (a *Arena) Allocate(id uint64, entry orderbookv1.BookEntry) (*orderbookv1.BookEntry, error) {
	if id == 0 || id >= uint64(len(a.entries)) {
		return nil, fmt.Errorf("%w: id %d, capacity %d", ErrArenaCapacity, id, a.Capacity())
	}

	slot := &a.entries[id]
	if slot.OrderID != 0 {
		return nil, fmt.Errorf("%w: id %d", ErrDuplicateOrderID, id)
	}

	*slot = entry
	slot.OrderID = id
	return slot, nil
}

// Get returns the entry stored under id, or nil if the id was never allocated.
func (a *Arena) Get(id uint64) *orderbookv1.BookEntry {
	if id == 0 || id >= uint64(len(a.entries)) {
		return nil
	}

	entry := &a.entries[id]
	if entry.OrderID == 0 {
		return nil
	}
	return entry
}

// Reduce decrements the entry's open and total quantity by a fill. Open
// quantity must never go negative; a violation aborts the operation.
func (a *Arena) Reduce(id uint64, qty int32) error {
	entry := a.Get(id)
	if entry == nil {
		return fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}
	if qty < 0 || qty > entry.OpenQty {
		return fmt.Errorf("%w: id %d, fill %d, open %d", ErrQuantityUnderflow, id, qty, entry.OpenQty)
	}

	entry.OpenQty -= qty
	entry.TotalQty -= qty
	return nil
}

// Deactivate forces the entry's quantities to zero. Used by cancel and by
// full fills; unknown ids are ignored.
func (a *Arena) Deactivate(id uint64) {
	if entry := a.Get(id); entry != nil {
		entry.OpenQty = 0
		entry.TotalQty = 0
	}
}
