package orderbook

import "sort"

// compactRatio triggers level compaction once tombstones outnumber half the
// queued ids, bounding the memory a cancel-heavy session can pin.
const compactRatio = 2

// level is one price level: a FIFO of order ids with a consumed prefix.
// Cancelled ids stay queued as tombstones until the walk reaches them or the
// level is compacted.
type level struct {
	ids  []uint64
	head int
	dead int
}

func (l *level) size() int {
	return len(l.ids) - l.head
}

func (l *level) empty() bool {
	return l.head >= len(l.ids)
}

// Ladder indexes price levels directly by price. Prices below the window
// bound hit a flat array in O(1); the rare tail beyond it falls back to a
// sparse map. Prices are validated against maxPrice by the caller.
type Ladder struct {
	window   []level
	overflow map[int64]*level
	maxPrice int64
}

// NewLadder creates a ladder for prices in [1, maxPrice] with the given
// dense window size.
func NewLadder(window, maxPrice int64) *Ladder {
	if window <= 0 || window > maxPrice+1 {
		window = maxPrice + 1
	}
	return &Ladder{
		window:   make([]level, window),
		overflow: make(map[int64]*level),
		maxPrice: maxPrice,
	}
}

// at returns the level for price, or nil if none has been created.
func (l *Ladder) at(price int64) *level {
	if price < int64(len(l.window)) {
		return &l.window[price]
	}
	return l.overflow[price]
}

func (l *Ladder) create(price int64) *level {
	if price < int64(len(l.window)) {
		return &l.window[price]
	}
	lv := l.overflow[price]
	if lv == nil {
		lv = &level{}
		l.overflow[price] = lv
	}
	return lv
}

// PushBack appends an order id to the tail of the price level's queue.
func (l *Ladder) PushBack(price int64, id uint64) {
	l.create(price).PushBack(id)
}

func (l *level) PushBack(id uint64) {
	l.ids = append(l.ids, id)
}

// Front returns the id at the head of the price level's queue, if any.
func (l *Ladder) Front(price int64) (uint64, bool) {
	lv := l.at(price)
	if lv == nil || lv.empty() {
		return 0, false
	}
	return lv.ids[lv.head], true
}

// PopFront removes the head of the price level's queue. Empties reset the
// level so its backing array can be reclaimed.
func (l *Ladder) PopFront(price int64) {
	lv := l.at(price)
	if lv == nil || lv.empty() {
		return
	}
	lv.head++
	if lv.empty() {
		l.Clear(price)
	}
}

// Clear resets the price level to empty.
func (l *Ladder) Clear(price int64) {
	if price < int64(len(l.window)) {
		l.window[price] = level{}
		return
	}
	delete(l.overflow, price)
}

// Empty reports whether the price level holds no queued ids. Tombstoned ids
// still count until the walk or compaction removes them.
func (l *Ladder) Empty(price int64) bool {
	lv := l.at(price)
	return lv == nil || lv.empty()
}

// MarkTombstone records that a queued id at this price was deactivated in
// place. Once tombstones dominate the queue the level is compacted, keeping
// the surviving ids in arrival order.
func (l *Ladder) MarkTombstone(price int64, active func(uint64) bool) {
	lv := l.at(price)
	if lv == nil || lv.empty() {
		return
	}

	lv.dead++
	if lv.dead*compactRatio <= lv.size() {
		return
	}

	kept := make([]uint64, 0, lv.size())
	for _, id := range lv.ids[lv.head:] {
		if active(id) {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		l.Clear(price)
		return
	}
	lv.ids = kept
	lv.head = 0
	lv.dead = 0
}

// Ascend visits every queued id in ascending price order, queue order within
// a level. The visit stops early when fn returns false.
func (l *Ladder) Ascend(fn func(price int64, id uint64) bool) {
	for price := int64(1); price < int64(len(l.window)); price++ {
		lv := &l.window[price]
		for _, id := range lv.ids[lv.head:] {
			if !fn(price, id) {
				return
			}
		}
	}

	prices := make([]int64, 0, len(l.overflow))
	for price := range l.overflow {
		prices = append(prices, price)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })
	for _, price := range prices {
		lv := l.overflow[price]
		for _, id := range lv.ids[lv.head:] {
			if !fn(price, id) {
				return
			}
		}
	}
}
