package snapshotv1

// BookOrder is one resting order captured at session close, in book order
// (price priority, then queue order within a level).
type BookOrder struct {
	OrderID  uint64 `json:"orderID"`
	Side     string `json:"side"`
	Price    int64  `json:"price"`
	OpenQty  int32  `json:"openQty"`
	TotalQty int32  `json:"totalQty"`
	Display  int32  `json:"display"`
	Iceberg  bool   `json:"iceberg,omitempty"`
}

// Snapshot is the good-till-cancel carryover for one instrument: the GTC
// orders still resting when the trading session closed, replayed into the
// book at the next session start in the same order.
type Snapshot struct {
	Symbol  string      `json:"symbol"`
	TakenAt int64       `json:"takenAt"`
	Offset  int64       `json:"offset"`
	Orders  []BookOrder `json:"orders"`
}
