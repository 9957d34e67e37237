package marketdatav1

import (
	"encoding/json"

	"github.com/quantfold/matching-engine/pkg/price"
)

// Message types on the market data topic.
const (
	TypeTrade       = "TRADE"
	TypeDepthUpdate = "DEPTH_UPDATE"
)

// Trade is published for every fill. Price is the resting order's limit price,
// formatted as a decimal string.
type Trade struct {
	Type     string      `json:"type"`
	EventID  string      `json:"event_id"`
	Price    price.Price `json:"price"`
	Quantity int32       `json:"quantity"`
}

// DepthEntry is one resting-order change at a price level.
type DepthEntry struct {
	Action   string      `json:"action"` // ADD, MODIFY or DELETE
	Price    price.Price `json:"price"`
	Quantity int32       `json:"quantity"`
}

// DepthUpdate aggregates every depth change caused by processing one order,
// split by side.
type DepthUpdate struct {
	Type    string       `json:"type"`
	EventID string       `json:"event_id"`
	Bid     []DepthEntry `json:"bid"`
	Ask     []DepthEntry `json:"ask"`
}

// ToBytes serializes a message for the wire.
func ToBytes(v any) []byte {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return buf
}
