// Package ticks loads and applies the exchange tick size schedule: a contiguous
// list of price bands, each mandating the price increment for limit prices
// falling inside it.
package ticks

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/quantfold/matching-engine/pkg/price"
)

var (
	// ErrEmptySchedule is returned when the schedule contains no bands.
	ErrEmptySchedule = errors.New("tick schedule is empty")
	// ErrGappedSchedule is returned when the bands do not cover a contiguous price range.
	ErrGappedSchedule = errors.New("tick schedule has gaps or overlaps")
	// ErrTickViolation is returned when a price does not sit on a mandated tick.
	ErrTickViolation = errors.New("price does not match tick size rule")
)

// Tick is one band of the schedule. The last band may omit ToPrice, in which
// case it extends to the top of the price range.
type Tick struct {
	FromPrice price.Price `json:"from_price"`
	ToPrice   price.Price `json:"to_price,omitempty"`
	TickSize  float64     `json:"tick_size"`
}

// Rule is a validated tick size schedule.
type Rule struct {
	ticks []Tick
}

// Load reads and validates a schedule from a JSON file.
//
// Example file:
//
//	[
//	  {"from_price": "0", "to_price": "1", "tick_size": 0.0001},
//	  {"from_price": "1", "tick_size": 0.01}
//	]
func Load(path string) (*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tick schedule %s: %w", path, err)
	}
	return FromJSON(data)
}

// FromJSON parses and validates a schedule from raw JSON.
func FromJSON(data []byte) (*Rule, error) {
	var ticks []Tick
	if err := json.Unmarshal(data, &ticks); err != nil {
		return nil, fmt.Errorf("parse tick schedule: %w", err)
	}
	if len(ticks) == 0 {
		return nil, ErrEmptySchedule
	}

	sort.Slice(ticks, func(i, j int) bool { return ticks[i].FromPrice < ticks[j].FromPrice })

	for i := 0; i < len(ticks)-1; i++ {
		if ticks[i].FromPrice >= ticks[i].ToPrice {
			return nil, fmt.Errorf("%w: band %d is empty", ErrGappedSchedule, i)
		}
		if ticks[i].ToPrice != ticks[i+1].FromPrice {
			return nil, fmt.Errorf("%w: band %d ends at %s, next begins at %s",
				ErrGappedSchedule, i, ticks[i].ToPrice, ticks[i+1].FromPrice)
		}
	}

	return &Rule{ticks: ticks}, nil
}

// Ticks returns the schedule's bands in ascending price order.
func (r *Rule) Ticks() []Tick {
	return r.ticks
}

// Conform reports whether p sits on a mandated tick of its band.
func (r *Rule) Conform(p price.Price) error {
	i := sort.Search(len(r.ticks), func(i int) bool { return r.ticks[i].FromPrice > p })
	if i == 0 {
		return fmt.Errorf("%w: %s below schedule", ErrTickViolation, p)
	}
	tickSize := r.ticks[i-1].TickSize

	numTicks := float64(p.Unscaled()) / price.Scale / tickSize
	if math.Abs(numTicks-math.Round(numTicks)) > 1e-6 {
		return fmt.Errorf("%w: %s is not a multiple of %v", ErrTickViolation, p, tickSize)
	}
	return nil
}
