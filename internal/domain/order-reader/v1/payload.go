package orderreaderv1

import (
	"errors"
	"fmt"

	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantfold/matching-engine/pkg/price"
	"github.com/quantfold/matching-engine/pkg/ticks"
)

var (
	// ErrBadTimestamp is returned when the order timestamp is missing or not positive.
	ErrBadTimestamp = errors.New("order has a bad timestamp")
	// ErrBadOrderID is returned when the order id is missing or zero.
	ErrBadOrderID = errors.New("order has a bad id")
	// ErrBadType is returned when the message type is neither NEW nor CANCEL.
	ErrBadType = errors.New("order has a bad type")
	// ErrBadOrderType is returned when the order type is not MARKET, LIMIT or ICEBERG.
	ErrBadOrderType = errors.New("order has a bad order_type")
	// ErrBadSide is returned when the side is neither BUY nor SELL.
	ErrBadSide = errors.New("order has a bad side")
	// ErrBadTIF is returned when the time-in-force is not DAY, IOC or GTC.
	ErrBadTIF = errors.New("order has a bad time-in-force")
	// ErrBadQuantity is returned when a quantity is missing, not positive or not round lot.
	ErrBadQuantity = errors.New("order has a bad quantity")
	// ErrBadPrice is returned when the limit price is missing, not positive or off tick.
	ErrBadPrice = errors.New("order has a bad limit price")
	// ErrIcebergIOC is returned for the forbidden iceberg/IOC combination.
	ErrIcebergIOC = errors.New("an iceberg order cannot be an IOC order")
)

// PlaceOrderPayload is the wire form of one order instruction as consumed from
// the order topic. CANCEL messages carry only time, order_id and type; any
// other attribute on them is ignored.
type PlaceOrderPayload struct {
	Time       int64  `json:"time"`
	OrderID    uint64 `json:"order_id"`
	Type       string `json:"type"`
	Symbol     string `json:"symbol,omitempty"`
	OrderType  string `json:"order_type,omitempty"`
	LimitPrice string `json:"limit_price,omitempty"`
	Side       string `json:"side,omitempty"`
	TIF        string `json:"tif,omitempty"`
	Quantity   int32  `json:"quantity,omitempty"`
	Display    int32  `json:"display,omitempty"`
	Hidden     int32  `json:"hidden,omitempty"`

	// Offset is the kafka offset the payload was read from.
	Offset int64 `json:"-"`
}

// ToOrder validates the payload against the tick schedule and lot size and
// builds the order record the book consumes. The book trusts these invariants,
// so every rejection has to happen here.
func (p *PlaceOrderPayload) ToOrder(rule *ticks.Rule, lotSize int32) (*orderbookv1.Order, error) {
	if p.Time <= 0 {
		return nil, ErrBadTimestamp
	}
	if p.OrderID == 0 {
		return nil, ErrBadOrderID
	}

	order := &orderbookv1.Order{
		Timestamp: p.Time,
		ID:        p.OrderID,
		Symbol:    p.Symbol,
	}

	switch p.Type {
	case "NEW":
		order.Status = orderbookv1.OrderStatusNew
	case "CANCEL":
		// cancels need nothing beyond the id
		order.Status = orderbookv1.OrderStatusCancel
		return order, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadType, p.Type)
	}

	order.Side = orderbookv1.SideFromString(p.Side)
	if order.Side == orderbookv1.SideUnknown {
		return nil, fmt.Errorf("%w: %q", ErrBadSide, p.Side)
	}

	if lotSize <= 0 {
		lotSize = 1
	}

	orderType := p.OrderType
	if orderType == "" {
		// limit orders may omit the order_type attribute
		orderType = "LIMIT"
	}
	switch orderType {
	case "MARKET":
		// the limit_price attribute has no significance on market orders and
		// leftover quantity never rests
		order.Type = orderbookv1.OrderTypeMarket
		order.TIF = orderbookv1.TIFIOC
		if err := checkRoundLot(p.Quantity, lotSize); err != nil {
			return nil, err
		}
		order.Quantity = p.Quantity
		order.Display = p.Quantity
		return order, nil
	case "LIMIT":
		order.Type = orderbookv1.OrderTypeLimit
	case "ICEBERG":
		order.Type = orderbookv1.OrderTypeIceberg
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadOrderType, p.OrderType)
	}

	px, err := price.Parse(p.LimitPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPrice, err)
	}
	if px <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadPrice, p.LimitPrice)
	}
	if err := rule.Conform(px); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPrice, err)
	}
	order.Price = px.Unscaled()

	switch p.TIF {
	case "", "DAY":
		// DAY orders may omit the tif attribute
		order.TIF = orderbookv1.TIFDay
	case "IOC":
		order.TIF = orderbookv1.TIFIOC
	case "GTC":
		order.TIF = orderbookv1.TIFGTC
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadTIF, p.TIF)
	}

	if order.Type == orderbookv1.OrderTypeLimit {
		if err := checkRoundLot(p.Quantity, lotSize); err != nil {
			return nil, err
		}
		order.Quantity = p.Quantity
		order.Display = p.Quantity
		return order, nil
	}

	// iceberg: displayed and hidden tranches are validated separately
	if order.TIF == orderbookv1.TIFIOC {
		return nil, ErrIcebergIOC
	}
	if err := checkRoundLot(p.Display, lotSize); err != nil {
		return nil, fmt.Errorf("display: %w", err)
	}
	if err := checkRoundLot(p.Hidden, lotSize); err != nil {
		return nil, fmt.Errorf("hidden: %w", err)
	}
	order.Display = p.Display
	order.Quantity = p.Display + p.Hidden
	return order, nil
}

func checkRoundLot(qty, lotSize int32) error {
	if qty <= 0 {
		return fmt.Errorf("%w: %d", ErrBadQuantity, qty)
	}
	if qty%lotSize != 0 {
		return fmt.Errorf("%w: %d is not round lot of %d", ErrBadQuantity, qty, lotSize)
	}
	return nil
}
