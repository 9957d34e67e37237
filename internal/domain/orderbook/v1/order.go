package orderbookv1

// Side represents which side of the book an order belongs to.
type Side uint8

const (
	// SideUnknown is the zero value for Side.
	SideUnknown Side = iota
	// SideBuy represents a buy (bid) order.
	SideBuy
	// SideSell represents a sell (ask) order.
	SideSell
)

// String returns the wire representation of the side.
func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// SideFromString parses the wire representation of a side.
func SideFromString(s string) Side {
	switch s {
	case "BUY":
		return SideBuy
	case "SELL":
		return SideSell
	default:
		return SideUnknown
	}
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUnknown
	}
}

// OrderType represents the type of order.
type OrderType uint8

const (
	// OrderTypeUnknown is the zero value for OrderType.
	OrderTypeUnknown OrderType = iota
	// OrderTypeMarket represents a market order.
	OrderTypeMarket
	// OrderTypeLimit represents a limit order.
	OrderTypeLimit
	// OrderTypeIceberg represents an iceberg order.
	OrderTypeIceberg
)

// OrderStatus distinguishes new orders from cancel requests.
type OrderStatus uint8

const (
	// OrderStatusUnknown is the zero value for OrderStatus.
	OrderStatusUnknown OrderStatus = iota
	// OrderStatusNew represents a new order instruction.
	OrderStatusNew
	// OrderStatusCancel represents a cancel-by-id instruction.
	OrderStatusCancel
)

// TimeInForce represents how long an order stays eligible for matching.
type TimeInForce uint8

const (
	// TIFUnknown is the zero value for TimeInForce.
	TIFUnknown TimeInForce = iota
	// TIFDay rests in the book until executed or the end of the trading day.
	TIFDay
	// TIFIOC discards any remainder left after matching against the book.
	TIFIOC
	// TIFGTC persists across trading days until matched or cancelled.
	TIFGTC
)

// Order is a validated, immutable-after-construction instruction: a new
// limit/market/iceberg order or a cancel-by-id. The book trusts its invariants
// (positive quantities, tick-conformant positive price for limit orders);
// validation happens upstream in the order reader.
type Order struct {
	Timestamp int64
	ID        uint64
	Symbol    string
	Side      Side
	Type      OrderType
	Status    OrderStatus
	TIF       TimeInForce

	// Price is the scaled limit price; 0 for market orders.
	Price int64
	// Quantity is the total quantity, hidden portion included.
	Quantity int32
	// Display is the displayed quantity. Equal to Quantity unless iceberg.
	Display int32
}

// IsBuy reports whether the order is on the buy side.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsLimit reports whether the order carries a limit price.
func (o *Order) IsLimit() bool {
	return o.Price > 0
}

// ImmediateOrCancel reports whether any unmatched remainder must be discarded.
// Market orders are IOC by construction: leftover market quantity never rests.
func (o *Order) ImmediateOrCancel() bool {
	return o.TIF == TIFIOC || o.Type == OrderTypeMarket
}

// GoodTillCancel reports whether the order persists across trading days.
func (o *Order) GoodTillCancel() bool {
	return o.TIF == TIFGTC
}
