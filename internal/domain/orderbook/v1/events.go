package orderbookv1

// DepthAction describes how a price level changed.
type DepthAction string

const (
	// ActionAdd is a new resting order at a price level.
	ActionAdd DepthAction = "ADD"
	// ActionModify is a quantity change for a resting order.
	ActionModify DepthAction = "MODIFY"
	// ActionDelete is the removal of a resting order from its level.
	ActionDelete DepthAction = "DELETE"
)

// EventListener receives the book's trade and depth notifications. Calls are
// synchronous and happen after the corresponding book mutation is committed;
// listener failures must be handled by the listener itself and can never
// corrupt book state.
type EventListener interface {
	// OnTrade is emitted for every fill, at the resting order's price.
	OnTrade(price int64, quantity int32)
	// OnDepth is emitted for every resting-order lifecycle change on the given side.
	OnDepth(side Side, action DepthAction, price int64, quantity int32)
}

// NopListener discards all events. Used when no market data sink is attached.
type NopListener struct{}

// OnTrade implements EventListener.
func (NopListener) OnTrade(price int64, quantity int32) {}

// OnDepth implements EventListener.
func (NopListener) OnDepth(side Side, action DepthAction, price int64, quantity int32) {}
