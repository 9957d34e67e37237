package marketdatav1

import "context"

// Publisher defines the interface for publishing market data messages.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=marketdatav1_mock
type Publisher interface {
	// PublishTrade publishes one trade message
	PublishTrade(ctx context.Context, trade *Trade) error
	// PublishDepthUpdate publishes one aggregated depth update
	PublishDepthUpdate(ctx context.Context, update *DepthUpdate) error
}
