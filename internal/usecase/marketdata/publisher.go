package marketdata

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/errors"
	"github.com/quantfold/matching-engine/pkg/logger"
)

// Publisher writes market data messages to the market data topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a kafka publisher for the market data topic.
func NewPublisher(cfg config.MarketDataConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTrade publishes one trade message. The event id is assigned here.
func (p *Publisher) PublishTrade(ctx context.Context, trade *marketdatav1.Trade) error {
	trade.Type = marketdatav1.TypeTrade
	trade.EventID = ulid.Make().String()

	msg := kafka.Message{
		Key:   []byte(trade.EventID),
		Value: marketdatav1.ToBytes(trade),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "eventID", Value: trade.EventID},
			logger.Field{Key: "price", Value: trade.Price.String()},
			logger.Field{Key: "quantity", Value: trade.Quantity},
		)
		return errors.NewErrorDetails("Failed to publish trade", string(errors.KafkaPublishError), "trade")
	}
	return nil
}

// PublishDepthUpdate publishes one aggregated depth update.
func (p *Publisher) PublishDepthUpdate(ctx context.Context, update *marketdatav1.DepthUpdate) error {
	update.Type = marketdatav1.TypeDepthUpdate
	update.EventID = ulid.Make().String()

	msg := kafka.Message{
		Key:   []byte(update.EventID),
		Value: marketdatav1.ToBytes(update),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "eventID", Value: update.EventID},
			logger.Field{Key: "bids", Value: len(update.Bid)},
			logger.Field{Key: "asks", Value: len(update.Ask)},
		)
		return errors.NewErrorDetails("Failed to publish depth update", string(errors.KafkaPublishError), "depth_update")
	}
	return nil
}

// Close flushes and closes the kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
