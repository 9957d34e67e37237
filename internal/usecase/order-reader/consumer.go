package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/quantfold/matching-engine/internal/domain/order-reader/v1"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/logger"
)

// Reader consumes order instructions from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a kafka reader for the order topic. It returns an
// implementation of the OrderReader interface.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	// The engine seeks to the offset recorded in the carryover snapshot, and
	// kafka-go disallows SetOffset on group consumers. A single partition per
	// instrument keeps ordering anyway, so the reader pins partition 0.
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads one message from the order topic and parses it as a
// PlaceOrderPayload.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderPayload, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logError(err, "ReadMessage")
		}
		return kafka.Message{}, nil, err
	}

	var payload orderreaderv1.PlaceOrderPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		r.logError(err, "UnmarshalOrder")
		return msg, nil, err
	}

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "orderID", Value: payload.OrderID},
		logger.Field{Key: "type", Value: payload.Type},
		logger.Field{Key: "side", Value: payload.Side},
		logger.Field{Key: "quantity", Value: payload.Quantity},
		logger.Field{Key: "limitPrice", Value: payload.LimitPrice},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	payload.Offset = msg.Offset

	return msg, &payload, nil
}

// CommitMessages is a no-op: without a consumer group there is nothing to
// commit, the processed offset lives in the carryover snapshot instead.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}

// Close properly closes the kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
