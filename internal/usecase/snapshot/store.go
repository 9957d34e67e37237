package snapshot

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/quantfold/matching-engine/internal/domain/snapshot/v1"
	"github.com/quantfold/matching-engine/pkg/errors"
	"github.com/quantfold/matching-engine/pkg/logger"
	"github.com/quantfold/matching-engine/pkg/redis"
)

const keyPrefix = "carryover:"

// Store persists the GTC carryover snapshot in redis, keyed by symbol.
type Store struct {
	symbol      string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewStore creates a snapshot store for one instrument.
func NewStore(redisclient redis.Client, symbol string, log *logger.Logger) *Store {
	return &Store{
		symbol:      symbol,
		redisclient: redisclient,
		logger:      log,
	}
}

func (s *Store) key() string {
	return keyPrefix + s.symbol
}

// Save serializes the snapshot and stores it in redis. The previous carryover
// is overwritten: only the latest session close matters.
func (s *Store) Save(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "symbol", Value: s.symbol})
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.key(), buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "symbol", Value: s.symbol})
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, "snapshot stored",
		logger.Field{Key: "symbol", Value: s.symbol},
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return nil
}

// Load reads the carryover snapshot from redis. A missing snapshot is not an
// error: the first session of an instrument starts with an empty book.
func (s *Store) Load(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.key())
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "symbol", Value: s.symbol})
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, "no snapshot found",
			logger.Field{Key: "symbol", Value: s.symbol},
		)
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "symbol", Value: s.symbol})
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}

	s.logger.InfoContext(ctx, "snapshot loaded",
		logger.Field{Key: "symbol", Value: s.symbol},
		logger.Field{Key: "orders", Value: len(snapshot.Orders)},
	)
	return &snapshot, nil
}
