package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	orderreaderv1 "github.com/quantfold/matching-engine/internal/domain/order-reader/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	snapshotv1 "github.com/quantfold/matching-engine/internal/domain/snapshot/v1"
	"github.com/quantfold/matching-engine/internal/usecase/marketdata"
	"github.com/quantfold/matching-engine/internal/usecase/orderbook"
	"github.com/quantfold/matching-engine/pkg/config"
	pkgerrors "github.com/quantfold/matching-engine/pkg/errors"
	"github.com/quantfold/matching-engine/pkg/logger"
	"github.com/quantfold/matching-engine/pkg/ticks"
)

// Engine wires the order stream into the book and the book's notifications
// out to market data. It is the single writer: exactly one goroutine applies
// orders to the book, so the book itself needs no locking.
type Engine struct {
	book          orderbookv1.Book
	orderReader   orderreaderv1.OrderReader
	collector     *marketdata.Collector
	snapshotStore snapshotv1.Store
	logger        *logger.Logger
	config        *config.Config
	tickRule      *ticks.Rule
	options       *Options

	// bookMu serializes book access between the order processor and the
	// snapshot loop; the book itself is single-writer and lock-free.
	bookMu sync.Mutex

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64
	totalMatches       int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEngine creates an engine with default options.
func NewEngine(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	collector *marketdata.Collector,
	log *logger.Logger,
	cfg *config.Config,
	tickRule *ticks.Rule,
) *Engine {
	return NewEngineWithOptions(book, orderReader, snapshotStore, collector, log, cfg, tickRule, DefaultEngineOptions())
}

// NewEngineWithOptions creates an engine with explicit options.
func NewEngineWithOptions(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	snapshotStore snapshotv1.Store,
	collector *marketdata.Collector,
	log *logger.Logger,
	cfg *config.Config,
	tickRule *ticks.Rule,
	options *Options,
) *Engine {
	return &Engine{
		book:          book,
		orderReader:   orderReader,
		snapshotStore: snapshotStore,
		collector:     collector,
		logger:        log,
		config:        cfg,
		tickRule:      tickRule,
		options:       options,
	}
}

// Start restores the carryover snapshot, seeks the order stream to the
// snapshot offset and launches the processing goroutines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	snap, err := e.snapshotStore.Load(e.ctx)
	if err != nil {
		return err
	}
	if snap != nil {
		if err := e.book.Restore(snap); err != nil {
			return err
		}
		// discard the depth events emitted while rebuilding the book
		e.collector.Reset()

		if err := e.orderReader.SetOffset(snap.Offset + 1); err != nil {
			return err
		}
		e.setOrderOffset(snap.Offset)
		e.setLastSnapshotOffset(snap.Offset)

		e.logger.InfoContext(e.ctx, "book restored from carryover",
			logger.Field{Key: "symbol", Value: snap.Symbol},
			logger.Field{Key: "orders", Value: len(snap.Orders)},
			logger.Field{Key: "offset", Value: snap.Offset},
		)
	}

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runSnapshotLoop()

	e.logger.InfoContext(e.ctx, "engine started",
		logger.Field{Key: "symbol", Value: e.config.Symbol},
	)
	return nil
}

// Stop shuts the goroutines down, takes a final carryover snapshot and closes
// the order stream.
func (e *Engine) Stop(ctx context.Context) error {
	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		e.logger.WarnContext(ctx, "engine stop timed out waiting for workers")
	}

	if err := e.createAndStoreSnapshot(ctx); err != nil {
		return err
	}
	return e.orderReader.Close()
}

func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	for {
		msg, payload, err := e.orderReader.ReadMessage(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			// read and decode failures are logged by the reader; the stream
			// itself stays usable
			continue
		}

		if err := e.processOrder(payload); err != nil {
			e.logger.ErrorContext(e.ctx, err,
				logger.Field{Key: "orderID", Value: payload.OrderID},
				logger.Field{Key: "offset", Value: msg.Offset},
				logger.Field{Key: "code", Value: string(bookErrorCode(err))},
			)
		}

		_ = e.orderReader.CommitMessages(e.ctx, msg)
	}
}

// processOrder validates one payload and applies it to the book. Rejected
// orders are logged and skipped; they are not engine failures.
func (e *Engine) processOrder(payload *orderreaderv1.PlaceOrderPayload) error {
	order, err := payload.ToOrder(e.tickRule, e.config.LotSize)
	if err != nil {
		e.logger.WarnContext(e.ctx, "order rejected",
			logger.Field{Key: "orderID", Value: payload.OrderID},
			logger.Field{Key: "code", Value: string(pkgerrors.OrderRejected)},
			logger.Field{Key: "reason", Value: err.Error()},
		)
		e.setOrderOffset(payload.Offset)
		return nil
	}

	e.bookMu.Lock()
	matched, err := e.book.Add(order)
	e.bookMu.Unlock()
	if err != nil {
		// the book is untouched on error; drop anything buffered just in case
		e.collector.Reset()
		e.setOrderOffset(payload.Offset)
		return err
	}

	e.setOrderOffset(payload.Offset)
	if matched {
		e.mu.Lock()
		e.totalMatches++
		e.mu.Unlock()
	}

	if err := e.collector.Flush(e.ctx); err != nil {
		// market data is advisory, the fill already happened
		e.logger.ErrorContext(e.ctx, err,
			logger.Field{Key: "orderID", Value: order.ID},
		)
	}
	return nil
}

// bookErrorCode classifies a book error for structured logging.
func bookErrorCode(err error) pkgerrors.ErrorCode {
	switch {
	case errors.Is(err, orderbook.ErrArenaCapacity):
		return pkgerrors.EngineCapacityExceeded
	case errors.Is(err, orderbook.ErrPriceOutOfRange):
		return pkgerrors.EnginePriceOutOfRange
	default:
		return pkgerrors.EngineInvariantViolation
	}
}

func (e *Engine) runSnapshotLoop() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			if e.GetOrderOffset()-e.GetLastSnapshotOffset() < e.options.SnapshotOffsetDelta {
				continue
			}
			if err := e.createAndStoreSnapshot(e.ctx); err != nil {
				e.logger.ErrorContext(e.ctx, err)
			}
		}
	}
}

func (e *Engine) createAndStoreSnapshot(ctx context.Context) error {
	e.bookMu.Lock()
	snap := e.book.CreateSnapshot()
	e.bookMu.Unlock()
	snap.TakenAt = time.Now().Unix()
	snap.Offset = e.GetOrderOffset()

	if err := e.snapshotStore.Save(ctx, snap); err != nil {
		return err
	}
	e.setLastSnapshotOffset(snap.Offset)
	return nil
}

// GetOrderOffset returns the offset of the last order handed to the book.
func (e *Engine) GetOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

// GetLastSnapshotOffset returns the offset covered by the latest stored snapshot.
func (e *Engine) GetLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

// GetTotalMatches returns how many processed orders matched at least once.
func (e *Engine) GetTotalMatches() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalMatches
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

func (e *Engine) setLastSnapshotOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotOffset = offset
}
