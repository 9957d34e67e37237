package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/quantfold/matching-engine/internal/domain/order-reader/v1"
)

// generator produces a synthetic order stream: a mix of new limit, market and
// iceberg orders plus cancels against ids it has emitted before. Roughly 40%
// of messages are cancels, matching empirically observed order flow.
type generator struct {
	rng         *rand.Rand
	symbol      string
	lot         int32
	basePrice   float64
	sigma       float64
	cancelRatio float64

	nextID  uint64
	openIDs []uint64
}

// genPrice draws a lognormal price around the base price and snaps it to the
// one-cent tick the schedule mandates above $1.
func (g *generator) genPrice() string {
	px := g.basePrice * math.Exp(g.rng.NormFloat64()*g.sigma)
	cents := int64(math.Round(px * 100))
	if cents < 100 {
		cents = 100
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func (g *generator) genQuantity() int32 {
	return (g.rng.Int31n(100) + 1) * g.lot
}

func (g *generator) genCancel(now int64) *orderreaderv1.PlaceOrderPayload {
	i := g.rng.Intn(len(g.openIDs))
	id := g.openIDs[i]
	g.openIDs[i] = g.openIDs[len(g.openIDs)-1]
	g.openIDs = g.openIDs[:len(g.openIDs)-1]

	return &orderreaderv1.PlaceOrderPayload{
		Time:    now,
		OrderID: id,
		Type:    "CANCEL",
	}
}

func (g *generator) next(now int64) *orderreaderv1.PlaceOrderPayload {
	if len(g.openIDs) > 0 && g.rng.Float64() < g.cancelRatio {
		return g.genCancel(now)
	}

	g.nextID++
	payload := &orderreaderv1.PlaceOrderPayload{
		Time:    now,
		OrderID: g.nextID,
		Type:    "NEW",
		Symbol:  g.symbol,
	}
	if g.rng.Float64() < 0.5 {
		payload.Side = "BUY"
	} else {
		payload.Side = "SELL"
	}

	switch roll := g.rng.Float64(); {
	case roll < 0.1:
		payload.OrderType = "MARKET"
		payload.Quantity = g.genQuantity()
		return payload
	case roll < 0.2:
		payload.OrderType = "ICEBERG"
		payload.LimitPrice = g.genPrice()
		payload.Display = g.genQuantity()
		payload.Hidden = g.genQuantity()
		if g.rng.Float64() < 0.5 {
			payload.TIF = "GTC"
		}
	default:
		payload.OrderType = "LIMIT"
		payload.LimitPrice = g.genPrice()
		payload.Quantity = g.genQuantity()
		switch tifRoll := g.rng.Float64(); {
		case tifRoll < 0.1:
			payload.TIF = "IOC"
		case tifRoll < 0.2:
			payload.TIF = "GTC"
		}
	}

	g.openIDs = append(g.openIDs, payload.OrderID)
	return payload
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		symbol      = flag.String("symbol", "AAPL", "Instrument symbol")
		count       = flag.Int("count", 1000, "Number of orders to generate")
		delay       = flag.Duration("delay", 10*time.Millisecond, "Delay between sending orders")
		basePrice   = flag.Float64("base-price", 140.0, "Base price for orders")
		sigma       = flag.Float64("sigma", 0.05, "Lognormal price volatility")
		cancelRatio = flag.Float64("cancel-ratio", 0.4, "Fraction of messages that are cancels")
		lot         = flag.Int("lot", 100, "Round lot size")
		seed        = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	gen := &generator{
		rng:         rand.New(rand.NewSource(*seed)),
		symbol:      *symbol,
		lot:         int32(*lot),
		basePrice:   *basePrice,
		sigma:       *sigma,
		cancelRatio: *cancelRatio,
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	log.Printf("Sending %d orders to %s, topic %s", *count, *brokers, *topic)

	var news, cancels int
	for i := 0; i < *count; i++ {
		payload := gen.next(time.Now().Unix())

		value, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Failed to marshal order %d: %v", payload.OrderID, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(fmt.Sprintf("%d", payload.OrderID)),
			Value: value,
			Time:  time.Now(),
		}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send order %d: %v", payload.OrderID, err)
			continue
		}

		if payload.Type == "CANCEL" {
			cancels++
		} else {
			news++
		}

		if (i+1)%100 == 0 || i == *count-1 {
			log.Printf("Sent %d/%d messages", i+1, *count)
		}

		if i < *count-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("--- Summary ---")
	log.Printf("Total messages: %d", news+cancels)
	log.Printf("New orders: %d", news)
	log.Printf("Cancels: %d", cancels)
}
