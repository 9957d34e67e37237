package marketdata

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	marketdatav1_mock "github.com/quantfold/matching-engine/internal/domain/marketdata/v1/mock"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantfold/matching-engine/pkg/price"
)

func TestCollector_FlushPublishesTradesThenDepth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPublisher := marketdatav1_mock.NewMockPublisher(ctrl)
	collector := NewCollector(mockPublisher)

	collector.OnTrade(1403000, 100)
	collector.OnTrade(1403000, 20)
	collector.OnDepth(orderbookv1.SideSell, orderbookv1.ActionDelete, 1403000, 0)
	collector.OnDepth(orderbookv1.SideSell, orderbookv1.ActionModify, 1403000, 80)
	collector.OnDepth(orderbookv1.SideBuy, orderbookv1.ActionAdd, 1402000, 50)

	gomock.InOrder(
		mockPublisher.EXPECT().
			PublishTrade(gomock.Any(), &marketdatav1.Trade{Price: 1403000, Quantity: 100}).
			Return(nil),
		mockPublisher.EXPECT().
			PublishTrade(gomock.Any(), &marketdatav1.Trade{Price: 1403000, Quantity: 20}).
			Return(nil),
		mockPublisher.EXPECT().
			PublishDepthUpdate(gomock.Any(), &marketdatav1.DepthUpdate{
				Bid: []marketdatav1.DepthEntry{
					{Action: "ADD", Price: 1402000, Quantity: 50},
				},
				Ask: []marketdatav1.DepthEntry{
					{Action: "DELETE", Price: 1403000, Quantity: 0},
					{Action: "MODIFY", Price: 1403000, Quantity: 80},
				},
			}).
			Return(nil),
	)

	require.NoError(t, collector.Flush(context.Background()))

	// buffers are cleared, a second flush publishes nothing
	require.NoError(t, collector.Flush(context.Background()))
}

func TestCollector_FlushNoDepthUpdateWhenEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPublisher := marketdatav1_mock.NewMockPublisher(ctrl)
	collector := NewCollector(mockPublisher)

	require.NoError(t, collector.Flush(context.Background()))
}

func TestCollector_FlushClearsOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPublisher := marketdatav1_mock.NewMockPublisher(ctrl)
	collector := NewCollector(mockPublisher)

	collector.OnTrade(1403000, 100)
	collector.OnDepth(orderbookv1.SideBuy, orderbookv1.ActionAdd, 1402000, 50)

	mockPublisher.EXPECT().
		PublishTrade(gomock.Any(), gomock.Any()).
		Return(assert.AnError)

	assert.Error(t, collector.Flush(context.Background()))

	// nothing is replayed after a failed flush
	require.NoError(t, collector.Flush(context.Background()))
}

func TestTradeWireFormat(t *testing.T) {
	trade := marketdatav1.Trade{
		Type:     marketdatav1.TypeTrade,
		EventID:  "01HYX",
		Price:    price.Price(1403000),
		Quantity: 100,
	}

	buf := marketdatav1.ToBytes(&trade)
	assert.JSONEq(t, `{"type":"TRADE","event_id":"01HYX","price":"140.30","quantity":100}`, string(buf))
}

func TestDepthUpdateWireFormat(t *testing.T) {
	update := marketdatav1.DepthUpdate{
		Type:    marketdatav1.TypeDepthUpdate,
		EventID: "01HYX",
		Bid: []marketdatav1.DepthEntry{
			{Action: "ADD", Price: price.Price(1402000), Quantity: 50},
		},
		Ask: []marketdatav1.DepthEntry{
			{Action: "DELETE", Price: price.Price(1403000), Quantity: 0},
		},
	}

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(marketdatav1.ToBytes(&update), &decoded))
	assert.Equal(t, "DEPTH_UPDATE", decoded["type"])

	bids, ok := decoded["bid"].([]any)
	require.True(t, ok)
	require.Len(t, bids, 1)
	assert.Equal(t, "140.20", bids[0].(map[string]any)["price"])
}
