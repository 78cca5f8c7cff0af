package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalboard/internal/domain"
)

type fakeMarketClient struct {
	latestCalls int
	tokenCalls  int
	lastSymbol  string

	latest    *domain.MarketDataResponse
	latestErr error
	token     *domain.MarketDataResponse
	tokenErr  error
}

func (f *fakeMarketClient) LatestData(_ context.Context) (*domain.MarketDataResponse, error) {
	f.latestCalls++
	return f.latest, f.latestErr
}

func (f *fakeMarketClient) TokenData(_ context.Context, symbol string) (*domain.MarketDataResponse, error) {
	f.tokenCalls++
	f.lastSymbol = symbol
	return f.token, f.tokenErr
}

func newTestService(client MarketDataClient) *DashboardService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewDashboardService(client, log)
}

func TestNormalizeTokenQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"btc", "BTCUSDT"},
		{"ETHUSDT", "ETHUSDT"},
		{"  sol  ", "SOLUSDT"},
		{"ethusdt", "ETHUSDT"},
		{"  ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTokenQuery(tt.in), "input %q", tt.in)
	}
}

func TestSearch_EmptyQueryRejectedLocally(t *testing.T) {
	client := &fakeMarketClient{}
	svc := newTestService(client)

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	assert.Zero(t, client.tokenCalls, "blank query must not hit the network")
}

func TestSearch_TokenNotFound(t *testing.T) {
	client := &fakeMarketClient{
		token: &domain.MarketDataResponse{Data: map[string]domain.TokenMetrics{}},
	}
	svc := newTestService(client)

	_, err := svc.Search(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
	assert.Equal(t, "NOPEUSDT", client.lastSymbol)
}

func TestSearch_SetsActiveTokenAndHistory(t *testing.T) {
	client := &fakeMarketClient{
		token: &domain.MarketDataResponse{
			Data: map[string]domain.TokenMetrics{
				"BTCUSDT": {Price: 65000, RSI: 55.5, Signal: domain.SignalBuy},
			},
			LastUpdated: "2026-01-02T10:00:00",
		},
	}
	svc := newTestService(client)
	defer svc.Stop()

	view, err := svc.Search(context.Background(), "btc")
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", view.Metrics.Symbol)
	assert.Equal(t, 65000.0, view.Metrics.Price)
	require.Len(t, view.History, 1)
	assert.Equal(t, 65000.0, view.History[0].Price)
	assert.Equal(t, 55.5, view.History[0].RSI)

	active, ok := svc.ActiveToken()
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", active.Metrics.Symbol)
}

func TestRefreshDashboard_MergesSnapshotAndHistory(t *testing.T) {
	client := &fakeMarketClient{
		latest: &domain.MarketDataResponse{
			Data: map[string]domain.TokenMetrics{
				"BTCUSDT": {Price: 65000, RSI: 55, Signal: domain.SignalBuy},
				"ETHUSDT": {Price: 3500, RSI: 48, Signal: domain.SignalHold},
			},
			LastUpdated: "2026-01-02T10:00:00",
		},
	}
	svc := newTestService(client)

	svc.refreshDashboard(context.Background())

	snap := svc.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Empty(t, snap.Error)
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "BTCUSDT", snap.Data["BTCUSDT"].Symbol, "symbol backfilled from map key")
	assert.Len(t, snap.History["BTCUSDT"], 1)
	assert.Len(t, snap.History["ETHUSDT"], 1)
}

func TestRefreshDashboard_FailureKeepsStaleData(t *testing.T) {
	client := &fakeMarketClient{
		latest: &domain.MarketDataResponse{
			Data:        map[string]domain.TokenMetrics{"BTCUSDT": {Price: 65000}},
			LastUpdated: "2026-01-02T10:00:00",
		},
	}
	svc := newTestService(client)

	svc.refreshDashboard(context.Background())

	// Second poll fails: error banner set, previous snapshot retained
	client.latestErr = errors.New("connection refused")
	svc.refreshDashboard(context.Background())

	snap := svc.Snapshot()
	assert.NotEmpty(t, snap.Error)
	require.Len(t, snap.Data, 1)
	assert.Equal(t, 65000.0, snap.Data["BTCUSDT"].Price)

	// Recovery clears the banner
	client.latestErr = nil
	svc.refreshDashboard(context.Background())
	assert.Empty(t, svc.Snapshot().Error)
}

func TestApplyTokenResult_DropsStaleResponse(t *testing.T) {
	svc := newTestService(&fakeMarketClient{})

	// Two overlapping polls: seq 1 and seq 2. Seq 2 lands first.
	svc.mu.Lock()
	svc.tokSeq = 2
	svc.mu.Unlock()

	svc.applyTokenResult(2, domain.TokenMetrics{Symbol: "BTCUSDT", Price: 65100}, "")
	svc.applyTokenResult(1, domain.TokenMetrics{Symbol: "BTCUSDT", Price: 64900}, "")

	view, ok := svc.ActiveToken()
	require.True(t, ok)
	assert.Equal(t, 65100.0, view.Metrics.Price, "older response must not overwrite newer one")
}

func TestParseTimestamp(t *testing.T) {
	for _, s := range []string{
		"2026-01-02T10:00:00Z",
		"2026-01-02T10:00:00.123456",
		"2026-01-02T10:00:00",
		"2026-01-02 10:00:00",
	} {
		_, ok := parseTimestamp(s)
		assert.True(t, ok, "should parse %q", s)
	}

	_, ok := parseTimestamp("")
	assert.False(t, ok)
	_, ok = parseTimestamp("yesterday")
	assert.False(t, ok)
}
