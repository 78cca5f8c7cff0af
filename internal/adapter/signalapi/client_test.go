package signalapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_LatestData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/latest_data", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// tp comes back as a string, sl as a number; both must decode
		w.Write([]byte(`{
			"data": {
				"BTCUSDT": {"price": 65000.5, "change": 1.2, "rsi": 55.1, "signal": "BUY", "tp": "66000", "sl": 64000, "lot_qty": 0.01, "last_updated": "2026-01-02T10:00:00"},
				"ETHUSDT": {"price": 3500, "change": -0.4, "rsi": 47.9, "signal": "HOLD", "tp": "0", "sl": "0", "lot_qty": 0.5, "last_updated": "2026-01-02T10:00:00"}
			},
			"last_updated": "2026-01-02T10:00:01"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.LatestData(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	btc := res.Data["BTCUSDT"]
	assert.Equal(t, 65000.5, btc.Price)
	assert.Equal(t, "BUY", btc.Signal)
	assert.Equal(t, 66000.0, float64(btc.TP))
	assert.Equal(t, 64000.0, float64(btc.SL))
	assert.Equal(t, "2026-01-02T10:00:01", res.LastUpdated)
}

func TestClient_TokenData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token_data", r.URL.Path)
		require.Equal(t, "SOLUSDT", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"SOLUSDT": {"price": 150.25, "rsi": 60, "signal": "SELL", "tp": "145", "sl": "155"}}, "last_updated": "2026-01-02T10:00:00"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.TokenData(context.Background(), "SOLUSDT")
	require.NoError(t, err)

	require.Len(t, res.Data, 1)
	assert.Equal(t, 150.25, res.Data["SOLUSDT"].Price)
}

func TestClient_Positions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/positions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"positions": [
				{"token": "BTCUSDT", "side": "LONG", "entry_price": 64000, "current_price": 65000, "quantity": 0.01, "tp_price": 66000, "sl_price": 63000, "liq_price": 32000, "pnl": 10, "pnl_percent": 1.56}
			],
			"balance": 1000.5,
			"paper_trading": true,
			"active_signals": 2,
			"total_positions": 1
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Positions(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Positions, 1)
	assert.Equal(t, "LONG", res.Positions[0].Side)
	assert.Equal(t, 1000.5, res.Balance)
	assert.True(t, res.PaperTrading)
	assert.Equal(t, 2, res.ActiveSignals)
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.LatestData(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Positions(ctx)
	require.Error(t, err)
}
