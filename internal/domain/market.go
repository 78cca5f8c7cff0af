package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signal constants as emitted by the signal API
const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
	SignalHold = "HOLD"
)

// Position side constants
const (
	SideLong  = "LONG"
	SideShort = "SHORT"
)

// FlexibleFloat handles fields the signal API encodes as either a JSON
// number or a numeric string (tp/sl come back both ways).
type FlexibleFloat float64

// UnmarshalJSON implements custom JSON unmarshalling for number-or-string values
func (f *FlexibleFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("unable to parse numeric value: %s", s)
	}
	*f = FlexibleFloat(v)
	return nil
}

// TokenMetrics is the read-only per-symbol projection served by the signal API
type TokenMetrics struct {
	Symbol      string        `json:"symbol"`
	Price       float64       `json:"price"`
	Change      float64       `json:"change"`
	RSI         float64       `json:"rsi"`
	Signal      string        `json:"signal"`
	TP          FlexibleFloat `json:"tp"`
	SL          FlexibleFloat `json:"sl"`
	LotQty      float64       `json:"lot_qty"`
	LastUpdated string        `json:"last_updated"`
}

// MarketDataResponse is the shape of both /latest_data and /token_data:
// a symbol-keyed map plus a response-level timestamp. Single-token lookups
// return a one-entry map.
type MarketDataResponse struct {
	Data        map[string]TokenMetrics `json:"data"`
	LastUpdated string                  `json:"last_updated"`
}

// Position is a read-only projection of an open position from the signal API
type Position struct {
	Token        string  `json:"token"`
	CurrentPrice float64 `json:"current_price"`
	EntryPrice   float64 `json:"entry_price"`
	Side         string  `json:"side"`
	Quantity     float64 `json:"quantity"`
	TPPrice      float64 `json:"tp_price"`
	SLPrice      float64 `json:"sl_price"`
	LiqPrice     float64 `json:"liq_price"`
	PnL          float64 `json:"pnl"`
	PnLPercent   float64 `json:"pnl_percent"`
}

// PositionsResponse is the /positions payload
type PositionsResponse struct {
	Positions      []Position `json:"positions"`
	Balance        float64    `json:"balance"`
	PaperTrading   bool       `json:"paper_trading"`
	ActiveSignals  int        `json:"active_signals"`
	TotalPositions int        `json:"total_positions"`
}

// TokenHistoryPoint is one timestamped price/RSI sample in a token's
// history buffer. Buffers are in-memory only and rebuilt on restart.
type TokenHistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	RSI       float64   `json:"rsi"`
}
