package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"signalboard/internal/domain"
)

// Poll cadence for both the aggregate dashboard and the watched token
const (
	TokenPollInterval = 8 * time.Second

	// Seconds-granularity cron expression matching TokenPollInterval
	dashboardPollSpec = "*/8 * * * * *"
)

// dashboardErrMessage is the user-visible banner shown when an aggregate
// poll fails; stale data stays on screen underneath it.
const dashboardErrMessage = "Could not load latest data. Please try again."

// MarketDataClient is the slice of the signal API client the dashboard
// service needs
type MarketDataClient interface {
	LatestData(ctx context.Context) (*domain.MarketDataResponse, error)
	TokenData(ctx context.Context, symbol string) (*domain.MarketDataResponse, error)
}

// DashboardSnapshot is a copy of the aggregate dashboard state
type DashboardSnapshot struct {
	Data        map[string]domain.TokenMetrics        `json:"data"`
	LastUpdated string                                `json:"last_updated"`
	Error       string                                `json:"error,omitempty"`
	Loaded      bool                                  `json:"loaded"`
	History     map[string][]domain.TokenHistoryPoint `json:"history"`
}

// TokenView is the active token's metrics plus its history buffer
type TokenView struct {
	Metrics domain.TokenMetrics        `json:"metrics"`
	History []domain.TokenHistoryPoint `json:"history"`
}

// DashboardService owns the polling/merge state: the aggregate snapshot,
// the per-symbol history buffers, and the actively watched token. The two
// poll loops are independent; a failure in one never blocks the other.
type DashboardService struct {
	client  MarketDataClient
	log     *logrus.Logger
	history *HistoryStore
	cron    *cron.Cron
	now     func() time.Time

	mu          sync.Mutex
	rootCtx     context.Context
	metrics     map[string]domain.TokenMetrics
	lastUpdated string
	lastError   string
	loaded      bool

	active     *tokenWatch
	activeData domain.TokenMetrics
	activeSet  bool

	// Monotonic sequencing per poll family. Overlapping in-flight requests
	// are possible; a response older than the last applied one is dropped
	// so a slow response cannot overwrite a newer snapshot.
	dashSeq     uint64
	dashApplied uint64
	tokSeq      uint64
	tokApplied  uint64
}

type tokenWatch struct {
	symbol string
	cancel context.CancelFunc
}

// NewDashboardService creates a DashboardService
func NewDashboardService(client MarketDataClient, log *logrus.Logger) *DashboardService {
	return &DashboardService{
		client:  client,
		log:     log,
		history: NewHistoryStore(HistoryLimit),
		cron:    cron.New(cron.WithSeconds()),
		now:     time.Now,
	}
}

// Start fires an immediate aggregate fetch and then repeats it on the poll
// cadence until Stop or context cancellation.
func (s *DashboardService) Start(ctx context.Context) error {
	s.mu.Lock()
	s.rootCtx = ctx
	s.mu.Unlock()

	go s.refreshDashboard(ctx)

	_, err := s.cron.AddFunc(dashboardPollSpec, func() {
		s.refreshDashboard(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dashboard poll: %w", err)
	}

	s.cron.Start()
	s.log.WithField("interval", TokenPollInterval.String()).Info("dashboard poller started")
	return nil
}

// Stop halts the aggregate poll and the token watch
func (s *DashboardService) Stop() {
	s.cron.Stop()

	s.mu.Lock()
	if s.active != nil {
		s.active.cancel()
		s.active = nil
	}
	s.mu.Unlock()

	s.log.Info("dashboard poller stopped")
}

// refreshDashboard fetches the aggregate snapshot and merges it in. A
// failed fetch surfaces an error banner but leaves the stale snapshot
// displayed and the loop running.
func (s *DashboardService) refreshDashboard(ctx context.Context) {
	s.mu.Lock()
	s.dashSeq++
	seq := s.dashSeq
	s.mu.Unlock()

	res, err := s.client.LatestData(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.dashApplied {
		// A newer poll already landed while this one was in flight
		return
	}
	s.dashApplied = seq
	s.loaded = true

	if err != nil {
		s.lastError = dashboardErrMessage
		s.log.WithError(err).Warn("dashboard poll failed")
		return
	}

	normalized := make(map[string]domain.TokenMetrics, len(res.Data))
	for symbol, item := range res.Data {
		item.Symbol = symbol
		normalized[symbol] = item
	}

	s.metrics = normalized
	s.lastUpdated = res.LastUpdated
	s.lastError = ""

	for _, item := range normalized {
		s.history.Append(item.Symbol, s.historyPoint(item, res.LastUpdated))
	}
}

// Search normalizes a free-text query, fetches that token, makes it the
// actively watched token, and records a history point.
func (s *DashboardService) Search(ctx context.Context, query string) (TokenView, error) {
	symbol := NormalizeTokenQuery(query)
	if symbol == "" {
		return TokenView{}, domain.ErrEmptyQuery
	}

	res, err := s.client.TokenData(ctx, symbol)
	if err != nil {
		return TokenView{}, fmt.Errorf("search for %s failed: %w", symbol, err)
	}

	metrics, ok := firstEntry(res)
	if !ok {
		return TokenView{}, domain.ErrTokenNotFound
	}

	s.mu.Lock()
	s.tokSeq++
	seq := s.tokSeq
	s.mu.Unlock()

	s.applyTokenResult(seq, metrics, res.LastUpdated)
	s.Watch(metrics.Symbol)

	return TokenView{Metrics: metrics, History: s.history.Get(metrics.Symbol)}, nil
}

// Watch starts (or re-targets) the active-token poll. Switching symbols
// cancels the previous watcher deterministically.
func (s *DashboardService) Watch(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		if s.active.symbol == symbol {
			return
		}
		s.active.cancel()
		s.active = nil
	}

	parent := s.rootCtx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	s.active = &tokenWatch{symbol: symbol, cancel: cancel}

	go s.watchToken(ctx, symbol)
}

// watchToken refetches one symbol on a fixed interval. Failures are logged
// and the existing display is left alone (stale-but-shown).
func (s *DashboardService) watchToken(ctx context.Context, symbol string) {
	ticker := time.NewTicker(TokenPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.tokSeq++
			seq := s.tokSeq
			s.mu.Unlock()

			res, err := s.client.TokenData(ctx, symbol)
			if err != nil {
				s.log.WithError(err).WithField("symbol", symbol).Debug("token poll failed")
				continue
			}
			metrics, ok := firstEntry(res)
			if !ok {
				continue
			}
			s.applyTokenResult(seq, metrics, res.LastUpdated)
		}
	}
}

// applyTokenResult merges one token response, dropping it if a newer one
// already landed.
func (s *DashboardService) applyTokenResult(seq uint64, metrics domain.TokenMetrics, responseUpdated string) {
	s.mu.Lock()
	if seq < s.tokApplied {
		s.mu.Unlock()
		return
	}
	s.tokApplied = seq
	s.activeData = metrics
	s.activeSet = true
	s.mu.Unlock()

	s.history.Append(metrics.Symbol, s.historyPoint(metrics, responseUpdated))
}

// Snapshot returns a copy of the aggregate dashboard state
func (s *DashboardService) Snapshot() DashboardSnapshot {
	s.mu.Lock()
	data := make(map[string]domain.TokenMetrics, len(s.metrics))
	for symbol, item := range s.metrics {
		data[symbol] = item
	}
	snap := DashboardSnapshot{
		Data:        data,
		LastUpdated: s.lastUpdated,
		Error:       s.lastError,
		Loaded:      s.loaded,
	}
	s.mu.Unlock()

	snap.History = s.history.Snapshot()
	return snap
}

// ActiveToken returns the watched token's view, if any
func (s *DashboardService) ActiveToken() (TokenView, bool) {
	s.mu.Lock()
	if !s.activeSet {
		s.mu.Unlock()
		return TokenView{}, false
	}
	metrics := s.activeData
	s.mu.Unlock()

	return TokenView{Metrics: metrics, History: s.history.Get(metrics.Symbol)}, true
}

// historyPoint builds the sample appended for one merged response, with the
// timestamp fallback chain: per-token value, response value, arrival time.
func (s *DashboardService) historyPoint(item domain.TokenMetrics, responseUpdated string) domain.TokenHistoryPoint {
	ts, ok := parseTimestamp(item.LastUpdated)
	if !ok {
		if ts, ok = parseTimestamp(responseUpdated); !ok {
			ts = s.now()
		}
	}
	return domain.TokenHistoryPoint{
		Timestamp: ts,
		Price:     item.Price,
		RSI:       item.RSI,
	}
}

// NormalizeTokenQuery trims and uppercases a search query and appends the
// USDT suffix unless it is already present. Blank input normalizes to "".
func NormalizeTokenQuery(query string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(query))
	if trimmed == "" {
		return ""
	}
	if strings.HasSuffix(trimmed, "USDT") {
		return trimmed
	}
	return trimmed + "USDT"
}

// firstEntry pulls the single entry out of a one-token response
func firstEntry(res *domain.MarketDataResponse) (domain.TokenMetrics, bool) {
	for symbol, item := range res.Data {
		item.Symbol = symbol
		return item, true
	}
	return domain.TokenMetrics{}, false
}

// parseTimestamp handles the timestamp formats the signal API emits
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999", // Python datetime format without timezone
		"2006-01-02T15:04:05",
		time.DateTime,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
