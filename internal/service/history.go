package service

import (
	"sync"

	"signalboard/internal/domain"
)

// HistoryLimit caps each token's history buffer; the oldest point is
// evicted first.
const HistoryLimit = 60

// HistoryStore holds per-symbol bounded history buffers. Points are kept
// in arrival order, never reordered or deduplicated by timestamp.
type HistoryStore struct {
	mu     sync.Mutex
	limit  int
	points map[string][]domain.TokenHistoryPoint
}

// NewHistoryStore creates a HistoryStore with the given per-symbol capacity
func NewHistoryStore(limit int) *HistoryStore {
	return &HistoryStore{
		limit:  limit,
		points: make(map[string][]domain.TokenHistoryPoint),
	}
}

// Append adds one point to a symbol's buffer, evicting the oldest once
// the buffer is full.
func (s *HistoryStore) Append(symbol string, point domain.TokenHistoryPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append(s.points[symbol], point)
	if len(buf) > s.limit {
		// Re-slice into a fresh array so the evicted prefix can be collected
		buf = append([]domain.TokenHistoryPoint(nil), buf[len(buf)-s.limit:]...)
	}
	s.points[symbol] = buf
}

// Get returns a copy of a symbol's buffer in arrival order
func (s *HistoryStore) Get(symbol string) []domain.TokenHistoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.TokenHistoryPoint(nil), s.points[symbol]...)
}

// Snapshot returns a copy of every symbol's buffer
func (s *HistoryStore) Snapshot() map[string][]domain.TokenHistoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]domain.TokenHistoryPoint, len(s.points))
	for symbol, buf := range s.points {
		out[symbol] = append([]domain.TokenHistoryPoint(nil), buf...)
	}
	return out
}
