package kline

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SymbolKlines holds kline data for a single trading pair.
type SymbolKlines struct {
	Symbol  string
	History []Kline // Completed klines (oldest first, newest last)
}

// Store keeps a rolling window of completed klines per symbol and hands
// out immutable snapshots, so detectors never scan a series that is being
// appended to.
type Store struct {
	mu       sync.RWMutex
	klines   map[string]*SymbolKlines
	maxCount int
	logger   zerolog.Logger
}

// DefaultKlineCount is the default number of klines to maintain per symbol.
// The largest default window (far retest period) needs 30.
const DefaultKlineCount = 64

// NewStore creates a new kline store.
// maxCount: maximum number of historical klines to keep per symbol
func NewStore(maxCount int, logger zerolog.Logger) *Store {
	if maxCount <= 0 {
		logger.Warn().Int("kline_count", maxCount).Int("default", DefaultKlineCount).Msg("kline: invalid count, using default")
		maxCount = DefaultKlineCount
	}
	return &Store{
		klines:   make(map[string]*SymbolKlines),
		maxCount: maxCount,
		logger:   logger,
	}
}

// getOrCreate returns the SymbolKlines for a symbol, creating if needed.
func (s *Store) getOrCreate(symbol string) *SymbolKlines {
	sk, ok := s.klines[symbol]
	if !ok {
		sk = &SymbolKlines{
			Symbol:  symbol,
			History: make([]Kline, 0, s.maxCount),
		}
		s.klines[symbol] = sk
	}
	return sk
}

// Append adds a completed kline for its symbol.
// The kline must be strictly newer than the last stored one.
func (s *Store) Append(k Kline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk := s.getOrCreate(k.Symbol)
	if n := len(sk.History); n > 0 && k.TimeKey() <= sk.History[n-1].TimeKey() {
		return fmt.Errorf("%w: %s at %s", ErrNotMonotonic, k.Symbol, k.OpenTime.Format(time.RFC3339))
	}

	sk.History = append(sk.History, k)

	// Maintain rolling window size
	if len(sk.History) > s.maxCount {
		sk.History = sk.History[len(sk.History)-s.maxCount:]
	}
	return nil
}

// GetKlines returns a deep copy of historical klines for a symbol.
// Returns klines in time order (oldest first, newest last).
func (s *Store) GetKlines(symbol string) ([]Kline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sk, ok := s.klines[symbol]
	if !ok || len(sk.History) == 0 {
		return nil, false
	}

	result := make([]Kline, len(sk.History))
	copy(result, sk.History)
	return result, true
}

// Snapshot returns a copy-on-read series for a symbol.
func (s *Store) Snapshot(symbol string) (*SliceSeries, bool) {
	klines, ok := s.GetKlines(symbol)
	if !ok {
		return nil, false
	}
	series, err := NewSeries(klines)
	if err != nil {
		// Append guards ordering, so this only fires on a programming error.
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("kline: corrupt history")
		return nil, false
	}
	return series, true
}

// KlineCount returns the number of historical klines for a symbol.
func (s *Store) KlineCount(symbol string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sk, ok := s.klines[symbol]
	if !ok {
		return 0
	}
	return len(sk.History)
}

// StoreStats contains statistics about the kline store.
type StoreStats struct {
	SymbolCount int           `json:"symbol_count"`
	MaxCount    int           `json:"max_count"`
	Symbols     []SymbolStats `json:"symbols,omitempty"`
}

// SymbolStats contains statistics for a single symbol.
type SymbolStats struct {
	Symbol     string  `json:"symbol"`
	KlineCount int     `json:"kline_count"`
	LastClose  float64 `json:"last_close,omitempty"`
}

// Stats returns statistics about the kline store.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := StoreStats{
		SymbolCount: len(s.klines),
		MaxCount:    s.maxCount,
		Symbols:     make([]SymbolStats, 0, len(s.klines)),
	}

	for symbol, sk := range s.klines {
		ss := SymbolStats{
			Symbol:     symbol,
			KlineCount: len(sk.History),
		}
		if n := len(sk.History); n > 0 {
			ss.LastClose = sk.History[n-1].Close
		}
		stats.Symbols = append(stats.Symbols, ss)
	}

	return stats
}
