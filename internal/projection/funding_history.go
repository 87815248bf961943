package projection

import (
	"sync"

	"PerpMarket/internal/fixed"
)

// FundingEntry is one settled version's funding outcome, kept for the
// history API.
type FundingEntry struct {
	Version   uint64      `json:"version"`
	Timestamp int64       `json:"timestamp"`
	Price     fixed.Dec6  `json:"price"`
	Transfer  fixed.UDec6 `json:"transfer"`
	Fee       fixed.UDec6 `json:"fee"`
	Maker     fixed.UDec6 `json:"maker"`
	Long      fixed.UDec6 `json:"long"`
	Short     fixed.UDec6 `json:"short"`
}

// FundingHistory is an in-memory ring of recent funding entries. It is a
// rebuildable view: losing it costs nothing, the event log has every entry.
type FundingHistory struct {
	mu      sync.RWMutex
	entries []FundingEntry
	cap     int
}

func NewFundingHistory(capacity int) *FundingHistory {
	if capacity <= 0 {
		capacity = 4096
	}
	return &FundingHistory{cap: capacity}
}

// Add appends an entry, evicting the oldest past capacity.
func (h *FundingHistory) Add(e FundingEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, e)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// Recent returns up to limit entries, newest first.
func (h *FundingHistory) Recent(limit int) []FundingEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}
	out := make([]FundingEntry, 0, limit)
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Len returns the number of retained entries.
func (h *FundingHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
