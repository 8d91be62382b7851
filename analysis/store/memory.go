// Package store provides analysis.Source implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/workforce-engine/analysis"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	records   map[key]analysis.Record
	companies map[string][]string
}

type key struct {
	Industry string
	Year     int
}

func NewMemory() *Memory {
	return &Memory{
		records:   make(map[key]analysis.Record),
		companies: make(map[string][]string),
	}
}

// Put stores records, replacing any existing record for the same
// industry/year.
func (m *Memory) Put(records ...analysis.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.records[key{Industry: r.Industry, Year: r.Year}] = r
	}
}

// PutCompanies replaces the company catalog of an industry.
func (m *Memory) PutCompanies(industry string, names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[industry] = append([]string(nil), names...)
}

// ListRecords returns all records ordered by industry then year.
func (m *Memory) ListRecords(_ context.Context) ([]analysis.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]analysis.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Industry != out[j].Industry {
			return out[i].Industry < out[j].Industry
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

// ListCompanies returns the catalog of an industry in insertion order.
func (m *Memory) ListCompanies(_ context.Context, industry string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.companies[industry]...), nil
}

var _ analysis.Source = (*Memory)(nil)
