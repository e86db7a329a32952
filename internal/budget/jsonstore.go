package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// JSONStore keeps the whole budget table in memory and rewrites the snapshot
// file on every mutation. A missing file is an empty store, not an error.
//
// Concurrent writers are not coordinated; last writer wins. Single-writer,
// low-frequency workloads only.
type JSONStore struct {
	path string

	mu      sync.RWMutex
	entries map[string]core.BudgetEntry
	modTime time.Time
}

// NewJSONStore loads (or creates) the snapshot at path.
func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{
		path:    path,
		entries: make(map[string]core.BudgetEntry),
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create budget directory: %w", err)
		}
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("stat budget file: %w", err)
	default:
		if err := s.loadLocked(info.ModTime()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *JSONStore) loadLocked(modTime time.Time) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read budget file: %w", err)
	}
	entries := make(map[string]core.BudgetEntry)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parse budget file %s: %w", s.path, err)
		}
	}
	s.entries = entries
	s.modTime = modTime
	return nil
}

// reloadIfStale re-reads the snapshot when another process rewrote it.
func (s *JSONStore) reloadIfStale() error {
	info, err := os.Stat(s.path)
	if err != nil {
		// Treat a vanished file as an unchanged in-memory view.
		return nil
	}
	if !info.ModTime().After(s.modTime) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(info.ModTime())
}

func (s *JSONStore) persistLocked() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode budgets: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write budget file: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
	}
	return nil
}

// GetBudget returns the exact composite-key amount, zero when absent.
func (s *JSONStore) GetBudget(_ context.Context, employeeID, month string, year int) (decimal.Decimal, error) {
	if err := s.reloadIfStale(); err != nil {
		return decimal.Zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[Key(employeeID, month, year)]
	if !ok {
		return decimal.Zero, nil
	}
	return entry.Amount, nil
}

// GetDepartmentBudget sums all matching entries with a full scan.
func (s *JSONStore) GetDepartmentBudget(_ context.Context, department, month string, year int) (decimal.Decimal, error) {
	if err := s.reloadIfStale(); err != nil {
		return decimal.Zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, entry := range s.entries {
		if entry.Department == department && entry.Year == year && entry.Month == month {
			total = total.Add(entry.Amount)
		}
	}
	return total, nil
}

// GetAllBudgets returns every entry for the given month.
func (s *JSONStore) GetAllBudgets(_ context.Context, month string, year int) (map[string]core.BudgetEntry, error) {
	if err := s.reloadIfStale(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]core.BudgetEntry)
	for key, entry := range s.entries {
		if entry.Year == year && entry.Month == month {
			out[key] = entry
		}
	}
	return out, nil
}

// SetBudget upserts one entry and rewrites the full snapshot.
func (s *JSONStore) SetBudget(_ context.Context, entry core.BudgetEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[EntryKey(entry)] = entry
	return s.persistLocked()
}

// Len returns the number of entries currently loaded.
func (s *JSONStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
