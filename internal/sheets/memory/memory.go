// Package memory is an in-memory spreadsheet used by tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	sheets map[string][][]interface{}
	writes int
}

func New() *Store {
	return &Store{sheets: make(map[string][][]interface{})}
}

// WriteSheet replaces the named sheet's contents.
func (s *Store) WriteSheet(_ context.Context, sheetName string, values [][]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]interface{}, len(values))
	for i, row := range values {
		copied[i] = append([]interface{}(nil), row...)
	}
	s.sheets[sheetName] = copied
	s.writes++
	return nil
}

// Sheet returns the current contents of a sheet, or nil when absent.
func (s *Store) Sheet(sheetName string) [][]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheets[sheetName]
}

// SheetNames returns the names of every written sheet.
func (s *Store) SheetNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.sheets))
	for name := range s.sheets {
		names = append(names, name)
	}
	return names
}

// Writes returns the total number of WriteSheet calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
