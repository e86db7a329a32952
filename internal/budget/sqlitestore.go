package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

// SQLiteStore is the sqlite-backed budget store. Amounts are stored as text
// to keep decimal values exact.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetBudget returns the exact composite-key amount, zero when absent.
func (s *SQLiteStore) GetBudget(ctx context.Context, employeeID, month string, year int) (decimal.Decimal, error) {
	var amount string
	err := s.db.QueryRowContext(ctx,
		`SELECT amount FROM budgets WHERE employee_id = ? AND year = ? AND month = ?`,
		employeeID, year, month).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("query budget: %w", err)
	}
	return decimal.NewFromString(amount)
}

// GetDepartmentBudget sums all matching entries.
func (s *SQLiteStore) GetDepartmentBudget(ctx context.Context, department, month string, year int) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT amount FROM budgets WHERE department = ? AND year = ? AND month = ?`,
		department, year, month)
	if err != nil {
		return decimal.Zero, fmt.Errorf("query department budgets: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

// GetAllBudgets returns every entry for the given month keyed by composite key.
func (s *SQLiteStore) GetAllBudgets(ctx context.Context, month string, year int) (map[string]core.BudgetEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, employee_name, department, month, year, amount
		 FROM budgets WHERE year = ? AND month = ?`,
		year, month)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	out := make(map[string]core.BudgetEntry)
	for rows.Next() {
		var entry core.BudgetEntry
		var amount string
		if err := rows.Scan(&entry.EmployeeID, &entry.EmployeeName, &entry.Department,
			&entry.Month, &entry.Year, &amount); err != nil {
			return nil, fmt.Errorf("scan budget entry: %w", err)
		}
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		out[EntryKey(entry)] = entry
	}
	return out, rows.Err()
}

// SetBudget upserts one entry by its composite key.
func (s *SQLiteStore) SetBudget(ctx context.Context, entry core.BudgetEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (employee_id, employee_name, department, month, year, amount)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(employee_id, year, month) DO UPDATE SET
		   employee_name = excluded.employee_name,
		   department = excluded.department,
		   amount = excluded.amount`,
		entry.EmployeeID, entry.EmployeeName, entry.Department,
		entry.Month, entry.Year, entry.Amount.String())
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}
