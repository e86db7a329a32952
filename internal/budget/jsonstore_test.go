package budget

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklingTalent/Quickbook-account-automation/internal/core"
)

func entry(emp, name, dept, month string, year int, amount int64) core.BudgetEntry {
	return core.BudgetEntry{
		EmployeeID:   emp,
		EmployeeName: name,
		Department:   dept,
		Month:        month,
		Year:         year,
		Amount:       decimal.NewFromInt(amount),
	}
}

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "budgets.json"))
	require.NoError(t, err)
	return store
}

func TestJSONStoreMissingFileIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "budgets.json")

	store, err := NewJSONStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	// An empty snapshot must have been created on disk.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestJSONStoreGetBudget(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "01", 2024, 10000)))

	amount, err := store.GetBudget(ctx, "emp_001", "01", 2024)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(10000)))

	// Sparse lookups default to zero.
	amount, err = store.GetBudget(ctx, "emp_001", "02", 2024)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())

	amount, err = store.GetBudget(ctx, "emp_999", "01", 2024)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}

func TestJSONStoreUpsertByCompositeKey(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "01", 2024, 10000)))
	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "01", 2024, 12500)))

	assert.Equal(t, 1, store.Len(), "same composite key must overwrite")
	amount, err := store.GetBudget(ctx, "emp_001", "01", 2024)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(12500)))
}

func TestJSONStoreDepartmentBudget(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "01", 2024, 12000)))
	require.NoError(t, store.SetBudget(ctx, entry("emp_002", "Sarah Johnson", "Engineering", "01", 2024, 10000)))
	require.NoError(t, store.SetBudget(ctx, entry("emp_003", "Michael Chen", "Architecture", "01", 2024, 13000)))
	// Same department, different month and year: excluded.
	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "02", 2024, 99999)))
	require.NoError(t, store.SetBudget(ctx, entry("emp_002", "Sarah Johnson", "Engineering", "01", 2023, 99999)))

	total, err := store.GetDepartmentBudget(ctx, "Engineering", "01", 2024)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(22000)), "got %s", total)

	total, err = store.GetDepartmentBudget(ctx, "Marketing", "01", 2024)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestJSONStoreGetAllBudgets(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "01", 2024, 12000)))
	require.NoError(t, store.SetBudget(ctx, entry("emp_003", "Michael Chen", "Architecture", "01", 2024, 13000)))
	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "03", 2024, 12000)))

	all, err := store.GetAllBudgets(ctx, "01", 2024)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, all, "emp_001_2024_01")
	assert.Contains(t, all, "emp_003_2024_01")
}

func TestJSONStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "budgets.json")

	store, err := NewJSONStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetBudget(ctx, entry("emp_001", "John Smith", "Engineering", "01", 2024, 10000)))

	reopened, err := NewJSONStore(path)
	require.NoError(t, err)
	amount, err := reopened.GetBudget(ctx, "emp_001", "01", 2024)
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.NewFromInt(10000)))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "emp_001_2024_01", Key("emp_001", "01", 2024))
	assert.Equal(t, "emp_001_2024_01", EntryKey(entry("emp_001", "", "", "01", 2024, 1)))
}
