package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func sampleRecord(t *testing.T) UserRecord {
	t.Helper()
	l := ledger.New("alice", ledger.WithCategories([]string{"Rent"}))
	l.AddTransaction(models.Transaction{
		ID:          "tx-1",
		Amount:      decimal.RequireFromString("1250.50"),
		Type:        models.TransactionTypeIncome,
		Category:    "Salary",
		Date:        time.Date(2024, time.March, 1, 9, 30, 15, 500, time.UTC),
		Description: "March salary",
	})
	require.NoError(t, l.ImportBudget("Food", decimal.NewFromInt(400), decimal.RequireFromString("120.10")))
	return UserRecord{Username: "alice", PasswordHash: "$2a$04$hash", Ledger: l.Snapshot()}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "users.yaml")
	s := NewFileStore(path, nil)

	rec := sampleRecord(t)
	require.NoError(t, s.Save([]UserRecord{rec, {Username: "bob", PasswordHash: "h", Ledger: ledger.New("bob").Snapshot()}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(models.PermissionDataFile), info.Mode().Perm())

	loaded := s.Load()
	require.Len(t, loaded, 2)

	got := loaded["alice"]
	assert.Equal(t, rec.PasswordHash, got.PasswordHash)
	assert.Equal(t, rec.Ledger.Categories, got.Ledger.Categories)
	require.Len(t, got.Ledger.Transactions, 1)
	tx := got.Ledger.Transactions[0]
	assert.Equal(t, "tx-1", tx.ID)
	assert.True(t, rec.Ledger.Transactions[0].Date.Equal(tx.Date))
	assert.True(t, decimal.RequireFromString("1250.50").Equal(tx.Amount))
	assert.Equal(t, models.TransactionTypeIncome, tx.Type)

	b, ok := got.Ledger.Budget("Food")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("120.10").Equal(b.CurrentSpending))
	assert.True(t, models.DefaultWarningThreshold.Equal(b.WarningThreshold))

	restored := ledger.FromSnapshot(got.Ledger)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(restored.Balance()))
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "users.yaml"), nil)
	require.NoError(t, s.Save(nil))
	require.NoError(t, s.Save([]UserRecord{sampleRecord(t)}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "users.yaml", entries[0].Name())
}

func TestFileStore_LoadDegradesGracefully(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		level   string
	}{
		{name: "missing file", content: nil, level: "INFO"},
		{name: "corrupt yaml", content: strPtr("users: [unclosed"), level: "WARN"},
		{name: "future version", content: strPtr("version: 99\nusers: []\n"), level: "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "users.yaml")
			if tt.content != nil {
				writeFile(t, path, *tt.content)
			}
			mock := logging.NewMockLogger()

			records := NewFileStore(path, mock).Load()
			assert.NotNil(t, records)
			assert.Empty(t, records)
			assert.NotEmpty(t, mock.GetEntriesByLevel(tt.level))
		})
	}
}

func TestFileStore_LoadSkipsCorruptUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	writeFile(t, path, `version: 1
users:
  - username: alice
    password_hash: h1
    categories: [Food]
    transactions:
      - id: "1"
        type: EXPENSE
        category: Food
        amount: "12.30"
        date: "2024-03-01T10:00:00Z"
  - username: mallory
    password_hash: h2
    transactions:
      - id: "2"
        type: EXPENSE
        category: Food
        amount: "lots"
        date: "2024-03-01T10:00:00Z"
`)
	mock := logging.NewMockLogger()
	records := NewFileStore(path, mock).Load()

	require.Len(t, records, 1)
	assert.Contains(t, records, "alice")
	assert.True(t, mock.HasEntry("WARN", "Skipping corrupt user entry"))
}

func TestFileStore_LoadKeepsFirstOfDuplicateUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	writeFile(t, path, `version: 1
users:
  - username: alice
    password_hash: first
  - username: alice
    password_hash: second
`)
	mock := logging.NewMockLogger()
	records := NewFileStore(path, mock).Load()

	require.Len(t, records, 1)
	assert.Equal(t, "first", records["alice"].PasswordHash)
	assert.True(t, mock.HasEntry("WARN", "Skipping duplicate user entry"))
}

func TestFileStore_WarnsOnOpenPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	writeFile(t, path, "version: 1\nusers: []\n")
	require.NoError(t, os.Chmod(path, 0644))

	mock := logging.NewMockLogger()
	NewFileStore(path, mock).Load()
	assert.True(t, mock.HasEntry("WARN", "User file is accessible by other users"))

	require.NoError(t, os.Chmod(path, 0600))
	mock.Clear()
	NewFileStore(path, mock).Load()
	assert.False(t, mock.HasEntry("WARN", "User file is accessible by other users"))
}

func TestMockUserStore(t *testing.T) {
	m := &MockUserStore{}
	assert.Empty(t, m.Load())

	require.NoError(t, m.Save([]UserRecord{{Username: "alice"}}))
	assert.Contains(t, m.Load(), "alice")

	m.SaveError = os.ErrPermission
	assert.ErrorIs(t, m.Save(nil), os.ErrPermission)
	assert.Contains(t, m.Load(), "alice")
	assert.Equal(t, 2, m.SaveCalls())
}

func strPtr(s string) *string {
	return &s
}
