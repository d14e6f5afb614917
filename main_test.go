package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/finance-manager/cmd/root"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSession isolates the CLI in a temp data directory and closes the
// session when the test ends.
func newSession(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("WALLET_DATA_DIRECTORY", filepath.Join(dir, "data"))
	t.Setenv("WALLET_DATA_BACKEND", backend)
	t.Setenv("WALLET_SECURITY_BCRYPT_COST", "4")
	t.Setenv("WALLET_LOG_LEVEL", "error")
	require.NoError(t, root.Close())
	t.Cleanup(func() { _ = root.Close() })
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root.Cmd.SetOut(&buf)
	root.Cmd.SetErr(&buf)
	root.Cmd.SetArgs(args)
	err := root.Cmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

// restart drops the in-memory session so the next command reloads from disk.
func restart(t *testing.T) {
	t.Helper()
	require.NoError(t, root.Close())
}

func TestCLI_LedgerWorkflow(t *testing.T) {
	for _, backend := range []string{"yaml", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			newSession(t, backend)
			alice := []string{"-u", "alice", "-p", "secret"}

			out := mustRun(t, "register", "-u", "alice", "-p", "secret", "--confirm", "secret")
			assert.Contains(t, out, "User 'alice' registered")

			out = mustRun(t, append([]string{"income", "2500", "Salary", "-d", "March salary", "--date", "01.03.2024 09:00"}, alice...)...)
			assert.Contains(t, out, "Income of 2,500.00 added to Salary")

			mustRun(t, append([]string{"budget", "set", "Food", "100"}, alice...)...)
			out = mustRun(t, append([]string{"expense", "120", "Food", "-d", "groceries", "--date", "05.03.2024 18:00"}, alice...)...)
			assert.Contains(t, out, "Expense of 120.00 added to Food")
			assert.Contains(t, out, "Budget exceeded")

			restart(t)

			out = mustRun(t, append([]string{"balance"}, alice...)...)
			assert.Contains(t, out, "Balance: 2,380.00")

			out = mustRun(t, append([]string{"budget", "list"}, alice...)...)
			assert.Contains(t, out, "EXCEEDED")
			assert.Contains(t, out, "120.0%")

			out = mustRun(t, append([]string{"stats", "--month", "2024-03"}, alice...)...)
			assert.Contains(t, out, "Transactions: 2")
			assert.Contains(t, out, "Balance: 2,380.00")

			out = mustRun(t, append([]string{"report", "--month", "2024-03"}, alice...)...)
			assert.Contains(t, out, "FINANCIAL REPORT")
			assert.Contains(t, out, "Financial health: Excellent")

			out = mustRun(t, append([]string{"category-stats", "Food"}, alice...)...)
			assert.Contains(t, out, "(exceeded)")
		})
	}
}

func TestCLI_Transfer(t *testing.T) {
	newSession(t, "yaml")
	mustRun(t, "register", "-u", "alice", "-p", "secret", "--confirm", "secret")
	mustRun(t, "register", "-u", "bob", "-p", "hunter2", "--confirm", "hunter2")
	mustRun(t, "income", "300", "Salary", "-d", "", "-u", "alice", "-p", "secret")

	_, err := run(t, "transfer", "carol", "10", "-u", "alice", "-p", "secret")
	var valErr *walleterror.ValidationError
	require.True(t, errors.As(err, &valErr))

	_, err = run(t, "transfer", "bob", "1000", "-u", "alice", "-p", "secret")
	var fundsErr *walleterror.InsufficientFundsError
	require.True(t, errors.As(err, &fundsErr))

	out := mustRun(t, "transfer", "bob", "120", "-d", "rent", "-u", "alice", "-p", "secret")
	assert.Contains(t, out, "Transferred 120.00 to bob. New balance: 180.00")

	restart(t)
	out = mustRun(t, "transactions", "-u", "bob", "-p", "hunter2")
	assert.Contains(t, out, "Transfer from alice: rent")
}

func TestCLI_AuthenticationErrors(t *testing.T) {
	newSession(t, "yaml")
	mustRun(t, "register", "-u", "alice", "-p", "secret", "--confirm", "secret")

	_, err := run(t, "balance", "-u", "alice", "-p", "wrong")
	var authErr *walleterror.AuthorizationError
	assert.True(t, errors.As(err, &authErr))

	_, err = run(t, "register", "-u", "alice", "-p", "secret", "--confirm", "secret")
	assert.True(t, errors.As(err, &authErr))

	_, err = run(t, "register", "-u", "bob", "-p", "secret", "--confirm", "other")
	var valErr *walleterror.ValidationError
	assert.True(t, errors.As(err, &valErr))

	mustRun(t, "passwd", "-u", "alice", "-p", "secret", "--new-password", "better", "--confirm", "better")
	restart(t)
	mustRun(t, "balance", "-u", "alice", "-p", "better")
}

func TestCLI_CategoriesAndExchange(t *testing.T) {
	dir := newSession(t, "yaml")
	mustRun(t, "register", "-u", "alice", "-p", "secret", "--confirm", "secret")
	mustRun(t, "register", "-u", "bob", "-p", "secret", "--confirm", "secret")
	alice := []string{"-u", "alice", "-p", "secret"}

	mustRun(t, append([]string{"category", "add", "Pets"}, alice...)...)
	out := mustRun(t, append([]string{"category", "list"}, alice...)...)
	assert.Contains(t, strings.Split(strings.TrimSpace(out), "\n"), "Pets")

	mustRun(t, append([]string{"expense", "30", "Pets", "-d", "food"}, alice...)...)
	_, err := run(t, append([]string{"category", "remove", "Pets"}, alice...)...)
	assert.Error(t, err)

	path := filepath.Join(dir, "alice-export")
	out = mustRun(t, append([]string{"export", path}, alice...)...)
	assert.Contains(t, out, path+".csv")
	_, err = os.Stat(path + ".csv")
	require.NoError(t, err)

	out = mustRun(t, "import", path+".csv", "-u", "bob", "-p", "secret")
	assert.Contains(t, out, "Imported 1 transactions and 0 budgets")

	out = mustRun(t, "alerts", "-u", "bob", "-p", "secret")
	assert.Contains(t, out, "Negative balance")
}
