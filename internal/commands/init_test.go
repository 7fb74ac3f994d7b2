package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "fintab-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "fintab")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/fintab")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runFintab(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	for _, d := range []string{"data", "logs", "import"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	_, err = os.Stat(filepath.Join(dir, "data", "fintab.db"))
	require.NoError(t, err, "database should exist")
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir, "--name", "My Company")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "fintab.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: My Company")
	assert.Contains(t, contents, "entity_type: llc_single_member")
	assert.Contains(t, contents, "scope_id:")
}

func TestInit_RequiresName(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir)
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingBook(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	out, err := runFintab(t, "init", dir, "--name", "Test Biz")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}

func TestAccounts_ListsDefaultChart(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	out, err := runFintab(t, "-C", dir, "accounts", "--limit", "100")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Cash on Hand")
	assert.Contains(t, out, "Service Revenue")
}

const journalCSV = `date,description,account_code,debit,credit,voucher_no
2025-03-10,Invoice 42,1020,250.00,,2025-03-001
2025-03-10,Invoice 42,4010,,250.00,2025-03-001
2025-03-15,Rent,5050,90.00,,2025-03-002
2025-03-15,Rent,1020,,90.00,2025-03-002
`

func TestEndToEnd_ImportAndReport(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	journalPath := filepath.Join(dir, "import", "journal.csv")
	require.NoError(t, os.WriteFile(journalPath, []byte(journalCSV), 0o644))

	out, err := runFintab(t, "-C", dir, "import", "journal", journalPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 2 vouchers")

	out, err = runFintab(t, "-C", dir, "report", "balance-sheet",
		"--from", "2025-03-01", "--to", "2025-03-31")
	require.NoError(t, err, out)
	// Checking 250 in, 90 out: bank subtree ends at 160.
	assert.Contains(t, out, `"total": "160.00"`)
	assert.Contains(t, out, `"anomalies": []`)

	out, err = runFintab(t, "-C", dir, "report", "income-statement",
		"--from", "2025-03-01", "--to", "2025-03-31", "--format", "rows")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"endingBalance": "250.00"`)

	// The audit log recorded both generations, tree and rows format.
	data, err := os.ReadFile(filepath.Join(dir, "logs", "report-log.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "balance_sheet")
	assert.Contains(t, string(data), "income_statement")
}

func TestEndToEnd_TrialBalance(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	journalPath := filepath.Join(dir, "import", "journal.csv")
	require.NoError(t, os.WriteFile(journalPath, []byte(journalCSV), 0o644))
	out, err := runFintab(t, "-C", dir, "import", "journal", journalPath)
	require.NoError(t, err, out)

	out, err = runFintab(t, "-C", dir, "trial-balance",
		"--beginning", "2025-02-28", "--midterm", "2025-03-31", "--ending", "2025-04-30")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"midtermDebit": "340.00"`)
	assert.Contains(t, out, `"anomalies": []`)
}

func TestVoucherAdd_ThenReport(t *testing.T) {
	dir := t.TempDir()
	_, err := runFintab(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	out, err := runFintab(t, "-C", dir, "voucher", "add",
		"--date", "2025-03-20", "--description", "Consulting",
		"--debit", "1020", "--credit", "4010", "--amount", "500.00")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Recorded voucher 2025-03-001")

	out, err = runFintab(t, "-C", dir, "voucher", "add",
		"--date", "2025-03-22", "--description", "More consulting",
		"--debit", "1020", "--credit", "4010", "--amount", "100.00")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Recorded voucher 2025-03-002")

	out, err = runFintab(t, "-C", dir, "report", "income-statement",
		"--from", "2025-03-01", "--to", "2025-03-31")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"total": "600.00"`)
}
