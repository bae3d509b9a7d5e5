package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv writes a config that keeps history and exports inside a temp dir
func testEnv(t *testing.T) (cfgPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("history_backend = \"file\"\nhistory_path = %q\nexport_dir = %q\n",
		filepath.Join(dir, "history"), dir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))
	return cfgPath, dir
}

func seedDB(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "app.db")
	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO users (id, name) VALUES (1, 'ann'), (2, 'bob');`)
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, debug, profile, dsn, remote = "", false, "", "", ""
	t.Setenv("EZQUERY_DSN", "")
	t.Setenv("EZQUERY_PROFILE", "")
	t.Setenv("EZQUERY_REMOTE", "")
	t.Setenv("EZQUERY_HISTORY_BACKEND", "")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCheckWarnsAndShowsRewrite(t *testing.T) {
	cfg, _ := testEnv(t)

	out, err := execute(t, "--config", cfg, "check", "SELECT * FROM users")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: Performance Warning: Missing LIMIT clause. Defaulting to LIMIT 100.")
	assert.Contains(t, out, "will run:\nSELECT * FROM users\nLIMIT 100\n")
}

func TestCheckRejects(t *testing.T) {
	cfg, _ := testEnv(t)

	out, err := execute(t, "--config", cfg, "check", "DROP TABLE users")
	require.Error(t, err)
	assert.Contains(t, out, `error: Security Risk: "DROP" is not allowed. Read-only mode.`)
}

func TestRunPrintsCSVAndRecordsHistory(t *testing.T) {
	cfg, dir := testEnv(t)
	dbPath := seedDB(t, dir)

	out, err := execute(t, "--config", cfg, "--dsn", dbPath, "run", "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,ann\n2,bob\n", out)

	out, err = execute(t, "--config", cfg, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "SELECT id, name FROM users ORDER BY id")

	out, err = execute(t, "--config", cfg, "history", "clear")
	require.NoError(t, err)
	assert.Equal(t, "history cleared\n", out)

	out, err = execute(t, "--config", cfg, "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "no history\n", out)
}

func TestRunRejectedStatement(t *testing.T) {
	cfg, dir := testEnv(t)
	dbPath := seedDB(t, dir)

	_, err := execute(t, "--config", cfg, "--dsn", dbPath, "run", "DELETE FROM users")
	require.Error(t, err)

	out, err := execute(t, "--config", cfg, "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "no history\n", out)
}

func TestTables(t *testing.T) {
	cfg, dir := testEnv(t)
	dbPath := seedDB(t, dir)

	out, err := execute(t, "--config", cfg, "--dsn", dbPath, "tables")
	require.NoError(t, err)
	assert.Equal(t, "users\n", out)
}

func TestRunWithoutConnection(t *testing.T) {
	cfg, _ := testEnv(t)

	_, err := execute(t, "--config", cfg, "run", "SELECT 1 LIMIT 1")
	assert.ErrorIs(t, err, errNoConnection)
}
