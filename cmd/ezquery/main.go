// Command ezquery is a read-only SQL workbench for the terminal.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhath/ezquery/internal/ui"
)

var (
	configPath string
	debug      bool
	profile    string
	dsn        string
	remote     string
)

var rootCmd = &cobra.Command{
	Use:   "ezquery",
	Short: "Read-only SQL query workbench",
	Long: `ezquery is a terminal workbench for read-only SQL.

Statements are checked before they run: only SELECT is allowed, writes and
DDL are refused, and a LIMIT is added when missing. Results can be exported
as CSV and the last queries are kept in a short history.

Run without arguments to open the interactive editor.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

var checkCmd = &cobra.Command{
	Use:   "check [sql]",
	Short: "Validate a statement without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var runCmd = &cobra.Command{
	Use:   "run [sql]",
	Short: "Run a statement and print the result as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables of the selected profile",
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the query history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent queries, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the query history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the execution gateway over HTTP",
	Long: `Serves POST /api/data/query against the selected profile.

The gateway applies its own checks: SELECT only, no write or DDL keywords,
LIMIT at most the configured maximum, LIMIT added when missing.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default XDG config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "connection profile name")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "connection string (postgres://, mysql://, sqlite:// or a file path)")
	rootCmd.PersistentFlags().StringVar(&remote, "remote", "", "run statements through the gateway at this URL")

	runCmd.Flags().Bool("export", false, "also write the result to the export directory")
	serveCmd.Flags().String("addr", "", "listen address (default from config)")

	historyCmd.AddCommand(historyListCmd, historyClearCmd)
	rootCmd.AddCommand(checkCmd, runCmd, tablesCmd, historyCmd, serveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := openApp(true, false)
	if err != nil {
		return err
	}
	defer a.Close()

	session, label, err := a.session()
	if err != nil {
		return err
	}

	p := tea.NewProgram(ui.NewModel(session, a.cfg, label, a.logger), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
