package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhath/ezquery/internal/guardrail"
	"github.com/nhath/ezquery/internal/result"
)

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp(false, true)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := a.engine()
	outcome := engine.Classify(args[0])
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", outcome.Severity, outcome.Message)
	if !guardrail.CanRun(outcome) {
		return fmt.Errorf("statement rejected")
	}

	prepared := engine.PrepareForExecution(args[0])
	if prepared.Rewritten {
		fmt.Fprintf(out, "will run:\n%s\n", prepared.Statement)
	}
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := openApp(false, false)
	if err != nil {
		return err
	}
	defer a.Close()

	session, _, err := a.session()
	if err != nil {
		return err
	}

	session.SetStatement(args[0])
	res, err := session.Run(cmd.Context())
	if err != nil {
		return err
	}
	if session.Statement() != args[0] {
		fmt.Fprintf(cmd.ErrOrStderr(), "rewritten to: %s\n", strings.ReplaceAll(session.Statement(), "\n", " "))
	}

	text, err := result.ToDelimitedText(res)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	fmt.Fprintf(cmd.ErrOrStderr(), "%d rows in %dms\n", res.TotalRows, res.ExecutionTimeMs())

	if export, _ := cmd.Flags().GetBool("export"); export {
		path, err := session.Export(a.cfg.ExportDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", path)
	}
	return nil
}

func runTables(cmd *cobra.Command, args []string) error {
	a, err := openApp(false, true)
	if err != nil {
		return err
	}
	defer a.Close()

	driver, _, err := a.openDriver()
	if err != nil {
		return err
	}
	tables, err := driver.Tables(cmd.Context())
	if err != nil {
		return err
	}
	for _, t := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}
