package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func runHistoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(false, false)
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.store.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no history")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Status, e.QueryPreview(80))
	}
	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(false, false)
	if err != nil {
		return err
	}
	defer a.Close()

	a.store.Clear()
	fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
	return nil
}
