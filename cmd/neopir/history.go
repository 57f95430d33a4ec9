package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

func runHistory(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 20, "Maximum events to show (0 for all)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{AuditDB: *auditDB})
	if err != nil {
		return err
	}
	events, err := resolved.auditLogger().Recent(*limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tACTOR\tTYPE\tPAYLOAD")
	for _, ev := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", ev.ID, ev.Timestamp, ev.Actor, ev.Type, ev.PayloadJSON)
	}
	return tw.Flush()
}
