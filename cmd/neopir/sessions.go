package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"neopir/internal/store"
)

func runSessions(args []string, workspacePath string) error {
	if len(args) > 0 && args[0] == "delete" {
		return runSessionsDelete(args[1:], workspacePath)
	}
	if len(args) > 0 && args[0] == "list" {
		args = args[1:]
	}

	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	limit := fs.Int("limit", 20, "Maximum sessions to list (0 for all)")
	sessionDB := fs.String("session-db", "", "Path to session SQLite DB (default: <workspace>/data/sessions.sqlite)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{SessionDB: *sessionDB})
	if err != nil {
		return err
	}
	st, err := store.Open(resolved.SessionDB)
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.ListSessions(*limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tUPDATED\tANSWERED\tSTATUS")
	for _, s := range list {
		status := "in progress"
		if s.Completed {
			status = "completed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			s.ID,
			s.StartedAt.Local().Format(time.DateTime),
			s.UpdatedAt.Local().Format(time.DateTime),
			s.Answered,
			status,
		)
	}
	return tw.Flush()
}

func runSessionsDelete(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("sessions delete", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	sessionDB := fs.String("session-db", "", "Path to session SQLite DB (default: <workspace>/data/sessions.sqlite)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s sessions delete: exactly one session id is required", appName)
	}
	id := fs.Arg(0)

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		SessionDB: *sessionDB,
		AuditDB:   *auditDB,
	})
	if err != nil {
		return err
	}
	st, err := store.Open(resolved.SessionDB)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteSession(id); err != nil {
		return err
	}
	logStarted(resolved.auditLogger(), "session_deleted", map[string]any{"session_id": id})
	fmt.Fprintf(os.Stdout, "Deleted session: %s\n", id)
	return nil
}
