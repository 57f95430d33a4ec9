package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"neopir/internal/report"
)

func runCompare(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	from := fs.String("from", "", "Earlier report (default: second latest in <workspace>/reports)")
	to := fs.String("to", "", "Later report (default: latest in <workspace>/reports)")
	reportsDir := fs.String("reports-dir", "", "Directory for reports (default: <workspace>/reports)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	showDiff := fs.Bool("diff", false, "Also print a unified diff of the rendered reports")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		ReportsDir: *reportsDir,
		AuditDB:    *auditDB,
	})
	if err != nil {
		return err
	}

	fromPath, toPath, err := comparePaths(resolved, *from, *to)
	if err != nil {
		return err
	}

	logger := resolved.auditLogger()
	logStarted(logger, "compare_started", map[string]any{"from": fromPath, "to": toPath})

	a, err := report.LoadReport(fromPath)
	if err != nil {
		logFinished(logger, "compare_finished", map[string]any{"from": fromPath}, err)
		return err
	}
	b, err := report.LoadReport(toPath)
	if err != nil {
		logFinished(logger, "compare_finished", map[string]any{"to": toPath}, err)
		return err
	}

	deltas := report.Compare(a, b)
	changed := 0
	fmt.Fprintf(os.Stdout, "%s -> %s\n", a.GeneratedAt, b.GeneratedAt)
	for _, d := range deltas {
		sign := color.New(color.Faint)
		switch {
		case d.Change > 0:
			sign = color.New(color.FgGreen)
		case d.Change < 0:
			sign = color.New(color.FgRed)
		}
		line := fmt.Sprintf("  %-18s %5.1f -> %5.1f  %s", d.Name, d.From, d.To, sign.Sprintf("%+6.1f", d.Change))
		if d.LevelChanged() {
			changed++
			line += fmt.Sprintf("  %s -> %s", d.FromLevel, d.ToLevel)
		}
		fmt.Fprintln(os.Stdout, line)
	}

	if *showDiff {
		text, err := report.Diff(a, b, fromPath, toPath)
		if err != nil {
			logFinished(logger, "compare_finished", nil, err)
			return err
		}
		if text == "" {
			fmt.Fprintln(os.Stdout, "\nReports render identically.")
		} else {
			fmt.Fprintln(os.Stdout)
			fmt.Fprint(os.Stdout, text)
		}
	}

	logFinished(logger, "compare_finished", map[string]any{
		"from":           fromPath,
		"to":             toPath,
		"levels_changed": changed,
	}, nil)
	return nil
}

func comparePaths(resolved *resolvedWorkspace, from, to string) (string, string, error) {
	if from != "" && to != "" {
		a, err := resolved.Workspace.ResolvePath(from)
		if err != nil {
			return "", "", fmt.Errorf("resolve --from: %w", err)
		}
		b, err := resolved.Workspace.ResolvePath(to)
		if err != nil {
			return "", "", fmt.Errorf("resolve --to: %w", err)
		}
		return a, b, nil
	}
	if from != "" || to != "" {
		return "", "", fmt.Errorf("compare: pass both --from and --to, or neither")
	}
	paths, err := report.List(resolved.ReportsDir)
	if err != nil {
		return "", "", err
	}
	if len(paths) < 2 {
		return "", "", fmt.Errorf("compare: need at least two reports in %s, found %d", resolved.ReportsDir, len(paths))
	}
	return paths[len(paths)-2], paths[len(paths)-1], nil
}
