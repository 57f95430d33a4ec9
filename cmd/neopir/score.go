package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"neopir/internal/inventory"
	"neopir/internal/report"
	"neopir/internal/responses"
	"neopir/internal/scoring"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func runScore(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	var files stringList
	fs.Var(&files, "responses", "Responses YAML/JSON file (repeatable; later files override earlier ones)")
	uniform := fs.Int("uniform", 0, "Answer every item with this value before applying --responses")
	strict := fs.Bool("strict", false, "Fail unless every item is answered")
	inventoryPath := fs.String("inventory", "", "Path to inventory YAML (default: <workspace>/inventory/inventory.yml)")
	reportsDir := fs.String("reports-dir", "", "Directory for reports (default: <workspace>/reports)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	output := fs.String("output", "", "Report path, or - for stdout (default: <reports-dir>/<timestamp>.json)")
	format := fs.String("format", "json", "Stdout format when --output=-: json or markdown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(files) == 0 && *uniform == 0 {
		return fmt.Errorf("score: --responses or --uniform is required")
	}
	if *format != "json" && *format != "markdown" {
		return fmt.Errorf("score: unknown --format %q", *format)
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		Inventory:  *inventoryPath,
		ReportsDir: *reportsDir,
		AuditDB:    *auditDB,
	})
	if err != nil {
		return err
	}
	inv, err := resolved.loadInventory()
	if err != nil {
		return err
	}

	var sources []responses.Source
	if *uniform != 0 {
		sources = append(sources, &responses.UniformSource{Inventory: inv, Value: *uniform})
	}
	for _, f := range files {
		path, err := resolved.Workspace.ResolvePath(f)
		if err != nil {
			return fmt.Errorf("resolve --responses: %w", err)
		}
		sources = append(sources, &responses.FileSource{Path: path, Inventory: inv})
	}

	logger := resolved.auditLogger()
	logStarted(logger, "score_started", map[string]any{
		"workspace": resolved.Workspace.Root,
		"inventory": inv.Name,
		"sources":   len(sources),
		"strict":    *strict,
	})

	finish := map[string]any{}
	rep, err := scoreSources(context.Background(), inv, sources, *strict)
	if err != nil {
		var inc *scoring.IncompleteError
		if errors.As(err, &inc) {
			finish["missing"] = len(inc.Missing)
		}
		logFinished(logger, "score_finished", finish, err)
		return err
	}
	finish["answered"] = rep.Answered
	finish["dominant"] = rep.Dominant
	finish["weakest"] = rep.Weakest

	if *output == "-" {
		logFinished(logger, "score_finished", finish, nil)
		if *format == "markdown" {
			fmt.Fprint(os.Stdout, report.Markdown(rep))
			return nil
		}
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}

	outPath := *output
	if outPath == "" {
		outPath = report.PathFor(resolved.ReportsDir, time.Now(), rep.SessionID)
	} else if outPath, err = resolved.Workspace.ResolvePath(outPath); err != nil {
		return fmt.Errorf("resolve --output: %w", err)
	}
	if err := report.WriteReport(outPath, rep); err != nil {
		logFinished(logger, "score_finished", finish, err)
		return err
	}
	finish["output"] = outPath
	logFinished(logger, "score_finished", finish, nil)
	logStarted(logger, "report_written", map[string]any{"output": outPath})

	fmt.Fprintf(os.Stdout, "Wrote report: %s\n", outPath)
	printLevels(rep)
	return nil
}

func scoreSources(ctx context.Context, inv *inventory.Inventory, sources []responses.Source, strict bool) (*report.Report, error) {
	r, err := responses.CollectAll(ctx, sources)
	if err != nil {
		return nil, err
	}
	if strict {
		if err := scoring.RequireComplete(inv, r); err != nil {
			return nil, err
		}
	}
	res := scoring.Evaluate(inv, r)
	return report.Build(inv, res, r, report.Meta{GeneratedAt: time.Now()})
}
