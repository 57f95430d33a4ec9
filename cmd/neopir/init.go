package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"neopir/internal/audit"
	"neopir/internal/inventory"
	"neopir/internal/responses"
	"neopir/internal/scoring"
	"neopir/internal/workspace"
)

func runInit(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	withExample := fs.Bool("example", true, "Write an example responses file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(workspacePath) == "" {
		return fmt.Errorf("--workspace is required")
	}

	root, err := workspace.ResolveRoot(workspacePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}

	auditPath := ws.AuditDBPath
	if env := os.Getenv(audit.EnvAuditDB); env != "" {
		auditPath = env
	}
	logger := audit.NewLogger(auditPath)
	logStarted(logger, "workspace_init_started", map[string]any{"workspace": ws.Root})

	var finishErr error
	defer func() {
		logFinished(logger, "workspace_init_finished", map[string]any{"workspace": ws.Root}, finishErr)
	}()

	if err := ws.EnsureDirs(); err != nil {
		finishErr = err
		return finishErr
	}
	if err := writeFileIfMissing(ws.InventoryPath, string(inventory.DefaultYAML())); err != nil {
		finishErr = err
		return finishErr
	}
	if *withExample {
		examplePath := filepath.Join(ws.ResponsesDir, "example.yml")
		if _, err := os.Stat(examplePath); os.IsNotExist(err) {
			inv := inventory.MustDefault()
			example := make(scoring.Responses, inv.Len())
			for _, item := range inv.Items() {
				example[item.ID] = 3
			}
			if err := responses.WriteFile(examplePath, example); err != nil {
				finishErr = err
				return finishErr
			}
		}
	}

	fmt.Fprintf(os.Stdout, "Initialized workspace: %s\n", ws.Root)
	return nil
}

func writeFileIfMissing(path string, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure dir for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}
