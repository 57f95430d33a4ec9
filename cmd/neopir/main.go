package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"neopir/internal/audit"
	"neopir/internal/inventory"
	"neopir/internal/logging"
	"neopir/internal/workspace"
)

const (
	appName = "neopir"
	Version = "0.3.0"
)

var appLog = logging.New(logging.FromEnv(logging.Config{}))

func main() {
	flag.String("workspace", "", "Path to workspace root")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s: short-form Big Five questionnaire and scorer\n\n", appName)
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [command] [flags]\n\n", appName)
		fmt.Fprintln(os.Stderr, "Commands:")
		fmt.Fprintln(os.Stderr, "  init      Initialize a new workspace")
		fmt.Fprintln(os.Stderr, "  items     List questionnaire items")
		fmt.Fprintln(os.Stderr, "  take      Take the questionnaire interactively (resumable)")
		fmt.Fprintln(os.Stderr, "  score     Score a responses file into a report")
		fmt.Fprintln(os.Stderr, "  show      Render a report in the terminal")
		fmt.Fprintln(os.Stderr, "  compare   Compare two reports")
		fmt.Fprintln(os.Stderr, "  sessions  List or delete stored sessions")
		fmt.Fprintln(os.Stderr, "  history   Show recent audit events")
		fmt.Fprintln(os.Stderr, "  serve     Serve the JSON API")
		fmt.Fprintln(os.Stderr, "  mcp       Serve MCP tools over stdio")
		fmt.Fprintln(os.Stderr, "  version   Print the version")
		fmt.Fprintln(os.Stderr, "  help      Show this help")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}

	workspacePath, remaining, err := extractWorkspaceFlag(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args := remaining
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		flag.Usage()
		return
	}

	commands := map[string]func([]string, string) error{
		"init":     runInit,
		"items":    runItems,
		"take":     runTake,
		"score":    runScore,
		"show":     runShow,
		"compare":  runCompare,
		"sessions": runSessions,
		"history":  runHistory,
		"serve":    runServe,
		"mcp":      runMCP,
	}
	if args[0] == "version" {
		fmt.Fprintln(os.Stdout, Version)
		return
	}
	run, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
	if err := run(args[1:], workspacePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type workspaceOverrides struct {
	Inventory  string
	ReportsDir string
	AuditDB    string
	SessionDB  string
}

type resolvedWorkspace struct {
	Workspace  *workspace.Workspace
	Inventory  string
	ReportsDir string
	AuditDB    string
	SessionDB  string
}

func resolveWorkspaceAndOverrides(root string, overrides workspaceOverrides) (*resolvedWorkspace, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("--workspace is required")
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return nil, err
	}
	resolved := &resolvedWorkspace{
		Workspace:  ws,
		Inventory:  ws.InventoryPath,
		ReportsDir: ws.ReportsDir,
		AuditDB:    ws.AuditDBPath,
		SessionDB:  ws.SessionDBPath,
	}
	if env := os.Getenv(audit.EnvAuditDB); env != "" {
		resolved.AuditDB = env
	}

	resolve := func(flagName, value string, dst *string) error {
		if value == "" {
			return nil
		}
		p, err := ws.ResolvePath(value)
		if err != nil {
			return fmt.Errorf("resolve --%s: %w", flagName, err)
		}
		*dst = p
		return nil
	}
	if err := resolve("inventory", overrides.Inventory, &resolved.Inventory); err != nil {
		return nil, err
	}
	if err := resolve("reports-dir", overrides.ReportsDir, &resolved.ReportsDir); err != nil {
		return nil, err
	}
	if err := resolve("audit-db", overrides.AuditDB, &resolved.AuditDB); err != nil {
		return nil, err
	}
	if err := resolve("session-db", overrides.SessionDB, &resolved.SessionDB); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (r *resolvedWorkspace) loadInventory() (*inventory.Inventory, error) {
	inv, err := inventory.Load(r.Inventory)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	return inv, nil
}

func (r *resolvedWorkspace) auditLogger() *audit.Logger {
	return audit.NewLogger(r.AuditDB)
}

func extractWorkspaceFlag(args []string) (string, []string, error) {
	var workspacePath string
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--workspace" {
			if i+1 >= len(args) {
				return "", nil, fmt.Errorf("--workspace requires a value")
			}
			workspacePath = args[i+1]
			i++
			continue
		}
		if strings.HasPrefix(arg, "--workspace=") {
			workspacePath = strings.TrimPrefix(arg, "--workspace=")
			continue
		}
		remaining = append(remaining, arg)
	}
	return workspacePath, remaining, nil
}

func logStarted(logger *audit.Logger, eventType string, payload map[string]any) {
	if err := logger.LogEvent("cli", eventType, payload); err != nil {
		fmt.Fprintln(os.Stderr, "audit log failed:", err)
	}
}

func logFinished(logger *audit.Logger, eventType string, payload map[string]any, err error) {
	if payload == nil {
		payload = map[string]any{}
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	logStarted(logger, eventType, payload)
}
