package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"neopir/internal/httpapi"
	"neopir/internal/mcpserver"
)

func runServe(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "Listen address (default: $NEOPIR_ADDR or 127.0.0.1:8080)")
	inventoryPath := fs.String("inventory", "", "Path to inventory YAML (default: <workspace>/inventory/inventory.yml)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *addr == "" {
		*addr = os.Getenv(httpapi.EnvAddr)
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		Inventory: *inventoryPath,
		AuditDB:   *auditDB,
	})
	if err != nil {
		return err
	}
	inv, err := resolved.loadInventory()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := httpapi.NewServer(httpapi.Config{
		Inventory: inv,
		Logger:    appLog,
		Audit:     resolved.auditLogger(),
		Registry:  reg,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, *addr)
}

func runMCP(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inventoryPath := fs.String("inventory", "", "Path to inventory YAML (default: <workspace>/inventory/inventory.yml)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		Inventory: *inventoryPath,
		AuditDB:   *auditDB,
	})
	if err != nil {
		return err
	}
	inv, err := resolved.loadInventory()
	if err != nil {
		return err
	}

	appLog.Info("mcp server starting", "inventory", inv.Name)
	return mcpserver.ServeStdio(mcpserver.New(inv, resolved.auditLogger(), appLog, Version))
}
