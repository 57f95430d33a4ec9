package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"neopir/internal/inventory"
)

func runItems(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inventoryPath := fs.String("inventory", "", "Path to inventory YAML (default: <workspace>/inventory/inventory.yml, else embedded)")
	dimension := fs.String("dimension", "", "Only list items of one dimension (N, E, O, A, C)")
	showKeys := fs.Bool("keys", false, "Show facet and keying")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var inv *inventory.Inventory
	var err error
	if strings.TrimSpace(workspacePath) == "" {
		inv, err = inventory.Load(*inventoryPath)
		if err != nil {
			return fmt.Errorf("load inventory: %w", err)
		}
	} else {
		resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{Inventory: *inventoryPath})
		if err != nil {
			return err
		}
		if inv, err = resolved.loadInventory(); err != nil {
			return err
		}
	}

	items := inv.Items()
	if *dimension != "" {
		d := inventory.Dimension(strings.ToUpper(*dimension))
		if !d.Valid() {
			return fmt.Errorf("unknown dimension %q", *dimension)
		}
		items = inv.ItemsFor(d)
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for _, item := range items {
		line := fmt.Sprintf("%s %s", bold(fmt.Sprintf("%-4s", item.ID)), item.Text)
		if *showKeys {
			key := "+"
			if item.Reverse {
				key = "-"
			}
			line += " " + faint(fmt.Sprintf("[%s/%s %s]", item.Dimension, item.Facet, key))
		}
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}
