package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"golang.org/x/term"

	"neopir/internal/report"
	"neopir/internal/scoring"
)

func runShow(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	reportPath := fs.String("report", "", "Report JSON path (default: latest in <workspace>/reports)")
	reportsDir := fs.String("reports-dir", "", "Directory for reports (default: <workspace>/reports)")
	raw := fs.Bool("raw", false, "Print markdown without terminal styling")
	style := fs.String("style", "auto", "Glamour style: auto, dark, light, notty")
	width := fs.Int("width", 0, "Wrap width (default: terminal width)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{ReportsDir: *reportsDir})
	if err != nil {
		return err
	}
	path, err := resolveReportPath(resolved, *reportPath)
	if err != nil {
		return err
	}
	rep, err := report.LoadReport(path)
	if err != nil {
		return err
	}

	md := report.Markdown(rep)
	if *raw {
		fmt.Fprint(os.Stdout, md)
		return nil
	}
	fmt.Fprint(os.Stdout, renderMarkdown(md, *style, *width))
	return nil
}

func resolveReportPath(resolved *resolvedWorkspace, path string) (string, error) {
	if path == "" {
		return report.Latest(resolved.ReportsDir)
	}
	p, err := resolved.Workspace.ResolvePath(path)
	if err != nil {
		return "", fmt.Errorf("resolve report path: %w", err)
	}
	return p, nil
}

// renderMarkdown styles md for the terminal, falling back to plain text.
func renderMarkdown(md, style string, width int) string {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if width <= 0 {
		width = terminalWidth()
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width - 4)}
	switch {
	case style == "auto" && !isTTY:
		opts = append(opts, glamour.WithStandardStyle("notty"))
	case style == "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		appLog.Debug("glamour renderer unavailable", "error", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		appLog.Debug("glamour render failed", "error", err)
		return md
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func levelColor(level scoring.Level) *color.Color {
	switch level {
	case scoring.LevelHigh:
		return color.New(color.FgGreen, color.Bold)
	case scoring.LevelLow:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

// printLevels writes a compact one-line-per-dimension summary.
func printLevels(rep *report.Report) {
	for _, d := range rep.Dimensions {
		bar := strings.Repeat("#", int(d.Percentile/5))
		fmt.Fprintf(os.Stdout, "  %-18s %5.1f %-20s %s\n", d.Name, d.Percentile, bar, levelColor(d.Level).Sprint(d.Level))
	}
}
