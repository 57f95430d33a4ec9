package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"neopir/internal/audit"
	"neopir/internal/inventory"
	"neopir/internal/logging"
	"neopir/internal/report"
	"neopir/internal/scoring"
)

// ItemsTool handles the neopir_items MCP tool.
type ItemsTool struct {
	inv *inventory.Inventory
}

// NewItemsTool creates an ItemsTool over inv.
func NewItemsTool(inv *inventory.Inventory) *ItemsTool {
	return &ItemsTool{inv: inv}
}

// Definition returns the MCP tool definition for registration.
func (t *ItemsTool) Definition() mcp.Tool {
	return mcp.NewTool("neopir_items",
		mcp.WithDescription(
			"List the questionnaire statements with their ids and the Likert scale. "+
				"Answer every statement with an integer from the scale, then call neopir_score.",
		),
		mcp.WithString("dimension",
			mcp.Description("Restrict the list to one dimension code: N, E, O, A or C. Leave empty for all items."),
			mcp.Enum("N", "E", "O", "A", "C"),
		),
	)
}

// Handle processes the neopir_items tool call.
func (t *ItemsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := strings.ToUpper(strings.TrimSpace(req.GetString("dimension", "")))

	items := t.inv.Items()
	if filter != "" {
		d := inventory.Dimension(filter)
		if !d.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown dimension %q", filter)), nil
		}
		items = t.inv.ItemsFor(d)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nScale:\n", t.inv.Name)
	for v := t.inv.Scale.Min; v <= t.inv.Scale.Max; v++ {
		fmt.Fprintf(&b, "- %d: %s\n", v, t.inv.Scale.Label(v))
	}
	b.WriteString("\nItems:\n")
	for _, it := range items {
		fmt.Fprintf(&b, "- `%s` %s\n", it.ID, it.Text)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ScoreTool handles the neopir_score MCP tool.
type ScoreTool struct {
	inv    *inventory.Inventory
	audit  *audit.Logger
	logger *slog.Logger
	now    func() time.Time
}

// NewScoreTool creates a ScoreTool. auditLog and logger may be nil.
func NewScoreTool(inv *inventory.Inventory, auditLog *audit.Logger, logger *slog.Logger) *ScoreTool {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ScoreTool{inv: inv, audit: auditLog, logger: logger, now: time.Now}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("neopir_score",
		mcp.WithDescription(
			"Score questionnaire answers and return a markdown personality profile. "+
				"Percentiles are a linear transform of raw scores, not normed values.",
		),
		mcp.WithString("responses",
			mcp.Required(),
			mcp.Description(`JSON object mapping item id to answer, e.g. {"N1": 4, "E1": 2}.`),
		),
		mcp.WithBoolean("strict",
			mcp.Description("Reject the call unless every item is answered. Defaults to false."),
		),
	)
}

// Handle processes the neopir_score tool call.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("responses", "")
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("responses is required"), nil
	}
	strict := boolArg(req, "strict", false)

	var responses scoring.Responses
	if err := json.Unmarshal([]byte(raw), &responses); err != nil {
		return mcp.NewToolResultError("responses must be a JSON object of item id to integer: " + err.Error()), nil
	}
	if err := scoring.Validate(t.inv, responses); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strict {
		if err := scoring.RequireComplete(t.inv, responses); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	res := scoring.Evaluate(t.inv, responses)
	rep, err := report.Build(t.inv, res, responses, report.Meta{GeneratedAt: t.now()})
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}

	if t.audit != nil {
		// audit failures must not fail the tool call
		if err := t.audit.LogEvent("mcp", "score_finished", map[string]any{
			"answered": rep.Answered,
			"dominant": rep.Dominant,
			"weakest":  rep.Weakest,
		}); err != nil {
			t.logger.Warn("audit log failed", "event", "score_finished", "error", err)
		}
	}
	return mcp.NewToolResultText(report.Markdown(rep)), nil
}

func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
