package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"neopir/internal/inventory"
	"neopir/internal/notify"
	"neopir/internal/report"
	"neopir/internal/responses"
	"neopir/internal/session"
	"neopir/internal/store"
)

var errPaused = errors.New("questionnaire paused")

const (
	choiceBack = "<- Previous statement"
	choiceQuit = "Save and quit"
)

func runTake(args []string, workspacePath string) error {
	fs := flag.NewFlagSet("take", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	sessionID := fs.String("session", "", "Resume this session id (default: latest unfinished session)")
	fresh := fs.Bool("new", false, "Start a new session even if one is unfinished")
	from := fs.String("from", "", "Pre-fill answers from a responses file")
	inventoryPath := fs.String("inventory", "", "Path to inventory YAML (default: <workspace>/inventory/inventory.yml)")
	sessionDB := fs.String("session-db", "", "Path to session SQLite DB (default: <workspace>/data/sessions.sqlite)")
	reportsDir := fs.String("reports-dir", "", "Directory for reports (default: <workspace>/reports)")
	auditDB := fs.String("audit-db", "", "Path to audit SQLite DB (default: <workspace>/audit/audit.sqlite)")
	notifyFlag := fs.Bool("notify", false, "Send a desktop notification when the session is paused or complete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	notifier := &notify.Notifier{Enabled: *notifyFlag}
	if *fresh && *sessionID != "" {
		return fmt.Errorf("take: --new and --session are mutually exclusive")
	}

	resolved, err := resolveWorkspaceAndOverrides(workspacePath, workspaceOverrides{
		Inventory:  *inventoryPath,
		ReportsDir: *reportsDir,
		AuditDB:    *auditDB,
		SessionDB:  *sessionDB,
	})
	if err != nil {
		return err
	}
	if err := resolved.Workspace.EnsureDirs(); err != nil {
		return err
	}
	inv, err := resolved.loadInventory()
	if err != nil {
		return err
	}

	st, err := store.Open(resolved.SessionDB)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, resumed, err := openSession(st, inv, *sessionID, *fresh)
	if err != nil {
		return err
	}
	logger := resolved.auditLogger()
	eventType := "session_started"
	if resumed {
		eventType = "session_resumed"
	}
	logStarted(logger, eventType, map[string]any{
		"session_id": sess.ID,
		"inventory":  inv.Name,
		"answered":   sess.Answered(),
	})
	appLog.Debug("session opened", "session_id", sess.ID, "resumed", resumed)

	save := func() error { return st.SaveSession(sess) }
	if err := save(); err != nil {
		return err
	}

	if *from != "" {
		path, err := resolved.Workspace.ResolvePath(*from)
		if err != nil {
			return fmt.Errorf("resolve --from: %w", err)
		}
		prefill, err := (&responses.FileSource{Path: path, Inventory: inv}).Collect(context.Background())
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(prefill))
		for id := range prefill {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := sess.Answer(id, prefill[id]); err != nil {
				return err
			}
		}
		if err := save(); err != nil {
			return err
		}
	}

	if len(sess.Missing()) > 0 {
		fmt.Fprintf(os.Stdout, "Session %s: %d of %d answered\n", sess.ID, sess.Answered(), inv.Len())
		if err := askAll(sess, inv, save); err != nil {
			if errors.Is(err, errPaused) {
				fmt.Fprintf(os.Stdout, "Progress saved (%d/%d). Resume with: %s take --workspace %s --session %s\n",
					sess.Answered(), inv.Len(), appName, resolved.Workspace.Root, sess.ID)
				sendNotification(notifier)(notify.FormatSessionPaused(sess.Answered(), inv.Len()))
				return nil
			}
			return err
		}
	}

	res, err := sess.Finalize()
	if err != nil {
		logFinished(logger, "session_finalized", map[string]any{"session_id": sess.ID}, err)
		return err
	}
	if err := save(); err != nil {
		return err
	}
	rep, err := report.Build(inv, *res, sess.Responses, report.Meta{SessionID: sess.ID, GeneratedAt: sess.UpdatedAt})
	if err != nil {
		return err
	}
	logFinished(logger, "session_finalized", map[string]any{
		"session_id": sess.ID,
		"dominant":   rep.Dominant,
		"weakest":    rep.Weakest,
	}, nil)

	outPath := report.PathFor(resolved.ReportsDir, sess.UpdatedAt, sess.ID)
	if err := report.WriteReport(outPath, rep); err != nil {
		return err
	}
	logStarted(logger, "report_written", map[string]any{"session_id": sess.ID, "output": outPath})

	sendNotification(notifier)(notify.FormatSessionComplete(sess.ID, inventory.Dimension(rep.Dominant).Name(), inventory.Dimension(rep.Weakest).Name()))

	color.New(color.Bold).Fprintln(os.Stdout, "Questionnaire complete.")
	printLevels(rep)
	fmt.Fprintf(os.Stdout, "Wrote report: %s\n", outPath)
	return nil
}

// openSession resolves which session to work on and reports whether it was
// resumed from the store.
func openSession(st *store.Store, inv *inventory.Inventory, id string, fresh bool) (*session.Session, bool, error) {
	if id != "" {
		sess, err := st.LoadSession(id, inv)
		if err != nil {
			return nil, false, err
		}
		return sess, true, nil
	}
	if !fresh {
		latest, err := st.LatestIncomplete()
		if err != nil {
			return nil, false, err
		}
		if latest != "" {
			sess, err := st.LoadSession(latest, inv)
			if err == nil {
				return sess, true, nil
			}
			appLog.Warn("could not resume latest session", "session_id", latest, "error", err)
		}
	}
	return session.New(inv), false, nil
}

func askAll(sess *session.Session, inv *inventory.Inventory, save func() error) error {
	if idx := sess.FirstUnanswered(); idx >= 0 {
		sess.Cursor = idx
	}
	for len(sess.Missing()) > 0 {
		item, ok := sess.Current()
		if !ok {
			return fmt.Errorf("cursor %d out of range", sess.Cursor)
		}

		var choices []string
		for v := inv.Scale.Min; v <= inv.Scale.Max; v++ {
			choices = append(choices, fmt.Sprintf("%d  %s", v, inv.Scale.Label(v)))
		}
		scaleChoices := len(choices)
		choices = append(choices, choiceBack, choiceQuit)

		cursor := (inv.Scale.Max - inv.Scale.Min) / 2
		if v, answered := sess.Responses[item.ID]; answered {
			cursor = v - inv.Scale.Min
		}
		prompt := promptui.Select{
			Label:        fmt.Sprintf("[%d/%d] %s", sess.Cursor+1, inv.Len(), item.Text),
			Items:        choices,
			CursorPos:    cursor,
			Size:         len(choices),
			HideSelected: true,
		}
		idx, _, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return errPaused
			}
			return fmt.Errorf("prompt: %w", err)
		}

		switch {
		case idx < scaleChoices:
			if err := sess.Answer(item.ID, inv.Scale.Min+idx); err != nil {
				return err
			}
			if err := save(); err != nil {
				return err
			}
			if !sess.Next() {
				if first := sess.FirstUnanswered(); first >= 0 {
					sess.Cursor = first
				}
			}
		case choices[idx] == choiceBack:
			sess.Previous()
		default:
			if err := save(); err != nil {
				return err
			}
			return errPaused
		}
	}
	return save()
}

func sendNotification(n *notify.Notifier) func(title, message string) {
	return func(title, message string) {
		if err := n.Send(title, message); err != nil {
			appLog.Warn("notification failed", "error", err)
		}
	}
}
