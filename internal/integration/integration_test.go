package integration

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/xvierd/todo-cli/internal/adapters/mcp"
	"github.com/xvierd/todo-cli/internal/adapters/script"
	"github.com/xvierd/todo-cli/internal/adapters/tui"
	"github.com/xvierd/todo-cli/internal/domain"
	"github.com/xvierd/todo-cli/internal/ports"
	"github.com/xvierd/todo-cli/internal/services"
)

// recorder collects every state change reported by a controller.
type recorder struct {
	ops    []string
	states []domain.State
}

func (r *recorder) OnStateChange(op string, s domain.State) {
	r.ops = append(r.ops, op)
	r.states = append(r.states, s)
}

func newSession(t *testing.T) (*services.TaskListController, *recorder) {
	t.Helper()
	list := services.NewTaskListController(domain.NewCounterIDs())
	rec := &recorder{}
	unsubscribe := list.Subscribe(rec)
	t.Cleanup(unsubscribe)
	return list, rec
}

func keyMsg(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func drive(t *testing.T, m tea.Model, keys ...string) tea.Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(keyMsg(k))
	}
	return m
}

// TestTaskListLifecycle drives one session through add, edit and delete
// with a script and checks every intermediate state.
func TestTaskListLifecycle(t *testing.T) {
	list, rec := newSession(t)

	t.Run("add, edit and delete", func(t *testing.T) {
		// 1. Add two tasks
		err := script.Run(strings.NewReader("draft Buy milk\ncommit\ndraft Walk dog\ncommit\n"), list)
		if err != nil {
			t.Fatalf("failed to run script: %v", err)
		}

		s := list.Snapshot()
		if len(s.Tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(s.Tasks))
		}
		if s.Tasks[0].ID == s.Tasks[1].ID {
			t.Error("task IDs should be unique")
		}

		// 2. Edit the second task
		err = script.Run(strings.NewReader("edit 2\neditdraft Walk the dog\nsave\n"), list)
		if err != nil {
			t.Fatalf("failed to run script: %v", err)
		}
		if got := list.Snapshot().Tasks[1].Text; got != "Walk the dog" {
			t.Errorf("expected edited text, got %q", got)
		}

		// 3. Delete the first task, twice
		script.Apply(list, []script.Op{{Kind: script.OpDelete, Arg: "1"}, {Kind: script.OpDelete, Arg: "1"}})
		s = list.Snapshot()
		if len(s.Tasks) != 1 || s.Tasks[0].ID != "2" {
			t.Errorf("expected only task 2 to remain, got %v", s.Tasks)
		}
	})

	t.Run("observers saw only real changes", func(t *testing.T) {
		want := []string{
			services.OpSetDraftText, services.OpCommitDraft,
			services.OpSetDraftText, services.OpCommitDraft,
			services.OpStartEditing, services.OpUpdateEditingDraft, services.OpCommitEdit,
			services.OpDeleteTask,
		}
		if strings.Join(rec.ops, ",") != strings.Join(want, ",") {
			t.Errorf("ops = %v, want %v", rec.ops, want)
		}
	})

	t.Run("earlier snapshots are unaffected", func(t *testing.T) {
		first := rec.states[1]
		if len(first.Tasks) != 1 || first.Tasks[0].Text != "Buy milk" {
			t.Errorf("first commit snapshot changed: %v", first.Tasks)
		}
	})
}

// TestTUIAndMCPShareState checks that changes made through the terminal UI
// are visible through the MCP tools and the other way round.
func TestTUIAndMCPShareState(t *testing.T) {
	list, _ := newSession(t)
	server := mcp.NewServer(list)
	ctx := context.Background()

	// 1. Add a task in the UI
	drive(t, tui.NewHomeModel(list, nil), "B", "u", "y", " ", "m", "i", "l", "k", "enter")

	// 2. Read it back through MCP
	result, err := server.CallTool(ctx, "get_state", nil)
	if err != nil {
		t.Fatalf("get_state failed: %v", err)
	}
	view := decode(t, result)
	if len(view.Tasks) != 1 || view.Tasks[0].Text != "Buy milk" {
		t.Fatalf("expected the UI task over MCP, got %v", view.Tasks)
	}

	// 3. Start editing over MCP; the UI shows the edit on its next update
	if _, err := server.CallTool(ctx, "start_editing", map[string]interface{}{"task_id": view.Tasks[0].ID}); err != nil {
		t.Fatalf("start_editing failed: %v", err)
	}
	screen := drive(t, tui.NewHomeModel(list, nil), "backspace", "backspace", "backspace", "backspace", "b", "r", "e", "a", "d", "enter")

	if got := list.Snapshot().Tasks[0].Text; got != "Buy bread" {
		t.Errorf("expected UI edit to save, got %q", got)
	}
	if !strings.Contains(screen.View(), "Buy bread") {
		t.Error("the UI should render the saved text")
	}
}

// TestUnknownRouteLeavesStateAlone opens the not-found screen on a
// populated list.
func TestUnknownRouteLeavesStateAlone(t *testing.T) {
	list, rec := newSession(t)
	script.Apply(list, []script.Op{{Kind: script.OpDraft, Arg: "A"}, {Kind: script.OpCommit}})
	before := len(rec.ops)

	screen := tui.NewScreen("/settings", list, nil)
	screen = drive(t, screen, "d", "x", "e")

	if !strings.Contains(screen.View(), "404 - Page Not Found") {
		t.Error("unknown routes should render the not-found screen")
	}
	if len(rec.ops) != before {
		t.Error("the not-found screen should not touch the task list")
	}
}

func decode(t *testing.T, result *mcpgo.CallToolResult) ports.StateView {
	t.Helper()
	if result == nil || result.IsError || len(result.Content) == 0 {
		t.Fatalf("unexpected tool result: %+v", result)
	}
	text, ok := result.Content[0].(mcpgo.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	var view ports.StateView
	if err := json.Unmarshal([]byte(text.Text), &view); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	return view
}
