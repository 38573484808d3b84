package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/todo-cli/internal/adapters/script"
	"github.com/xvierd/todo-cli/internal/domain"
	"github.com/xvierd/todo-cli/internal/ports"
)

// Output formats for replay.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

const markdownWidth = 80

var (
	replayFormat string
	replayTrace  bool
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay [file|-]",
	Short: "Apply a script of operations and print the final task list",
	Long: `Read a script of task list operations from a file, or stdin when the
file is "-" or omitted, apply it to a fresh list and print the result.

One operation per line; blank lines and lines starting with # are ignored:

  draft <text>       set the new-task draft
  commit             add the draft as a task
  delete <id>        delete a task
  edit <id>          start editing a task
  editdraft <text>   replace the editing draft
  save               save the edit
  cancel             leave edit mode without saving`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVarP(&replayFormat, "format", "f", formatText, "Output format: text, json, markdown")
	replayCmd.Flags().BoolVar(&replayTrace, "trace", false, "Print every state change to stderr")
}

func runReplay(cmd *cobra.Command, args []string) error {
	switch replayFormat {
	case formatText, formatJSON, formatMarkdown:
	default:
		return fmt.Errorf("invalid format %q: must be one of text, json, markdown", replayFormat)
	}

	in := cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		in = f
		name = args[0]
	}

	ops, err := script.Parse(in)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	list, err := newController()
	if err != nil {
		return err
	}

	if replayTrace {
		errOut := cmd.ErrOrStderr()
		unsubscribe := list.Subscribe(ports.StateObserverFunc(func(op string, s domain.State) {
			fmt.Fprintf(errOut, "%-20s tasks=%d draft=%q mode=%s\n", op, len(s.Tasks), s.DraftText, s.Mode())
		}))
		defer unsubscribe()
	}

	script.Apply(list, ops)
	logger.Debug("replay finished", "script", name, "ops", len(ops))

	return printState(cmd.OutOrStdout(), list.Snapshot(), replayFormat)
}

// printState writes s to w in the given format.
func printState(w io.Writer, s domain.State, format string) error {
	switch format {
	case formatJSON:
		jsonData, err := json.MarshalIndent(ports.NewStateView(s), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal state: %w", err)
		}
		fmt.Fprintln(w, string(jsonData))
		return nil

	case formatMarkdown:
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(markdownStyle(w)),
			glamour.WithWordWrap(markdownWidth),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		out, err := r.Render(stateMarkdown(s))
		if err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
		fmt.Fprint(w, out)
		return nil

	default:
		fmt.Fprint(w, stateText(s))
		return nil
	}
}

// markdownStyle picks a colored style only when w is a terminal.
func markdownStyle(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(f.Fd()) {
		return "dark"
	}
	return "notty"
}

func stateText(s domain.State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tasks (%d):\n", len(s.Tasks))
	if len(s.Tasks) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, t := range s.Tasks {
		marker := " "
		if t.ID == s.EditingID {
			marker = "*"
		}
		fmt.Fprintf(&b, " %s[%s] %s\n", marker, t.ID, t.Text)
	}

	fmt.Fprintf(&b, "Draft: %q\n", s.DraftText)
	if s.IsEditing() {
		fmt.Fprintf(&b, "Editing: %s %q\n", s.EditingID, s.EditingDraft)
	} else {
		b.WriteString("Editing: none\n")
	}
	return b.String()
}

func stateMarkdown(s domain.State) string {
	var b strings.Builder

	b.WriteString("# Todo App\n\n")
	if len(s.Tasks) == 0 {
		b.WriteString("_No tasks yet._\n")
	} else {
		b.WriteString("| ID | Task |\n|---|---|\n")
		for _, t := range s.Tasks {
			text := strings.ReplaceAll(t.Text, "|", `\|`)
			if t.ID == s.EditingID {
				text += " _(editing)_"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", t.ID, text)
		}
	}

	if s.DraftText != "" {
		fmt.Fprintf(&b, "\n**Draft:** %s\n", s.DraftText)
	}
	if s.IsEditing() {
		fmt.Fprintf(&b, "\n**Editing %s:** %s\n", s.EditingID, s.EditingDraft)
	}
	return b.String()
}
