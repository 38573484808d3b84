package domain

// maxIDAttempts bounds how often CommitDraft re-draws an ID that is empty
// or already taken before giving up on the commit.
const maxIDAttempts = 64

// EditMode is the state of the editing subsystem.
type EditMode string

const (
	EditModeIdle    EditMode = "idle"
	EditModeEditing EditMode = "editing"
)

// State is the complete task list state for one session.
//
// State is a value: every operation returns a new State and never writes
// through the receiver's Tasks slice, so a State handed out as a snapshot
// stays valid after later operations.
type State struct {
	Tasks        []Task
	DraftText    string
	EditingID    string // empty when no task is being edited
	EditingDraft string
}

// NewState creates a state holding the given tasks in order.
// Tasks with an empty or repeated ID are dropped.
func NewState(tasks ...Task) State {
	seen := make(map[string]bool, len(tasks))
	kept := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		kept = append(kept, t)
	}
	return State{Tasks: kept}
}

// IndexOf returns the position of the task with the given ID, or -1.
func (s State) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Task returns the task with the given ID.
func (s State) Task(id string) (Task, bool) {
	i := s.IndexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.Tasks[i], true
}

// IsEditing returns true if a task is in edit mode.
func (s State) IsEditing() bool {
	return s.EditingID != ""
}

// Mode returns the current edit mode.
func (s State) Mode() EditMode {
	if s.IsEditing() {
		return EditModeEditing
	}
	return EditModeIdle
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.Tasks = append([]Task(nil), s.Tasks...)
	return c
}

// Equal reports whether two states hold the same tasks, drafts and editor.
func (s State) Equal(o State) bool {
	if s.DraftText != o.DraftText || s.EditingID != o.EditingID || s.EditingDraft != o.EditingDraft {
		return false
	}
	if len(s.Tasks) != len(o.Tasks) {
		return false
	}
	for i := range s.Tasks {
		if s.Tasks[i] != o.Tasks[i] {
			return false
		}
	}
	return true
}

// SetDraftText replaces the pending text for a new task.
func (s State) SetDraftText(text string) State {
	s.DraftText = text
	return s
}

// CommitDraft appends the draft as a new task and clears the draft.
// A blank draft is a no-op. The task keeps the draft text as typed.
func (s State) CommitDraft(ids IDGenerator) State {
	if isBlank(s.DraftText) || ids == nil {
		return s
	}

	id := ""
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate := ids.NextID()
		if candidate != "" && s.IndexOf(candidate) < 0 {
			id = candidate
			break
		}
	}
	if id == "" {
		return s
	}

	tasks := make([]Task, 0, len(s.Tasks)+1)
	tasks = append(tasks, s.Tasks...)
	s.Tasks = append(tasks, Task{ID: id, Text: s.DraftText})
	s.DraftText = ""
	return s
}

// DeleteTask removes the task with the given ID, keeping the order of the
// rest. Deleting the task being edited leaves edit mode.
func (s State) DeleteTask(id string) State {
	i := s.IndexOf(id)
	if i < 0 {
		return s
	}

	tasks := make([]Task, 0, len(s.Tasks)-1)
	tasks = append(tasks, s.Tasks[:i]...)
	s.Tasks = append(tasks, s.Tasks[i+1:]...)

	if s.EditingID == id {
		s = s.clearEditing()
	}
	return s
}

// StartEditing puts the task with the given ID into edit mode, seeding the
// editing draft with its current text. Any other edit in progress is dropped.
func (s State) StartEditing(id string) State {
	t, ok := s.Task(id)
	if !ok {
		return s
	}
	s.EditingID = t.ID
	s.EditingDraft = t.Text
	return s
}

// UpdateEditingDraft replaces the editing draft. No-op when idle.
func (s State) UpdateEditingDraft(text string) State {
	if !s.IsEditing() {
		return s
	}
	s.EditingDraft = text
	return s
}

// CommitEdit writes the editing draft into the edited task and leaves edit
// mode. Unlike CommitDraft, an empty draft is saved as is.
func (s State) CommitEdit() State {
	if !s.IsEditing() {
		return s
	}

	i := s.IndexOf(s.EditingID)
	if i >= 0 {
		tasks := append([]Task(nil), s.Tasks...)
		tasks[i].Text = s.EditingDraft
		s.Tasks = tasks
	}
	return s.clearEditing()
}

// CancelEdit leaves edit mode without saving. No-op when idle.
func (s State) CancelEdit() State {
	if !s.IsEditing() {
		return s
	}
	return s.clearEditing()
}

func (s State) clearEditing() State {
	s.EditingID = ""
	s.EditingDraft = ""
	return s
}
