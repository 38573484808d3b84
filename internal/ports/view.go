package ports

import "github.com/xvierd/todo-cli/internal/domain"

// TaskView is the serialized form of a task.
type TaskView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// StateView is the serialized form of a state snapshot, shared by the
// adapters that print or return state.
type StateView struct {
	Tasks        []TaskView `json:"tasks"`
	Count        int        `json:"count"`
	DraftText    string     `json:"draft_text"`
	Mode         string     `json:"mode"`
	EditingID    *string    `json:"editing_id"`
	EditingDraft string     `json:"editing_draft,omitempty"`
}

// NewStateView converts a snapshot into its serialized form.
func NewStateView(s domain.State) StateView {
	v := StateView{
		Tasks:     make([]TaskView, 0, len(s.Tasks)),
		Count:     len(s.Tasks),
		DraftText: s.DraftText,
		Mode:      string(s.Mode()),
	}
	for _, t := range s.Tasks {
		v.Tasks = append(v.Tasks, TaskView{ID: t.ID, Text: t.Text})
	}
	if s.IsEditing() {
		id := s.EditingID
		v.EditingID = &id
		v.EditingDraft = s.EditingDraft
	}
	return v
}
