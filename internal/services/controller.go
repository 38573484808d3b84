// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"github.com/charmbracelet/log"
	"github.com/xvierd/todo-cli/internal/domain"
	"github.com/xvierd/todo-cli/internal/logging"
	"github.com/xvierd/todo-cli/internal/ports"
)

// Operation names reported to observers and logs.
const (
	OpSetDraftText       = "set_draft_text"
	OpCommitDraft        = "commit_draft"
	OpDeleteTask         = "delete_task"
	OpStartEditing       = "start_editing"
	OpUpdateEditingDraft = "update_editing_draft"
	OpCommitEdit         = "commit_edit"
	OpCancelEdit         = "cancel_edit"
)

// TaskListController owns the session's task list state and applies
// operations to it one at a time.
//
// It is not safe for concurrent use. Callers dispatch operations from a
// single event loop, or serialize them themselves.
type TaskListController struct {
	state     domain.State
	ids       domain.IDGenerator
	logger    *log.Logger
	observers map[int]ports.StateObserver
	order     []int
	nextObs   int
}

// Ensure TaskListController implements ports.Observable.
var _ ports.Observable = (*TaskListController)(nil)

// ControllerOption configures a TaskListController.
type ControllerOption func(*TaskListController)

// WithLogger sets the logger used for mutation logs.
func WithLogger(logger *log.Logger) ControllerOption {
	return func(c *TaskListController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitialState seeds the controller, e.g. for tests or replays.
func WithInitialState(state domain.State) ControllerOption {
	return func(c *TaskListController) {
		c.state = state.Clone()
	}
}

// NewTaskListController creates a controller with an empty task list.
// A nil generator falls back to a monotonic counter.
func NewTaskListController(ids domain.IDGenerator, opts ...ControllerOption) *TaskListController {
	if ids == nil {
		ids = domain.NewCounterIDs()
	}
	c := &TaskListController{
		ids:       ids,
		logger:    logging.Discard(),
		observers: make(map[int]ports.StateObserver),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDraftText replaces the pending text for a new task.
func (c *TaskListController) SetDraftText(text string) {
	c.apply(OpSetDraftText, c.state.SetDraftText(text))
}

// CommitDraft turns a non-blank draft into a new task.
func (c *TaskListController) CommitDraft() {
	before := len(c.state.Tasks)
	next := c.state.CommitDraft(c.ids)
	if len(next.Tasks) > before {
		c.logger.Debug("task added", "task_id", next.Tasks[len(next.Tasks)-1].ID, "count", len(next.Tasks))
	}
	c.apply(OpCommitDraft, next)
}

// DeleteTask removes a task by ID.
func (c *TaskListController) DeleteTask(id string) {
	next := c.state.DeleteTask(id)
	if len(next.Tasks) < len(c.state.Tasks) {
		c.logger.Debug("task deleted", "task_id", id, "count", len(next.Tasks))
	}
	c.apply(OpDeleteTask, next)
}

// StartEditing puts a task into edit mode.
func (c *TaskListController) StartEditing(id string) {
	c.apply(OpStartEditing, c.state.StartEditing(id))
}

// UpdateEditingDraft replaces the text being edited.
func (c *TaskListController) UpdateEditingDraft(text string) {
	c.apply(OpUpdateEditingDraft, c.state.UpdateEditingDraft(text))
}

// CommitEdit saves the text being edited.
func (c *TaskListController) CommitEdit() {
	if c.state.IsEditing() {
		c.logger.Debug("task edited", "task_id", c.state.EditingID)
	}
	c.apply(OpCommitEdit, c.state.CommitEdit())
}

// CancelEdit leaves edit mode without saving.
func (c *TaskListController) CancelEdit() {
	c.apply(OpCancelEdit, c.state.CancelEdit())
}

// Snapshot returns a copy of the current state.
func (c *TaskListController) Snapshot() domain.State {
	return c.state.Clone()
}

// Subscribe registers an observer. Observers run synchronously, in
// registration order, after each operation that changed the state.
func (c *TaskListController) Subscribe(observer ports.StateObserver) func() {
	if observer == nil {
		return func() {}
	}
	id := c.nextObs
	c.nextObs++
	c.observers[id] = observer
	c.order = append(c.order, id)

	return func() {
		if _, ok := c.observers[id]; !ok {
			return
		}
		delete(c.observers, id)
		for i, o := range c.order {
			if o == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

// apply installs next as the current state and notifies observers if it
// differs from the previous one.
func (c *TaskListController) apply(op string, next domain.State) {
	if next.Equal(c.state) {
		return
	}
	c.state = next

	for _, id := range append([]int(nil), c.order...) {
		if obs, ok := c.observers[id]; ok {
			obs.OnStateChange(op, next.Clone())
		}
	}
}
