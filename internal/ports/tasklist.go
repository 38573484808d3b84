// Package ports defines the interfaces (driving and driven ports) between
// the task list core and the adapters that render or drive it.
package ports

import "github.com/xvierd/todo-cli/internal/domain"

// TaskList is the set of operations a presentation layer may trigger.
// This is a driving port (implemented by the services layer).
//
// Operations never fail: invalid input such as an unknown ID or a blank
// draft leaves the state unchanged.
type TaskList interface {
	// SetDraftText replaces the pending text for a new task.
	SetDraftText(text string)

	// CommitDraft turns a non-blank draft into a new task.
	CommitDraft()

	// DeleteTask removes a task by ID.
	DeleteTask(id string)

	// StartEditing puts a task into edit mode.
	StartEditing(id string)

	// UpdateEditingDraft replaces the text being edited.
	UpdateEditingDraft(text string)

	// CommitEdit saves the text being edited.
	CommitEdit()

	// CancelEdit leaves edit mode without saving.
	CancelEdit()

	// Snapshot returns the current state.
	Snapshot() domain.State
}

// StateObserver is notified after every operation that changed the state.
// This is a driven port (implemented by adapters).
type StateObserver interface {
	OnStateChange(op string, state domain.State)
}

// StateObserverFunc adapts a function to StateObserver.
type StateObserverFunc func(op string, state domain.State)

// OnStateChange calls f.
func (f StateObserverFunc) OnStateChange(op string, state domain.State) {
	f(op, state)
}

// Observable is a TaskList that publishes state changes.
type Observable interface {
	TaskList

	// Subscribe registers an observer and returns a func that removes it.
	Subscribe(observer StateObserver) (unsubscribe func())
}
