package ports

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/todo-cli/internal/domain"
)

func TestNewStateView_Idle(t *testing.T) {
	s := domain.NewState(domain.Task{ID: "1", Text: "A"}).SetDraftText("next")

	v := NewStateView(s)

	assert.Equal(t, 1, v.Count)
	assert.Equal(t, []TaskView{{ID: "1", Text: "A"}}, v.Tasks)
	assert.Equal(t, "next", v.DraftText)
	assert.Equal(t, "idle", v.Mode)
	assert.Nil(t, v.EditingID)
}

func TestNewStateView_Editing(t *testing.T) {
	s := domain.NewState(domain.Task{ID: "1", Text: "A"}).StartEditing("1").UpdateEditingDraft("B")

	v := NewStateView(s)

	require.NotNil(t, v.EditingID)
	assert.Equal(t, "1", *v.EditingID)
	assert.Equal(t, "B", v.EditingDraft)
	assert.Equal(t, "editing", v.Mode)
}

func TestNewStateView_EmptyListEncodesAsArray(t *testing.T) {
	data, err := json.Marshal(NewStateView(domain.State{}))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tasks":[]`)
	assert.Contains(t, string(data), `"editing_id":null`)
}

func TestStateObserverFunc(t *testing.T) {
	var gotOp string
	var obs StateObserver = StateObserverFunc(func(op string, _ domain.State) { gotOp = op })
	obs.OnStateChange("commit_draft", domain.State{})
	assert.Equal(t, "commit_draft", gotOp)
}
