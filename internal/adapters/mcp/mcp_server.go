// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/todo-cli/internal/ports"
)

const (
	serverName    = "todo"
	serverVersion = "1.0.0"
)

// Server exposes a task list over MCP using mark3labs/mcp-go.
//
// The MCP server dispatches tool calls on their own goroutines. The task list
// is not safe for concurrent use, so every call holds mu.
type Server struct {
	server   *server.MCPServer
	list     ports.TaskList
	handlers map[string]server.ToolHandlerFunc
	logger   *log.Logger
	mu       sync.Mutex

	// runMu guards ctx and cancel, which Serve sets and Stop reads.
	runMu  sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger that receives transport errors.
func WithLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP server instance serving list.
func NewServer(list ports.TaskList, opts ...ServerOption) *Server {
	s := &Server{
		list:     list,
		handlers: make(map[string]server.ToolHandlerFunc),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.addTool(
		mcp.NewTool(
			"get_state",
			mcp.WithDescription("Get the task list, the new-task draft and the editing state"),
		),
		s.handleGetState,
	)

	setDraftTool := mcp.NewTool(
		"set_draft",
		mcp.WithDescription("Replace the text of the new-task draft"),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The draft text. May be empty"),
		),
	)
	s.addTool(setDraftTool, s.handleSetDraft)

	s.addTool(
		mcp.NewTool(
			"commit_draft",
			mcp.WithDescription("Add the draft as a new task and clear it. Does nothing when the draft is blank"),
		),
		s.handleCommitDraft,
	)

	deleteTaskTool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Delete a task. Unknown IDs are ignored"),
		mcp.WithString(
			"task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
	)
	s.addTool(deleteTaskTool, s.handleDeleteTask)

	startEditingTool := mcp.NewTool(
		"start_editing",
		mcp.WithDescription("Put a task into edit mode, seeding the editing draft with its text"),
		mcp.WithString(
			"task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to edit"),
		),
	)
	s.addTool(startEditingTool, s.handleStartEditing)

	updateEditingDraftTool := mcp.NewTool(
		"update_editing_draft",
		mcp.WithDescription("Replace the editing draft of the task in edit mode"),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The new text. May be empty"),
		),
	)
	s.addTool(updateEditingDraftTool, s.handleUpdateEditingDraft)

	s.addTool(
		mcp.NewTool(
			"commit_edit",
			mcp.WithDescription("Save the editing draft into the task and leave edit mode"),
		),
		s.handleCommitEdit,
	)

	s.addTool(
		mcp.NewTool(
			"cancel_edit",
			mcp.WithDescription("Leave edit mode without saving"),
		),
		s.handleCancelEdit,
	)
}

// addTool registers a tool with the MCP server and keeps its handler for
// CallTool.
func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.handlers[tool.Name] = handler
	s.server.AddTool(tool, handler)
}

// CallTool invokes a registered tool directly, without a transport.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return handler(ctx, request)
}

// ToolNames returns the names of all registered tools.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start begins serving MCP requests via stdio. It returns when ctx is
// cancelled, Stop is called or stdin is closed.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads JSON-RPC messages from in and writes responses to out until
// ctx is cancelled, Stop is called or in reaches EOF.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.runMu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	runCtx, cancel := s.ctx, s.cancel
	s.runMu.Unlock()
	defer cancel()

	stdio := server.NewStdioServer(s.server)
	stdio.SetErrorLogger(s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}))

	err := stdio.Listen(runCtx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// apply runs op against the task list and returns the resulting state.
func (s *Server) apply(op func(ports.TaskList)) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	if op != nil {
		op(s.list)
	}
	view := ports.NewStateView(s.list.Snapshot())
	s.mu.Unlock()

	jsonData, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetState handles the get_state tool.
func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(nil)
}

// handleSetDraft handles the set_draft tool.
func (s *Server) handleSetDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}
	return s.apply(func(l ports.TaskList) { l.SetDraftText(text) })
}

// handleCommitDraft handles the commit_draft tool.
func (s *Server) handleCommitDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(func(l ports.TaskList) { l.CommitDraft() })
}

// handleDeleteTask handles the delete_task tool.
func (s *Server) handleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}
	return s.apply(func(l ports.TaskList) { l.DeleteTask(taskID) })
}

// handleStartEditing handles the start_editing tool.
func (s *Server) handleStartEditing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}
	return s.apply(func(l ports.TaskList) { l.StartEditing(taskID) })
}

// handleUpdateEditingDraft handles the update_editing_draft tool.
func (s *Server) handleUpdateEditingDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}
	return s.apply(func(l ports.TaskList) { l.UpdateEditingDraft(text) })
}

// handleCommitEdit handles the commit_edit tool.
func (s *Server) handleCommitEdit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(func(l ports.TaskList) { l.CommitEdit() })
}

// handleCancelEdit handles the cancel_edit tool.
func (s *Server) handleCancelEdit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.apply(func(l ports.TaskList) { l.CancelEdit() })
}
