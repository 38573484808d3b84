// Package script replays a line-oriented list of task list operations.
//
// Each non-blank line holds one operation:
//
//	draft <text>       set the new-task draft (rest of line, may be empty)
//	commit             add the draft as a task
//	delete <id>        delete a task
//	edit <id>          start editing a task
//	editdraft <text>   replace the editing draft (rest of line, may be empty)
//	save               save the edit
//	cancel             leave edit mode without saving
//
// Lines starting with # are comments. A line may hold at most MaxLineLength
// bytes.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xvierd/todo-cli/internal/ports"
)

// OpKind is the verb of a script line.
type OpKind string

const (
	OpDraft     OpKind = "draft"
	OpCommit    OpKind = "commit"
	OpDelete    OpKind = "delete"
	OpEdit      OpKind = "edit"
	OpEditDraft OpKind = "editdraft"
	OpSave      OpKind = "save"
	OpCancel    OpKind = "cancel"
)

// MaxLineLength is the longest script line Parse accepts, in bytes.
const MaxLineLength = 1 << 20

// argKind describes what an operation expects after its verb.
type argKind int

const (
	argNone argKind = iota
	argText         // rest of the line, verbatim
	argID           // a single non-empty token
)

var opArgs = map[OpKind]argKind{
	OpDraft:     argText,
	OpCommit:    argNone,
	OpDelete:    argID,
	OpEdit:      argID,
	OpEditDraft: argText,
	OpSave:      argNone,
	OpCancel:    argNone,
}

var (
	// ErrUnknownOp is returned for a line whose verb is not an operation.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrMissingArgument is returned when delete or edit has no task ID.
	ErrMissingArgument = errors.New("missing argument")
	// ErrUnexpectedArgument is returned when an operation that takes no
	// argument is given one.
	ErrUnexpectedArgument = errors.New("unexpected argument")
	// ErrLineTooLong is returned for a line longer than MaxLineLength.
	ErrLineTooLong = errors.New("line too long")
)

// Op is one parsed script line.
type Op struct {
	Kind OpKind
	Arg  string
	Line int
}

// String renders the op back into script syntax.
func (o Op) String() string {
	if opArgs[o.Kind] == argNone {
		return string(o.Kind)
	}
	return string(o.Kind) + " " + o.Arg
}

// ParseError reports the line a script error was found on.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a script. It stops at the first invalid line.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		op, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		if !ok {
			continue
		}
		op.Line = lineNo
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Line: lineNo + 1, Err: fmt.Errorf("%w (max %d bytes)", ErrLineTooLong, MaxLineLength)}
		}
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return ops, nil
}

// parseLine parses a single line. ok is false for blank and comment lines.
func parseLine(line string) (op Op, ok bool, err error) {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimLeft(line, " \t")
	if strings.TrimSpace(trimmed) == "" || strings.HasPrefix(trimmed, "#") {
		return Op{}, false, nil
	}

	verb, rest := trimmed, ""
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		verb, rest = trimmed[:i], trimmed[i+1:]
	}
	kind := OpKind(strings.ToLower(verb))

	args, known := opArgs[kind]
	if !known {
		return Op{}, false, fmt.Errorf("%w %q", ErrUnknownOp, verb)
	}

	switch args {
	case argNone:
		if strings.TrimSpace(rest) != "" {
			return Op{}, false, fmt.Errorf("%w for %s: %q", ErrUnexpectedArgument, kind, strings.TrimSpace(rest))
		}
		return Op{Kind: kind}, true, nil
	case argID:
		id := strings.TrimSpace(rest)
		if id == "" {
			return Op{}, false, fmt.Errorf("%w: %s needs a task id", ErrMissingArgument, kind)
		}
		return Op{Kind: kind, Arg: id}, true, nil
	default:
		return Op{Kind: kind, Arg: rest}, true, nil
	}
}

// Apply runs ops against list in order.
func Apply(list ports.TaskList, ops []Op) {
	for _, op := range ops {
		switch op.Kind {
		case OpDraft:
			list.SetDraftText(op.Arg)
		case OpCommit:
			list.CommitDraft()
		case OpDelete:
			list.DeleteTask(op.Arg)
		case OpEdit:
			list.StartEditing(op.Arg)
		case OpEditDraft:
			list.UpdateEditingDraft(op.Arg)
		case OpSave:
			list.CommitEdit()
		case OpCancel:
			list.CancelEdit()
		}
	}
}

// Run parses the script in r and applies it to list. Nothing is applied
// when the script does not parse.
func Run(r io.Reader, list ports.TaskList) error {
	ops, err := Parse(r)
	if err != nil {
		return err
	}
	Apply(list, ops)
	return nil
}
