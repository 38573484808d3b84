// Package domain contains the core entities of the todo list.
// These types are independent of any UI framework or transport.
package domain

import "strings"

// Task is a single todo entry.
type Task struct {
	ID   string
	Text string
}

// isBlank reports whether text has no visible characters.
func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
