package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// IDStrategy selects how new task IDs are generated.
type IDStrategy string

const (
	IDStrategyCounter IDStrategy = "counter"
	IDStrategyUUID    IDStrategy = "uuid"
)

// ValidIDStrategies lists all supported ID strategies.
var ValidIDStrategies = []IDStrategy{
	IDStrategyCounter,
	IDStrategyUUID,
}

// ValidateIDStrategy checks if a string is a valid ID strategy.
func ValidateIDStrategy(s string) (IDStrategy, error) {
	st := IDStrategy(s)
	for _, valid := range ValidIDStrategies {
		if st == valid {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid id strategy %q: must be one of counter, uuid", s)
}

// IDGenerator produces task identifiers. Returned IDs must be non-empty.
type IDGenerator interface {
	NextID() string
}

// NewIDGenerator returns the generator for the given strategy.
// Unknown strategies fall back to a counter.
func NewIDGenerator(strategy IDStrategy) IDGenerator {
	if strategy == IDStrategyUUID {
		return UUIDs{}
	}
	return NewCounterIDs()
}

// CounterIDs hands out "1", "2", "3", ... in order.
type CounterIDs struct {
	next uint64
}

// NewCounterIDs creates a counter starting at 1.
func NewCounterIDs() *CounterIDs {
	return &CounterIDs{}
}

// NextID returns the next counter value.
func (c *CounterIDs) NextID() string {
	c.next++
	return strconv.FormatUint(c.next, 10)
}

// UUIDs generates random v4 UUIDs.
type UUIDs struct{}

// NextID returns a new UUID string.
func (UUIDs) NextID() string {
	return uuid.New().String()
}
