// Package task holds the task model and the Store that mutates and persists it.
package task

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Task is a single to-do entry. ID and Title never change after creation.
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Status returns the two-valued display label for the task.
func (t Task) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}

var (
	// ErrEmptyTitle is returned by Add for an empty or whitespace-only title.
	ErrEmptyTitle = errors.New("task title cannot be empty")
	// ErrInvalidID is returned for ids that can never belong to a task (< 1)
	// and by Add once the largest id is math.MaxInt.
	ErrInvalidID = errors.New("invalid task id")
	// ErrInvalidInput is returned by ParseID for non-numeric input.
	ErrInvalidInput = errors.New("invalid input: not a numeric id")
	// ErrNotFound is returned when no task carries the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrCorrupt marks a backing file that exists but cannot be read as a task list.
	ErrCorrupt = errors.New("corrupted task store")
)

// ParseID converts free-form user input into a task id. A number too large
// for an int cannot name any task and is reported as not found.
func ParseID(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("task %s: %w", s, ErrNotFound)
		}
		return 0, ErrInvalidInput
	}
	return n, nil
}

// nextID is 1 + the largest id present, or 1 for an empty list.
func nextID(tasks []Task) (int, error) {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	if maxID == math.MaxInt {
		return 0, fmt.Errorf("no id after %d: %w", maxID, ErrInvalidID)
	}
	return maxID + 1, nil
}
