package task

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Backend reads and writes the whole task list in one step.
type Backend interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// CompleteResult tells a caller what Complete did to a task that exists.
type CompleteResult int

const (
	// Completed means the task flipped from pending to completed and was saved.
	Completed CompleteResult = iota
	// AlreadyCompleted means nothing changed and nothing was written.
	AlreadyCompleted
)

// Store is the ordered in-memory task list. Every successful mutation is
// written through to the backend before the method returns.
type Store struct {
	backend Backend
	tasks   []Task
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes the store's debug output to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads the task list from b.
//
// If the backing data is corrupt the returned error matches ErrCorrupt and the
// returned Store is empty but usable; the corrupt data is replaced on the next
// successful mutation. Any other load error yields a nil Store.
func Open(b Backend, opts ...Option) (*Store, error) {
	s := &Store{backend: b, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(s)
	}

	tasks, err := b.Load()
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			s.logger.Warn("starting with an empty task list", "err", err)
			s.tasks = []Task{}
			return s, err
		}
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	s.tasks = tasks
	s.logger.Debug("loaded tasks", "count", len(tasks))
	return s, nil
}

// List returns a copy of the tasks in insertion order.
func (s *Store) List() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len reports how many tasks the store holds.
func (s *Store) Len() int { return len(s.tasks) }

// Stats counts completed and pending tasks.
func (s *Store) Stats() (done, pending int) {
	for _, t := range s.tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// Get returns the task with the given id.
func (s *Store) Get(id int) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Add appends a new pending task and persists the list.
func (s *Store) Add(title string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}

	id, err := nextID(s.tasks)
	if err != nil {
		return Task{}, err
	}
	t := Task{ID: id, Title: title}
	prev := s.tasks
	s.tasks = append(s.tasks[:len(s.tasks):len(s.tasks)], t)
	if err := s.save(); err != nil {
		s.tasks = prev
		return Task{}, err
	}
	s.logger.Debug("added task", "id", t.ID)
	return t, nil
}

// Delete removes the task with the given id and persists the list.
func (s *Store) Delete(id int) (Task, error) {
	if id < 1 {
		return Task{}, ErrInvalidID
	}
	i := s.index(id)
	if i < 0 {
		return Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	removed := s.tasks[i]
	prev := s.tasks
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.tasks = next
	if err := s.save(); err != nil {
		s.tasks = prev
		return Task{}, err
	}
	s.logger.Debug("deleted task", "id", id)
	return removed, nil
}

// Complete marks the task with the given id as completed. A task that is
// already completed is left alone and the backend is not written.
func (s *Store) Complete(id int) (CompleteResult, error) {
	if id < 1 {
		return 0, ErrInvalidID
	}
	i := s.index(id)
	if i < 0 {
		return 0, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if s.tasks[i].Completed {
		return AlreadyCompleted, nil
	}

	s.tasks[i].Completed = true
	if err := s.save(); err != nil {
		s.tasks[i].Completed = false
		return 0, err
	}
	s.logger.Debug("completed task", "id", id)
	return Completed, nil
}

func (s *Store) index(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) save() error {
	if err := s.backend.Save(s.List()); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
