package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/idilsaglam/taskman/internal/exitcode"
	"github.com/idilsaglam/taskman/internal/task"
	"github.com/idilsaglam/taskman/internal/ui"
)

const rule = "----------------------------------------"

// Menu is the interactive numbered-choice loop. It reads one line per prompt
// and never saves on its own; the store persists each mutation.
type Menu struct {
	store *task.Store
	in    *bufio.Scanner
	out   io.Writer
}

// NewMenu returns a menu reading from in and writing everything to out.
func NewMenu(s *task.Store, in io.Reader, out io.Writer) *Menu {
	return &Menu{store: s, in: bufio.NewScanner(in), out: out}
}

// Run loops until the user picks Exit or input ends.
func (m *Menu) Run() int {
	for {
		m.printMenu()
		choice, ok := m.prompt("Enter your choice (1-5): ")
		if !ok {
			fmt.Fprintln(m.out)
			m.goodbye()
			return exitcode.Success
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.add()
		case "2":
			m.view()
		case "3":
			m.delete()
		case "4":
			m.complete()
		case "5":
			m.goodbye()
			return exitcode.Success
		default:
			m.fail("Invalid choice. Please select a number between 1 and 5.")
		}
	}
}

func (m *Menu) printMenu() {
	t := ui.Current()
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, t.Title.Render("Task Manager CLI"))
	fmt.Fprintln(m.out, "1. Add Task")
	fmt.Fprintln(m.out, "2. View Tasks")
	fmt.Fprintln(m.out, "3. Delete Task")
	fmt.Fprintln(m.out, "4. Mark Task as Complete")
	fmt.Fprintln(m.out, "5. Exit")
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) add() {
	title, ok := m.prompt("Enter task title: ")
	if !ok {
		return
	}
	added, err := m.store.Add(title)
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		m.fail("Task title cannot be empty.")
	case err != nil:
		m.saveFailed(err)
	default:
		m.ok(fmt.Sprintf("Task added with ID %d.", added.ID))
	}
}

func (m *Menu) view() {
	t := ui.Current()
	if m.store.Len() == 0 {
		fmt.Fprintln(m.out, t.Muted.Render("No tasks available."))
		return
	}
	tasks := m.store.List()
	fmt.Fprintln(m.out, "\n"+t.Title.Render("Tasks:"))
	fmt.Fprintln(m.out, rule)
	for _, tk := range tasks {
		status := t.Pending.Render(tk.Status())
		if tk.Completed {
			status = t.Success.Render(tk.Status())
		}
		fmt.Fprintf(m.out, "ID: %d | Title: %s | Status: %s\n", tk.ID, tk.Title, status)
	}
	fmt.Fprintln(m.out, rule)
}

func (m *Menu) delete() {
	id, ok := m.readID("Enter the ID of the task to delete: ")
	if !ok {
		return
	}
	_, err := m.store.Delete(id)
	switch {
	case errors.Is(err, task.ErrNotFound), errors.Is(err, task.ErrInvalidID):
		m.fail(fmt.Sprintf("No task found with ID %d.", id))
	case err != nil:
		m.saveFailed(err)
	default:
		m.ok(fmt.Sprintf("Task with ID %d has been deleted.", id))
	}
}

func (m *Menu) complete() {
	id, ok := m.readID("Enter the ID of the task to mark as complete: ")
	if !ok {
		return
	}
	res, err := m.store.Complete(id)
	switch {
	case errors.Is(err, task.ErrNotFound), errors.Is(err, task.ErrInvalidID):
		m.fail(fmt.Sprintf("No task found with ID %d.", id))
	case err != nil:
		m.saveFailed(err)
	case res == task.AlreadyCompleted:
		fmt.Fprintln(m.out, ui.Current().Accent.Render("Task is already marked as completed."))
	default:
		m.ok(fmt.Sprintf("Task with ID %d has been marked as completed.", id))
	}
}

// readID prompts for an id; ok is false when input ended or no task can
// carry the answer.
func (m *Menu) readID(label string) (int, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return 0, false
	}
	id, err := task.ParseID(raw)
	switch {
	case errors.Is(err, task.ErrNotFound):
		m.fail(fmt.Sprintf("No task found with ID %s.", strings.TrimSpace(raw)))
		return 0, false
	case err != nil:
		m.fail("Invalid input. Please enter a numeric ID.")
		return 0, false
	}
	return id, true
}

func (m *Menu) goodbye() {
	fmt.Fprintln(m.out, "Exiting Task Manager. Goodbye!")
}

func (m *Menu) ok(msg string) {
	fmt.Fprintln(m.out, ui.Current().Success.Render(msg))
}

func (m *Menu) fail(msg string) {
	fmt.Fprintln(m.out, ui.Current().Error.Render(msg))
}

func (m *Menu) saveFailed(err error) {
	m.fail("Error: " + err.Error())
}
