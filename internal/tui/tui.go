// Package tui is the full-screen task list.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskman/internal/task"
	"github.com/idilsaglam/taskman/internal/ui"
)

// listItem adapts task.Task to bubbles/list.Item.
type listItem struct {
	task.Task
}

func (i listItem) FilterValue() string { return i.Title }

type keyMap struct {
	Add      key.Binding
	Complete key.Binding
	Delete   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Complete: key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x/space", "complete")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}

// Model is the bubbletea model. Every mutation goes straight to the store.
type Model struct {
	store *task.Store
	list  list.Model
	keys  keyMap

	// Inline add
	adding bool
	ti     textinput.Model
	addErr string

	status string
	width  int
	height int
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	text := it.Title
	if it.Completed {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	line := fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%3d", it.ID)), box, text)

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	fmt.Fprintln(w, prefix+line)
}

// New builds the model over s.
func New(s *task.Store) Model {
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.Add, keys.Complete, keys.Delete} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{keys.Add, keys.Complete, keys.Delete} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task title..."
	ti.CharLimit = 200

	m := Model{store: s, list: l, keys: keys, ti: ti}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen and blocks until the user quits.
func Run(s *task.Store) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}

// refresh reloads list items and the header from the store. The returned
// command re-applies an active filter.
func (m *Model) refresh() tea.Cmd {
	tasks := m.store.List()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, listItem{t})
	}
	cmd := m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	t := ui.Current()
	dn, pn := m.store.Stats()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Tasks",
		t.SymDone, dn,
		t.SymPending, pn,
		"Total", len(tasks),
	)
	return cmd
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

// Update and View implement Bubble Tea's Model.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.resize()
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	// Keys belong to the filter input while the user is typing a filter.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case msg.String() == "esc" && m.list.FilterState() == list.FilterApplied:
			m.list.ResetFilter()
			return m, nil
		case msg.String() == "q" || msg.String() == "esc":
			return m, tea.Quit
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.addErr = ""
			m.ti.SetValue("")
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Complete):
			cmd := m.completeSelected()
			return m, cmd
		case key.Matches(msg, m.keys.Delete):
			cmd := m.deleteSelected()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if x, ok := msg.(tea.KeyMsg); ok {
		switch x.String() {
		case "enter":
			added, err := m.store.Add(m.ti.Value())
			if err != nil {
				if errors.Is(err, task.ErrEmptyTitle) {
					m.addErr = "Title cannot be empty"
				} else {
					m.addErr = err.Error()
				}
				return m, nil
			}
			m.stopAdding()
			cmd := m.refresh()
			m.list.Select(len(m.list.Items()) - 1)
			m.status = fmt.Sprintf("added task %d", added.ID)
			return m, cmd
		case "esc":
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) stopAdding() {
	m.adding = false
	m.addErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *Model) completeSelected() tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}
	res, err := m.store.Complete(it.ID)
	switch {
	case err != nil:
		m.status = err.Error()
	case res == task.AlreadyCompleted:
		m.status = fmt.Sprintf("task %d is already completed", it.ID)
	default:
		m.status = fmt.Sprintf("completed task %d", it.ID)
	}
	return m.refresh()
}

func (m *Model) deleteSelected() tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}
	if _, err := m.store.Delete(it.ID); err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = fmt.Sprintf("removed task %d", it.ID)
	return m.refresh()
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	listHeight := m.height - 5
	if m.adding {
		listHeight = m.height - 9
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(m.width-4, listHeight)
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.adding {
		title := "Add new task"
		if m.addErr != "" {
			title += " - " + t.Error.Render(m.addErr)
		}
		bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + t.Muted.Render(m.status)
	}
	return ui.PanelString(strings.Split(content, "\n"))
}
