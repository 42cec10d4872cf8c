package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/taskman/internal/exitcode"
	"github.com/idilsaglam/taskman/internal/task"
	"github.com/idilsaglam/taskman/internal/tui"
	"github.com/idilsaglam/taskman/internal/ui"
)

// Options tune I/O and output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// RunTUI starts the full-screen list. Defaults to tui.Run.
	RunTUI func(*task.Store) error
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.RunTUI == nil {
		o.RunTUI = tui.Run
	}
}

// Run dispatches subcommands against s and returns an exit code.
// With no arguments it starts the interactive menu.
func Run(s *task.Store, args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		return NewMenu(s, opt.Stdin, opt.Stdout).Run()
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return exitcode.Success

	case "menu":
		return NewMenu(s, opt.Stdin, opt.Stdout).Run()

	case "tui":
		if err := opt.RunTUI(s); err != nil {
			ui.Fail(opt.Stderr, "tui: "+err.Error())
			return exitcode.Failure
		}
		return exitcode.Success

	case "ls":
		return doList(s, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail(opt.Stderr, "usage: taskman add <title...>")
			return exitcode.Usage
		}
		return doAdd(s, strings.Join(a, " "), opt)

	case "done":
		id, code := parseIDArg("done", a, opt.Stderr)
		if code != exitcode.Success {
			return code
		}
		return doComplete(s, id, opt)

	case "rm":
		id, code := parseIDArg("rm", a, opt.Stderr)
		if code != exitcode.Success {
			return code
		}
		return doRemove(s, id, opt)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return exitcode.Usage
}

// PrintHelp writes the usage text.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `taskman - a tiny task tracker

Usage:
  taskman [flags] [subcommand] [args]

Subcommands:
  (none) | menu      Interactive numbered menu
  tui                Full-screen task list
  add <title...>     Add a new task (title can be multiple words)
  ls                 List tasks
  done <id>          Mark the task with this id as completed
  rm <id>            Delete the task with this id

Flags:
  -file <path>       Tasks file (default tasks.json)
  -config <path>     TOML config file (default taskman.toml if present)
  -theme <name>      classic, neon or mono
  -group             Group ls output by pending/done
  -debug             Debug logging

Examples:
  taskman add "Buy milk"
  taskman ls
  taskman done 2
  taskman rm 3
`)
}

const lookupHint = "Hint: run `taskman ls` to see task ids"

// maxTitleWidth is the widest title ls prints before cutting it with "...".
const maxTitleWidth = 80

func parseIDArg(cmd string, a []string, errOut io.Writer) (int, int) {
	if len(a) != 1 {
		ui.Fail(errOut, fmt.Sprintf("usage: taskman %s <id>", cmd))
		return 0, exitcode.Usage
	}
	id, err := task.ParseID(a[0])
	switch {
	case errors.Is(err, task.ErrNotFound):
		ui.Fail(errOut, err.Error())
		ui.Hint(errOut, lookupHint)
		return 0, exitcode.Failure
	case err != nil:
		ui.Fail(errOut, cmd+": not a number: "+a[0])
		return 0, exitcode.Usage
	}
	return id, exitcode.Success
}

// -------------- subcommand impls ----------------

func doList(s *task.Store, opt Options) int {
	tasks := s.List()
	t := ui.Current()

	d, p := s.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), s.Len(),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `taskman add \"Buy milk\"`"))
	ui.Panel(opt.Stdout, lines)
	return exitcode.Success
}

func doAdd(s *task.Store, title string, opt Options) int {
	added, err := s.Add(title)
	if err != nil {
		if errors.Is(err, task.ErrEmptyTitle) {
			ui.Fail(opt.Stderr, "add: "+err.Error())
			return exitcode.Usage
		}
		ui.Fail(opt.Stderr, err.Error())
		return exitcode.Failure
	}
	ui.OK(opt.Stdout, fmt.Sprintf("added task %d: %s", added.ID, added.Title))
	return exitcode.Success
}

func doComplete(s *task.Store, id int, opt Options) int {
	res, err := s.Complete(id)
	if err != nil {
		return reportLookupError(err, opt)
	}
	if res == task.AlreadyCompleted {
		ui.Info(opt.Stdout, fmt.Sprintf("task %d is already completed", id))
		return exitcode.Success
	}
	done, _ := s.Get(id)
	ui.OK(opt.Stdout, fmt.Sprintf("completed task %d: %s", done.ID, done.Title))
	return exitcode.Success
}

func doRemove(s *task.Store, id int, opt Options) int {
	removed, err := s.Delete(id)
	if err != nil {
		return reportLookupError(err, opt)
	}
	ui.OK(opt.Stdout, fmt.Sprintf("removed task %d: %s", removed.ID, removed.Title))
	return exitcode.Success
}

func reportLookupError(err error, opt Options) int {
	ui.Fail(opt.Stderr, err.Error())
	switch {
	case errors.Is(err, task.ErrInvalidID):
		return exitcode.Usage
	case errors.Is(err, task.ErrNotFound):
		ui.Hint(opt.Stderr, lookupHint)
	}
	return exitcode.Failure
}

// -------------- rendering helpers --------------

func flatLines(tasks []task.Task) []string {
	t := ui.Current()
	if len(tasks) == 0 {
		return []string{t.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		id := fmt.Sprintf("%3d.", tk.ID)
		box := t.Muted.Render(t.BoxUnchecked)
		title := ansi.Truncate(tk.Title, maxTitleWidth, "...")
		if tk.Completed {
			box = t.Success.Render(t.BoxChecked)
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(id), box, title))
	}
	return out
}

func groupLines(tasks []task.Task) []string {
	t := ui.Current()
	var pend, done []task.Task
	for _, tk := range tasks {
		if tk.Completed {
			done = append(done, tk)
		} else {
			pend = append(pend, tk)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
