package cli

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/idilsaglam/taskman/internal/exitcode"
	"github.com/idilsaglam/taskman/internal/task"
)

func runCmd(t *testing.T, s *task.Store, args []string, group bool) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = Run(s, args, Options{
		Group:  group,
		Stdin:  strings.NewReader(""),
		Stdout: &outBuf,
		Stderr: &errBuf,
		RunTUI: func(*task.Store) error { return errors.New("no terminal") },
	})
	return outBuf.String(), errBuf.String(), code
}

func TestRun_Help(t *testing.T) {
	s, _ := newStore(t)
	stdout, stderr, code := runCmd(t, s, []string{"help"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestRun_NoArgsStartsMenu(t *testing.T) {
	s, _ := newStore(t)
	stdout, _, code := runCmd(t, s, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "\nTask Manager CLI\n") {
		t.Errorf("expected menu, got %q", stdout)
	}
}

func TestRun_UnknownSubcommand(t *testing.T) {
	s, _ := newStore(t)
	_, stderr, code := runCmd(t, s, []string{"frobnicate"}, false)

	if code != exitcode.Usage {
		t.Errorf("expected exit code %d, got %d", exitcode.Usage, code)
	}
	if !strings.HasPrefix(stderr, "error: unknown subcommand: frobnicate\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRun_Add(t *testing.T) {
	s, path := newStore(t, "first")
	stdout, stderr, code := runCmd(t, s, []string{"add", "Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "ok: added task 2: Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	want := []task.Task{{ID: 1, Title: "first"}, {ID: 2, Title: "Buy milk"}}
	if tasks := readTasks(t, path); !reflect.DeepEqual(tasks, want) {
		t.Errorf("persisted: got %v, want %v", tasks, want)
	}
}

func TestRun_AddValidation(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{name: "no title", args: []string{"add"}, stderr: "error: usage: taskman add <title...>\n"},
		{name: "blank title", args: []string{"add", "  "}, stderr: "error: add: task title cannot be empty\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t)
			_, stderr, code := runCmd(t, s, tt.args, false)
			if code != exitcode.Usage {
				t.Errorf("expected exit code %d, got %d", exitcode.Usage, code)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
			if s.Len() != 0 {
				t.Errorf("store len: got %d, want 0", s.Len())
			}
		})
	}
}

func TestRun_Done(t *testing.T) {
	s, path := newStore(t, "A", "B")

	stdout, _, code := runCmd(t, s, []string{"done", "2"}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok: completed task 2: B\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stdout, _, code = runCmd(t, s, []string{"done", "2"}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "- task 2 is already completed\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	want := []task.Task{{ID: 1, Title: "A"}, {ID: 2, Title: "B", Completed: true}}
	if tasks := readTasks(t, path); !reflect.DeepEqual(tasks, want) {
		t.Errorf("persisted: got %v, want %v", tasks, want)
	}
}

func TestRun_IDErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{name: "done missing id", args: []string{"done"}, code: exitcode.Usage, stderr: "error: usage: taskman done <id>\n"},
		{name: "rm too many args", args: []string{"rm", "1", "2"}, code: exitcode.Usage, stderr: "error: usage: taskman rm <id>\n"},
		{name: "done not a number", args: []string{"done", "x"}, code: exitcode.Usage, stderr: "error: done: not a number: x\n"},
		{name: "rm not a number", args: []string{"rm", "1a"}, code: exitcode.Usage, stderr: "error: rm: not a number: 1a\n"},
		{name: "rm zero", args: []string{"rm", "0"}, code: exitcode.Usage, stderr: "error: invalid task id\n"},
		{name: "done not found", args: []string{"done", "999"}, code: exitcode.Failure,
			stderr: "error: task 999: task not found\nHint: run `taskman ls` to see task ids\n"},
		{name: "rm not found", args: []string{"rm", "999"}, code: exitcode.Failure,
			stderr: "error: task 999: task not found\nHint: run `taskman ls` to see task ids\n"},
		{name: "done id out of range", args: []string{"done", "99999999999999999999"}, code: exitcode.Failure,
			stderr: "error: task 99999999999999999999: task not found\nHint: run `taskman ls` to see task ids\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStore(t, "A")
			stdout, stderr, code := runCmd(t, s, tt.args, false)
			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if s.Len() != 1 {
				t.Errorf("store len: got %d, want 1", s.Len())
			}
		})
	}
}

func TestRun_Remove(t *testing.T) {
	s, path := newStore(t, "A", "B")
	stdout, _, code := runCmd(t, s, []string{"rm", "1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok: removed task 1: A\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	want := []task.Task{{ID: 2, Title: "B"}}
	if tasks := readTasks(t, path); !reflect.DeepEqual(tasks, want) {
		t.Errorf("persisted: got %v, want %v", tasks, want)
	}
}

func TestRun_SaveFailure(t *testing.T) {
	s, err := task.Open(&brokenBackend{tasks: []task.Task{{ID: 1, Title: "A"}}})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, args := range [][]string{{"add", "B"}, {"done", "1"}, {"rm", "1"}} {
		_, stderr, code := runCmd(t, s, args, false)
		if code != exitcode.Failure {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.Failure, code)
		}
		if !strings.Contains(stderr, "save tasks: disk full") {
			t.Errorf("%v: unexpected stderr %q", args, stderr)
		}
	}
}

func TestRun_ListEmpty(t *testing.T) {
	s, _ := newStore(t)
	stdout, _, code := runCmd(t, s, []string{"ls"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "no tasks") {
		t.Errorf("expected empty marker in %q", stdout)
	}
}

func TestRun_List(t *testing.T) {
	s, _ := newStore(t, "Buy milk", "Write report")
	if _, err := s.Complete(1); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	stdout, _, code := runCmd(t, s, []string{"ls"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{
		"Tasks  x 1  - 1  Total 2",
		"  1. [x] Buy milk",
		"  2. [ ] Write report",
		"] 1/2",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "Buy milk") > strings.Index(stdout, "Write report") {
		t.Error("tasks should be listed in insertion order")
	}
}

func TestRun_ListTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("a", 76) + strings.Repeat("é", 6)
	s, _ := newStore(t, long, "short")
	stdout, _, code := runCmd(t, s, []string{"ls"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !utf8.ValidString(stdout) {
		t.Fatalf("ls printed invalid UTF-8:\n%q", stdout)
	}
	want := strings.Repeat("a", 76) + "é..."
	if !strings.Contains(stdout, want) {
		t.Errorf("expected truncated title %q in:\n%s", want, stdout)
	}
	if strings.Contains(stdout, long) {
		t.Error("title wider than 80 columns should be cut")
	}
}

func TestRun_ListGrouped(t *testing.T) {
	s, _ := newStore(t, "first", "second")
	if _, err := s.Complete(1); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	stdout, _, _ := runCmd(t, s, []string{"ls"}, true)

	pending := strings.Index(stdout, "Pending")
	done := strings.Index(stdout, "Done")
	if pending < 0 || done < 0 || pending > done {
		t.Fatalf("expected Pending then Done sections in:\n%s", stdout)
	}
	if i := strings.Index(stdout, "second"); i < pending || i > done {
		t.Error("pending task should be listed under Pending")
	}
	if i := strings.Index(stdout, "first"); i < done {
		t.Error("completed task should be listed under Done")
	}
}

func TestRun_TUIError(t *testing.T) {
	s, _ := newStore(t)
	_, stderr, code := runCmd(t, s, []string{"tui"}, false)

	if code != exitcode.Failure {
		t.Errorf("expected exit code %d, got %d", exitcode.Failure, code)
	}
	if stderr != "error: tui: no terminal\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
