// Package jsonstore keeps the task list in a single human-readable JSON file.
// No locking; the file belongs to one local process.
package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/taskman/internal/task"
)

// DefaultFileName is the backing file used when no path is configured.
const DefaultFileName = "tasks.json"

//go:embed tasks.schema.json
var schemaSource string

var schema = jsonschema.MustCompileString("tasks.schema.json", schemaSource)

// CorruptError reports a backing file that exists but does not hold a task list.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupted tasks file %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is makes every CorruptError match task.ErrCorrupt.
func (e *CorruptError) Is(target error) bool { return target == task.ErrCorrupt }

// File is a task.Backend over one JSON file.
type File struct {
	path          string
	backupCorrupt bool
	logger        *log.Logger
}

// Option configures a File.
type Option func(*File)

// WithLogger sets the logger used for save and corruption messages.
func WithLogger(l *log.Logger) Option {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithCorruptBackup copies an unreadable file to <path>.corrupt before it
// can be overwritten by the next save.
func WithCorruptBackup(enabled bool) Option {
	return func(f *File) { f.backupCorrupt = enabled }
}

// New returns a File backed by path. An empty path means DefaultFileName.
func New(path string, opts ...Option) *File {
	if path == "" {
		path = DefaultFileName
	}
	f := &File{path: path, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// BackupPath is where WithCorruptBackup copies unreadable data.
func (f *File) BackupPath() string { return f.path + ".corrupt" }

// Load reads the task list. A missing file is an empty list.
func (f *File) Load() ([]task.Task, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []task.Task{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	tasks, err := decode(b)
	if err != nil {
		cerr := &CorruptError{Path: f.path, Err: err}
		f.logger.Warn("tasks file is corrupt", "path", f.path, "err", err)
		if f.backupCorrupt {
			if werr := os.WriteFile(f.BackupPath(), b, 0o644); werr != nil {
				f.logger.Error("backup corrupt tasks file", "path", f.BackupPath(), "err", werr)
			} else {
				f.logger.Info("backed up corrupt tasks file", "path", f.BackupPath())
			}
		}
		return nil, cerr
	}
	return tasks, nil
}

// Save overwrites the file with the full task list. The data is written to a
// temporary file in the same directory and renamed into place.
func (f *File) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	b, err := json.MarshalIndent(tasks, "", "    ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(b); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	committed = true

	f.logger.Debug("saved tasks", "path", f.path, "count", len(tasks))
	return nil
}

// decode parses and validates raw file contents.
func decode(b []byte) ([]task.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if dec.More() {
		return nil, errors.New("json unmarshal: trailing data after task list")
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	seen := make(map[int]bool, len(tasks))
	for i, t := range tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("[%d].id: duplicate id %d", i, t.ID)
		}
		seen[t.ID] = true
	}
	return tasks, nil
}

// schemaError reduces a schema validation failure to its first leaf cause.
func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("%s: %s", loc, ve.Message)
}
