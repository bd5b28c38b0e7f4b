package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateDir returns the path to the themestate state directory.
// Uses XDG_STATE_HOME or defaults to ~/.local/state/themestate.
func StateDir() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "themestate"), nil
}

// DefaultPath returns the path to the preferences file.
func DefaultPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "preferences.json"), nil
}

const (
	// CurrentSchemaVersion is the current version of the preferences file schema.
	CurrentSchemaVersion = 1
)

// Entry is a single stored preference.
type Entry struct {
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"` // Unix timestamp
}

// Updated returns UpdatedAt as a time.Time.
func (e Entry) Updated() time.Time {
	return time.Unix(e.UpdatedAt, 0)
}

// document is the on-disk layout of the preferences file.
type document struct {
	SchemaVersion int              `json:"schema_version"`
	Values        map[string]Entry `json:"values"`
}

// File is a Store persisted as a JSON document.
// Writes are atomic via a temp file and rename, so concurrent readers in
// other processes never observe a partial file.
type File struct {
	mu   sync.RWMutex
	path string
}

// NewFile creates a File store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Open returns a File store at path, or at DefaultPath when path is empty.
// If no path can be determined the Unavailable store is returned.
func Open(path string) Store {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Unavailable{}
		}
		path = p
	}
	return NewFile(path)
}

// Path returns the preferences file path.
func (f *File) Path() string {
	return f.path
}

// Get implements Store.
func (f *File) Get(key string) (string, bool, error) {
	e, ok, err := f.Entry(key)
	if err != nil || !ok {
		return "", ok, err
	}
	return e.Value, true, nil
}

// Entry returns the stored entry for key, including its update time.
func (f *File) Entry(key string) (Entry, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	doc, err := f.load()
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := doc.Values[key]
	return e, ok, nil
}

// Set implements Store.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}

	if e, ok := doc.Values[key]; ok && e.Value == value {
		// Unchanged; skip the write so file watchers stay quiet
		return nil
	}

	doc.Values[key] = Entry{Value: value, UpdatedAt: time.Now().Unix()}
	return f.save(doc)
}

// load reads the document. A missing or corrupted file yields an empty document.
func (f *File) load() (*document, error) {
	doc := &document{
		SchemaVersion: CurrentSchemaVersion,
		Values:        make(map[string]Entry),
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read preferences %s: %w", f.path, err)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return &document{
			SchemaVersion: CurrentSchemaVersion,
			Values:        make(map[string]Entry),
		}, nil
	}
	if doc.Values == nil {
		doc.Values = make(map[string]Entry)
	}
	if doc.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
			doc.SchemaVersion, CurrentSchemaVersion)
	}
	doc.SchemaVersion = CurrentSchemaVersion

	return doc, nil
}

func (f *File) save(doc *document) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	// Write atomically via temp file
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}

	return os.Rename(tmpPath, f.path)
}
