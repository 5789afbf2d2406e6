// Package history records the commits guito has made.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/preguito/preguito/internal/pkg/errors"
)

// DefaultMaxEntries caps the history file when no limit is configured.
const DefaultMaxEntries = 1000

// Entry is one recorded commit.
type Entry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	CardID      string    `json:"card_id,omitempty"`
	Type        string    `json:"type,omitempty"`
	Environment string    `json:"environment,omitempty"`
	Branch      string    `json:"branch,omitempty"`
	Committed   bool      `json:"committed"`
}

// Matches reports whether keyword appears in the title, body or card id,
// ignoring case.
func (e *Entry) Matches(keyword string) bool {
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(e.Title), k) ||
		strings.Contains(strings.ToLower(e.Body), k) ||
		strings.Contains(strings.ToLower(e.CardID), k)
}

// Manager defines the interface for history management.
type Manager interface {
	Save(entry *Entry) error
	List(limit int) ([]*Entry, error)
	Search(keyword string, limit int) ([]*Entry, error)
	Clear() error
}

// FileManager implements Manager using a JSON file for storage.
type FileManager struct {
	filePath   string
	maxEntries int
	mu         sync.Mutex
}

// NewFileManager creates a FileManager. maxEntries <= 0 selects DefaultMaxEntries.
func NewFileManager(filePath string, maxEntries int) *FileManager {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileManager{
		filePath:   filePath,
		maxEntries: maxEntries,
	}
}

// Path returns the history file location.
func (m *FileManager) Path() string {
	return m.filePath
}

// Save appends entry, filling in a missing ID and timestamp. The oldest
// entries are dropped once the file holds more than maxEntries.
func (m *FileManager) Save(entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	entries, err := m.loadEntries()
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > m.maxEntries {
		entries = entries[len(entries)-m.maxEntries:]
	}

	return m.saveEntries(entries)
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (m *FileManager) List(limit int) ([]*Entry, error) {
	return m.collect(limit, nil)
}

// Search returns up to limit entries matching keyword, newest first.
func (m *FileManager) Search(keyword string, limit int) ([]*Entry, error) {
	return m.collect(limit, func(e *Entry) bool { return e.Matches(keyword) })
}

func (m *FileManager) collect(limit int, keep func(*Entry) bool) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := m.loadEntries()
	if err != nil {
		if os.IsNotExist(err) {
			return []*Entry{}, nil
		}
		return nil, err
	}

	out := make([]*Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if keep != nil && !keep(entries[i]) {
			continue
		}
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Clear empties the history file.
func (m *FileManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveEntries([]*Entry{})
}

func (m *FileManager) loadEntries() ([]*Entry, error) {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, apperrors.NewFileSystemError(err, "failed to read history file").
			WithContext("path", m.filePath)
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.NewFileSystemError(err, "failed to parse history file").
			WithContext("path", m.filePath).
			WithSuggestion("Run 'guito h clear' to reset the history")
	}
	return entries, nil
}

func (m *FileManager) saveEntries(entries []*Entry) error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0755); err != nil {
		return apperrors.NewFileSystemError(err, "failed to create history directory").
			WithContext("path", m.filePath)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return apperrors.NewFileSystemError(err, "failed to marshal history")
	}

	// User read/write only.
	if err := os.WriteFile(m.filePath, data, 0600); err != nil {
		return apperrors.NewFileSystemError(err, "failed to write history file").
			WithContext("path", m.filePath)
	}
	return nil
}

// NopManager discards entries. It stands in when history is disabled.
type NopManager struct{}

func (NopManager) Save(*Entry) error { return nil }

func (NopManager) List(int) ([]*Entry, error) { return []*Entry{}, nil }

func (NopManager) Search(string, int) ([]*Entry, error) { return []*Entry{}, nil }

func (NopManager) Clear() error { return nil }
