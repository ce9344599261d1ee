package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soyrochus/brownie/pkg/workspace"
)

// Store persists sessions. Per-file problems during bulk loads are warnings,
// not errors: one corrupt session never hides the rest.
type Store interface {
	Save(session *Session) error
	LoadOne(sessionID string) (*Session, error)
	LoadAll() (sessions []*Session, warnings []string)
}

// FileStore keeps one JSON file per session under a root directory,
// ~/.brownie/sessions by default.
type FileStore struct {
	rootDir string
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithRootDir overrides the sessions directory.
func WithRootDir(dir string) FileStoreOption {
	return func(s *FileStore) {
		if dir != "" {
			s.rootDir = dir
		}
	}
}

// NewFileStore constructs a file-backed session store.
func NewFileStore(options ...FileStoreOption) *FileStore {
	store := &FileStore{rootDir: defaultSessionsDir()}
	for _, option := range options {
		if option != nil {
			option(store)
		}
	}
	return store
}

func defaultSessionsDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}
	if home == "" {
		home = "."
	}
	return filepath.Join(home, ".brownie", "sessions")
}

// RootDir reports the directory sessions are stored in.
func (s *FileStore) RootDir() string {
	return s.rootDir
}

func (s *FileStore) sessionPath(sessionID string) string {
	return filepath.Join(s.rootDir, sessionID+".json")
}

// Save writes the session atomically: the document lands in a temp file
// first and is renamed over the final path. On platforms where rename cannot
// replace an existing file, the old file is removed and the rename retried.
func (s *FileStore) Save(session *Session) error {
	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		return fmt.Errorf("session: create sessions dir: %w", err)
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("session: serialize session %s: %w", session.SessionID, err)
	}

	finalPath := s.sessionPath(session.SessionID)
	tmpPath := finalPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("session: write session %s: %w", session.SessionID, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		if _, statErr := os.Stat(finalPath); statErr == nil {
			if removeErr := os.Remove(finalPath); removeErr != nil {
				return fmt.Errorf("session: replace session %s: %w", session.SessionID, removeErr)
			}
			if renameErr := os.Rename(tmpPath, finalPath); renameErr != nil {
				return fmt.Errorf("session: replace session %s: %w", session.SessionID, renameErr)
			}
			return nil
		}
		return fmt.Errorf("session: write session %s: %w", session.SessionID, err)
	}
	return nil
}

// LoadOne reads a single session by id.
func (s *FileStore) LoadOne(sessionID string) (*Session, error) {
	path := s.sessionPath(sessionID)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("session: session file missing for id %s: %s", sessionID, path)
	}
	return readSessionFile(path)
}

// LoadAll reads every session in the store, newest first. Unreadable or
// unrecognized files are reported as warnings and skipped.
func (s *FileStore) LoadAll() ([]*Session, []string) {
	var sessions []*Session
	var warnings []string

	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to initialize sessions directory: %v", err))
		return sessions, warnings
	}
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to read sessions directory: %v", err))
		return sessions, warnings
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		session, err := readSessionFile(filepath.Join(s.rootDir, entry.Name()))
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		sessions = append(sessions, session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt > sessions[j].CreatedAt
	})
	return sessions, warnings
}

func readSessionFile(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", path, err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %v", path, err)
	}
	if session.SchemaVersion == 1 {
		session.CanvasWorkspace = workspace.WorkspaceState{}
		return &session, nil
	}
	if session.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unknown schema_version in %s: %d", path, session.SchemaVersion)
	}
	return &session, nil
}
