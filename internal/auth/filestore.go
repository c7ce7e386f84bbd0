package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/folio-dev/folio/internal/models"
	"github.com/folio-dev/folio/pkg/logger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// State is what the CLI persists between runs
type State struct {
	Token string       `yaml:"token,omitempty"`
	Email string       `yaml:"email,omitempty"`
	Theme models.Theme `yaml:"theme,omitempty"`
}

// FileStore keeps State in a YAML file readable only by its owner
type FileStore struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns the state file location under the user config dir
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "folio", "state.yaml"), nil
}

// NewFileStore creates a store backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the state. A missing file is an empty state.
func (s *FileStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() (State, error) {
	var st State
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("failed to read state: %w", err)
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("failed to parse state: %w", err)
	}
	return st, nil
}

func (s *FileStore) save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state: %w", err)
	}
	return nil
}

func (s *FileStore) update(fn func(st *State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	fn(&st)
	return s.save(st)
}

// SetToken persists a fresh login
func (s *FileStore) SetToken(token, email string) error {
	return s.update(func(st *State) {
		st.Token = token
		st.Email = email
	})
}

// Clear forgets the login and keeps the theme
func (s *FileStore) Clear() error {
	return s.update(func(st *State) {
		st.Token = ""
		st.Email = ""
	})
}

// SetTheme persists the theme preference
func (s *FileStore) SetTheme(theme models.Theme) error {
	return s.update(func(st *State) {
		st.Theme = theme
	})
}

// Token implements TokenSource. Unreadable state counts as logged out.
func (s *FileStore) Token() string {
	st, err := s.Load()
	if err != nil {
		logger.Warn("Failed to read state file", zap.String("path", s.path), zap.Error(err))
		return ""
	}
	return st.Token
}

// Theme returns the stored theme, light when unset
func (s *FileStore) Theme() models.Theme {
	st, err := s.Load()
	if err != nil {
		return models.ThemeLight
	}
	return models.ParseTheme(string(st.Theme))
}

// Watch emits on the returned channel whenever the state file changes,
// including changes made by other processes. The channel is closed once ctx
// is done and the watcher has shut down.
func (s *FileStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: saves replace the file through a rename.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warn("Failed to close state watcher", zap.Error(err))
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != s.path || event.Op == fsnotify.Chmod {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("State watcher error", zap.Error(err))
			}
		}
	}()

	return changes, nil
}
