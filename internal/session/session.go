// Package session holds who is using the client. It replaces a process-wide
// "current user" with an explicit value created at startup from a YAML file
// and passed to whatever needs to attribute records.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"ecowallet/internal/cache"
	"ecowallet/internal/core"
)

// Presets are the names offered on login.
var Presets = []string{"Mom", "Dad", "Family"}

var ErrEmptyName = errors.New("user name must not be empty")

// State is the persisted part of a session.
type State struct {
	User      string `yaml:"user,omitempty"`
	ServerURL string `yaml:"server_url,omitempty"`
}

type Session struct {
	mu    sync.Mutex
	path  string
	state State
	cache cache.Cache[[]byte]
}

// DefaultPath returns the session file under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "ecowallet", "session.yaml"), nil
}

// Load reads the session at path. A missing file yields a logged-out
// session. c is the client cache cleared on logout and may be nil.
func Load(path string, c cache.Cache[[]byte]) (*Session, error) {
	s := &Session{path: path, cache: c}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	return s, nil
}

func (s *Session) save() error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Login records name as the current user.
func (s *Session) Login(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = name
	return s.save()
}

// Logout forgets the current user and drops the cached monthly incomes.
func (s *Session) Logout(incomePrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.User = ""
	if s.cache != nil && incomePrefix != "" {
		s.cache.DeletePrefix(incomePrefix)
	}
	return s.save()
}

// LoggedIn reports whether a user has logged in.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User != ""
}

// UserName returns the current user, or core.DefaultUser when nobody is
// logged in.
func (s *Session) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.User == "" {
		return core.DefaultUser
	}
	return s.state.User
}

// ServerURL returns the API base URL saved with the session, if any.
func (s *Session) ServerURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ServerURL
}

func (s *Session) SetServerURL(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ServerURL = strings.TrimRight(strings.TrimSpace(url), "/")
	return s.save()
}
