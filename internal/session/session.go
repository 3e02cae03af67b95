// Package session keeps the CLI login token in the OS keychain and the
// operator's display preferences in a small yaml file.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"github.com/grrt-recruitment/pipeline/internal/pipeline"
)

const (
	KeyringService = "grrt-tracker"
	PrefsEnv       = "GRRT_PREFS"
)

var ErrNotLoggedIn = errors.New("not logged in; run `tracker login` first")

// Prefs are per-operator display flags.
type Prefs struct {
	APIURL        string         `yaml:"api_url,omitempty"`
	LastStage     pipeline.Stage `yaml:"last_stage,omitempty"`
	ShowAdminMenu bool           `yaml:"show_admin_menu"`
	Email         string         `yaml:"email,omitempty"`
}

// Session ties the keychain entry to the API it was issued by.
type Session struct {
	account   string
	prefsPath string
}

// New returns a session for apiURL. Tokens for different servers are kept
// under different keychain accounts.
func New(apiURL string) (*Session, error) {
	path, err := PrefsPath()
	if err != nil {
		return nil, err
	}
	return &Session{account: account(apiURL), prefsPath: path}, nil
}

func account(apiURL string) string {
	return "grrt:token:" + strings.TrimRight(strings.TrimSpace(apiURL), "/")
}

// PrefsPath is $GRRT_PREFS when set, else tracker.yaml in the user config dir.
func PrefsPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(PrefsEnv)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "grrt", "tracker.yaml"), nil
}

func (s *Session) SaveToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, s.account, token)
}

// Token returns the stored token or ErrNotLoggedIn.
func (s *Session) Token() (string, error) {
	tok, err := keyring.Get(KeyringService, s.account)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(tok) == "") {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("read keychain: %w", err)
	}
	return tok, nil
}

func (s *Session) Authenticated() bool {
	_, err := s.Token()
	return err == nil
}

// Clear forgets the token. Clearing an absent token is not an error.
func (s *Session) Clear() error {
	err := keyring.Delete(KeyringService, s.account)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// LoadPrefs reads the prefs file. A missing file yields zero prefs.
func (s *Session) LoadPrefs() (Prefs, error) {
	var p Prefs
	b, err := os.ReadFile(s.prefsPath)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse %s: %w", s.prefsPath, err)
	}
	if p.LastStage != "" && !p.LastStage.Valid() {
		p.LastStage = ""
	}
	return p, nil
}

// SavePrefs writes the prefs file through a temp file and rename.
func (s *Session) SavePrefs(p Prefs) error {
	b, err := yaml.Marshal(&p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.prefsPath), 0o755); err != nil {
		return err
	}
	tmp := s.prefsPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.prefsPath)
}

// UpdatePrefs loads, applies fn and saves.
func (s *Session) UpdatePrefs(fn func(*Prefs)) error {
	p, err := s.LoadPrefs()
	if err != nil {
		return err
	}
	fn(&p)
	return s.SavePrefs(p)
}
