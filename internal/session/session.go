package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/promptlens/promptlens/utils"
)

const (
	credentialPrefix = "sk-"
	sessionFileName  = "session.json"
)

// Validation failures surfaced inline next to the setup field. They
// name the specific problem and never abort the program.
var (
	ErrEmptyCredential   = errors.New("API key is required")
	ErrInvalidCredential = errors.New(`API key must start with "` + credentialPrefix + `"`)
)

// Store owns the credential and model choice for the current user
// session. It is created once at startup and passed down explicitly;
// nothing else touches the session file. The credential is only ever
// read back to be sent as the authorization value of refine calls.
type Store struct {
	path string
	data sessionData
}

type sessionData struct {
	APIKey string `json:"apiKey,omitempty"`
	Model  string `json:"model,omitempty"`
}

// Open loads any persisted session from stateDir. A present credential
// puts the store in the Ready state straight away; an unreadable or
// corrupt session file just means starting unconfigured.
func Open(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("session: create state dir: %w", err)
	}

	s := &Store{path: filepath.Join(stateDir, sessionFileName)}
	if raw, err := os.ReadFile(s.path); err == nil {
		_ = json.Unmarshal(raw, &s.data)
	}
	return s, nil
}

// Ready reports whether a usable credential is held.
func (s *Store) Ready() bool {
	return s.data.APIKey != ""
}

func (s *Store) Credential() string {
	return s.data.APIKey
}

func (s *Store) Model() string {
	return s.data.Model
}

// SetCredential validates and persists a credential, moving the session
// to Ready. On a validation error the state is left unchanged.
func (s *Store) SetCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyCredential
	}
	if !utils.StartsWith(key, credentialPrefix) {
		return ErrInvalidCredential
	}

	s.data.APIKey = key
	return s.save()
}

// SetModel persists the selected model identifier alongside the
// credential.
func (s *Store) SetModel(model string) error {
	s.data.Model = model
	return s.save()
}

// Reset forgets the credential and model and removes the session file,
// returning the store to the unconfigured state.
func (s *Store) Reset() error {
	s.data = sessionData{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove: %w", err)
	}
	return nil
}

func (s *Store) save() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}
