// Copyright 2025 Amaru Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package amaru

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/amaruid/amaru/database/models"
)

// ErrNoSession is returned when no session is active
var ErrNoSession = errors.New("no active session")

// Session identifies the account acting in the current process. It is the
// device-local notion of "who is logged in"; nothing about it exists on
// the ledger.
type Session struct {
	Role      models.AccountRole `json:"role"`
	AccountID string             `json:"accountId"`
	PublicKey string             `json:"publicKey"`
	CreatedAt time.Time          `json:"createdAt"`
}

// SessionStore persists the active session across process restarts
type SessionStore interface {
	Load() (*Session, error)
	Save(*Session) error
	Clear() error
}

// fileSessionStore stores the session as a JSON file with owner-only
// permissions
type fileSessionStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSessionStore creates a SessionStore backed by a file at the
// given path
func NewFileSessionStore(path string) SessionStore {
	return &fileSessionStore{path: path}
}

func (s *fileSessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &session, nil
}

func (s *fileSessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *fileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil &&
		!errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// memorySessionStore holds the session in memory only. Used when the
// client runs without a data directory.
type memorySessionStore struct {
	session *Session
	mu      sync.Mutex
}

// NewMemorySessionStore creates a SessionStore with no persistence
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{}
}

func (s *memorySessionStore) Load() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoSession
	}
	session := *s.session
	return &session, nil
}

func (s *memorySessionStore) Save(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

func (s *memorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
