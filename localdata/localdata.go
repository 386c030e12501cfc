// Package localdata is a small file-backed key-value store for client-side
// persisted state: the auth token, the reminder list, the read-notification id
// set and the cached profile. A missing or corrupt file reads as empty.
package localdata

import (
	"encoding/json"
	"os"
	"sync"
)

// Keys used by the client stores.
const (
	KeyToken     = "token"
	KeyReminders = "reminders"
	KeyReadIDs   = "readNotifications"
	KeyProfile   = "classpilot_profile"
)

type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the store at path, creating an empty one when the file does not
// exist or cannot be parsed.
func Open(path string) *Store {
	s := &Store{path: path, data: map[string]json.RawMessage{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return s
	}
	s.data = data
	return s
}

// Get decodes the value under key into out and reports whether it was present
// and well-formed.
func (s *Store) Get(key string, out any) bool {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// GetString reads a plain string value; "" when absent.
func (s *Store) GetString(key string) string {
	var v string
	if !s.Get(key, &v) {
		return ""
	}
	return v
}

// Set stores v under key and flushes to disk.
func (s *Store) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flush()
}

// Delete removes key and flushes to disk.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.flush()
}

// caller holds s.mu
func (s *Store) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
