// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package kvstore is a file-backed JSON key-value store for storefront client
state: tokens, the user snapshot, the cart, and ad hoc cache entries.

# Architecture

  - One JSON file holds the whole snapshot; every write rewrites it.
  - Reads are served from an in-memory mirror and never touch disk.
  - A mutex serializes all access; callers see each mutation completed
    before the next begins.

Storage failures never corrupt the mirror and never panic. A failed disk
write leaves the in-memory state updated and returns the error, so callers
can treat the operation as degraded success.
*/
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Well-known keys of the storefront state layout.
const (
	// KeyToken holds the raw bearer access token.
	KeyToken = "token"

	// KeyRefreshToken holds the raw refresh token.
	KeyRefreshToken = "refreshToken"

	// KeyUser holds the session identity snapshot.
	KeyUser = "user"

	// KeyCart holds the whole-cart snapshot.
	KeyCart = "cart"

	// KeyPreferences holds the UI preference bag.
	KeyPreferences = "preferences"

	// CachePrefix namespaces ad hoc cache entries.
	CachePrefix = "cache_"
)

// Store is the file-backed key-value store.
type Store struct {
	mutex sync.Mutex
	path  string
	data  map[string]json.RawMessage
}

/*
Open loads a store from the given file path, creating parent directories as
needed.

Description: A missing file yields an empty store. A file that fails to parse
is treated as empty rather than aborting; the next write replaces it.

Parameters:
  - path: string

Returns:
  - *Store: Ready-to-use store
  - error: Directory creation failure
*/
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: failed to create state directory: %w", err)
	}

	store := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("kvstore: failed to read state file: %w", err)
	}

	// A corrupt snapshot degrades to an empty store rather than blocking
	// startup. The next successful write replaces it.
	if err := json.Unmarshal(raw, &store.data); err != nil {
		store.data = make(map[string]json.RawMessage)
	}

	return store, nil
}

// Get unmarshals the value under key into target. It reports whether a value
// was present and decodable.
func (store *Store) Get(key string, target any) bool {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	raw, ok := store.data[key]
	if !ok {
		return false
	}

	return json.Unmarshal(raw, target) == nil
}

// GetString returns the string under key, or "" when absent.
func (store *Store) GetString(key string) string {
	var value string
	store.Get(key, &value)
	return value
}

// Set stores a single JSON-serializable value and writes the snapshot.
func (store *Store) Set(key string, value any) error {
	return store.SetMany(map[string]any{key: value})
}

// SetString stores a raw string value and writes the snapshot.
func (store *Store) SetString(key, value string) error {
	return store.Set(key, value)
}

/*
SetMany stores several values and writes the snapshot once.

Description: This is the atomic unit for multi-key updates such as persisting
tokens and the user snapshot together after login. A value that fails to
serialize is skipped; the mirror keeps every value that did serialize.

Parameters:
  - values: map[string]any

Returns:
  - error: Serialization or disk-write failure; the in-memory mirror is
    updated regardless
*/
func (store *Store) SetMany(values map[string]any) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	var firstErr error
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("kvstore: failed to serialize %q: %w", key, err)
			}
			continue
		}
		store.data[key] = raw
	}

	if err := store.flush(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// Remove deletes the given keys and writes the snapshot.
func (store *Store) Remove(keys ...string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	for _, key := range keys {
		delete(store.data, key)
	}

	return store.flush()
}

// Clear empties the store and writes the snapshot.
func (store *Store) Clear() error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	store.data = make(map[string]json.RawMessage)

	return store.flush()
}

// Keys returns the sorted keys matching the given prefix. An empty prefix
// returns every key.
func (store *Store) Keys(prefix string) []string {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	keys := make([]string, 0, len(store.data))
	for key := range store.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	return keys
}

// flush rewrites the snapshot file. Callers must hold the mutex.
//
// The write goes through a temp file and rename so a crash mid-write cannot
// leave a half-written snapshot.
func (store *Store) flush() error {
	raw, err := json.MarshalIndent(store.data, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: failed to serialize snapshot: %w", err)
	}

	temp := store.path + ".tmp"
	if err := os.WriteFile(temp, raw, 0o600); err != nil {
		return fmt.Errorf("kvstore: failed to write snapshot: %w", err)
	}

	if err := os.Rename(temp, store.path); err != nil {
		return fmt.Errorf("kvstore: failed to replace snapshot: %w", err)
	}

	return nil
}
