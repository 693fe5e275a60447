// Copyright (c) 2026 Fruvia. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kvstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruvia/internal/storefront/kvstore"
)

func openStore(t *testing.T) (*kvstore.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "state.json")
	store, err := kvstore.Open(path)
	require.NoError(t, err)
	return store, path
}

/*
TestStore_RoundTrip checks that typed values survive a write, a read, and a
full reopen from disk.
*/
func TestStore_RoundTrip(t *testing.T) {
	store, path := openStore(t)

	type prefs struct {
		Theme    string `json:"theme"`
		PageSize int    `json:"page_size"`
	}

	require.NoError(t, store.Set(kvstore.KeyPreferences, prefs{Theme: "dark", PageSize: 20}))
	require.NoError(t, store.SetString(kvstore.KeyToken, "access-token"))

	var got prefs
	assert.True(t, store.Get(kvstore.KeyPreferences, &got))
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, 20, got.PageSize)
	assert.Equal(t, "access-token", store.GetString(kvstore.KeyToken))

	reopened, err := kvstore.Open(path)
	require.NoError(t, err)

	got = prefs{}
	assert.True(t, reopened.Get(kvstore.KeyPreferences, &got))
	assert.Equal(t, 20, got.PageSize)
	assert.Equal(t, "access-token", reopened.GetString(kvstore.KeyToken))
}

/*
TestStore_MissingAndRemoved checks the absent-key contract: Get reports
false, GetString returns the empty string, and Remove is idempotent.
*/
func TestStore_MissingAndRemoved(t *testing.T) {
	store, _ := openStore(t)

	var target string
	assert.False(t, store.Get("nope", &target))
	assert.Equal(t, "", store.GetString("nope"))

	require.NoError(t, store.SetString(kvstore.KeyUser, `{"id":"u1"}`))
	require.NoError(t, store.Remove(kvstore.KeyUser))
	require.NoError(t, store.Remove(kvstore.KeyUser))
	assert.Equal(t, "", store.GetString(kvstore.KeyUser))
}

/*
TestStore_CorruptFile checks that an unreadable state file degrades to an
empty store instead of failing open.
*/
func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := kvstore.Open(path)
	require.NoError(t, err)
	assert.Empty(t, store.Keys(""))

	require.NoError(t, store.SetString(kvstore.KeyToken, "t"))
	assert.Equal(t, "t", store.GetString(kvstore.KeyToken))
}

/*
TestStore_SetMany checks that a batch write lands as one unit and that an
unserializable entry fails the batch without losing the good entries.
*/
func TestStore_SetMany(t *testing.T) {
	store, path := openStore(t)

	err := store.SetMany(map[string]any{
		kvstore.KeyToken:        "access",
		kvstore.KeyRefreshToken: "refresh",
	})
	require.NoError(t, err)

	reopened, err := kvstore.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "access", reopened.GetString(kvstore.KeyToken))
	assert.Equal(t, "refresh", reopened.GetString(kvstore.KeyRefreshToken))

	err = store.SetMany(map[string]any{
		kvstore.KeyUser: `{"id":"u1"}`,
		"broken":        make(chan int),
	})
	assert.Error(t, err)
	assert.NotEqual(t, "", store.GetString(kvstore.KeyUser))
	assert.Equal(t, "", store.GetString("broken"))
}

/*
TestStore_KeysAndClear checks prefix scanning and the full wipe.
*/
func TestStore_KeysAndClear(t *testing.T) {
	store, _ := openStore(t)

	require.NoError(t, store.SetString(kvstore.CachePrefix+"products", "[]"))
	require.NoError(t, store.SetString(kvstore.CachePrefix+"tips", "[]"))
	require.NoError(t, store.SetString(kvstore.KeyToken, "t"))

	cached := store.Keys(kvstore.CachePrefix)
	assert.Equal(t, []string{kvstore.CachePrefix + "products", kvstore.CachePrefix + "tips"}, cached)
	assert.Len(t, store.Keys(""), 3)

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Keys(""))
	assert.Equal(t, "", store.GetString(kvstore.KeyToken))
}
