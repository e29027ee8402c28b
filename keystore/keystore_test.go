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

package keystore_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/amaruid/amaru/keystore"
	"github.com/amaruid/amaru/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeyStore(t *testing.T) *keystore.KeyStore {
	t.Helper()
	ks, err := keystore.New(keystore.Config{
		Dir: filepath.Join(t.TempDir(), "keys"),
	})
	require.NoError(t, err)
	return ks
}

func newTestSeed(t *testing.T) string {
	t.Helper()
	pair, err := ledger.GenerateKeypair()
	require.NoError(t, err)
	return pair.SecretSeed
}

func TestSaveAndLoadSeed(t *testing.T) {
	ks := newTestKeyStore(t)
	seed := newTestSeed(t)
	require.NoError(t, ks.SaveSeed("leader-1", "leader key", seed))
	loaded, err := ks.LoadSeed("leader-1")
	require.NoError(t, err)
	assert.Equal(t, seed, loaded)
}

func TestSaveSeedRefusesOverwrite(t *testing.T) {
	ks := newTestKeyStore(t)
	require.NoError(t, ks.SaveSeed("member", "", newTestSeed(t)))
	err := ks.SaveSeed("member", "", newTestSeed(t))
	assert.ErrorIs(t, err, keystore.ErrKeyExists)
}

func TestSaveSeedRejectsInvalidSeed(t *testing.T) {
	ks := newTestKeyStore(t)
	assert.Error(t, ks.SaveSeed("bad", "", "not-a-seed"))
}

func TestSaveSeedRejectsUnsafeName(t *testing.T) {
	ks := newTestKeyStore(t)
	seed := newTestSeed(t)
	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		err := ks.SaveSeed(name, "", seed)
		assert.ErrorIs(t, err, keystore.ErrInvalidKeyName, "name %q", name)
	}
}

func TestLoadSeedMissingKey(t *testing.T) {
	ks := newTestKeyStore(t)
	_, err := ks.LoadSeed("nope")
	assert.ErrorIs(t, err, keystore.ErrKeyNotFound)
}

func TestLoadSeedRejectsInsecurePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix permission bits not applicable on Windows")
	}
	ks := newTestKeyStore(t)
	require.NoError(t, ks.SaveSeed("exposed", "", newTestSeed(t)))
	require.NoError(
		t,
		os.Chmod(filepath.Join(ks.Dir(), "exposed.json"), 0o644),
	)
	_, err := ks.LoadSeed("exposed")
	assert.ErrorIs(t, err, keystore.ErrInsecureFileMode)
}

func TestListKeys(t *testing.T) {
	ks := newTestKeyStore(t)
	require.NoError(t, ks.SaveSeed("community", "shared account", newTestSeed(t)))
	require.NoError(t, ks.SaveSeed("leader-2", "", newTestSeed(t)))
	keys, err := ks.ListKeys()
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "community", keys[0].Name)
	assert.Equal(t, "shared account", keys[0].Description)
	assert.Equal(t, "leader-2", keys[1].Name)
}

func TestDeleteKey(t *testing.T) {
	ks := newTestKeyStore(t)
	require.NoError(t, ks.SaveSeed("tmp", "", newTestSeed(t)))
	require.NoError(t, ks.DeleteKey("tmp"))
	_, err := ks.LoadSeed("tmp")
	assert.ErrorIs(t, err, keystore.ErrKeyNotFound)
	assert.ErrorIs(t, ks.DeleteKey("tmp"), keystore.ErrKeyNotFound)
}
