package toml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bnema/talkie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "preferences.toml")
	store, err := NewStore(path)
	require.NoError(t, err)

	_, found, err := store.Get(context.Background(), domain.PreferenceGender)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(context.Background(), domain.PreferenceGender, "female"))
	require.NoError(t, store.Put(context.Background(), domain.PreferenceTheme, "arctic"))
	require.NoError(t, store.Put(context.Background(), domain.PreferenceGender, "male"))

	reopened, err := NewStore(path)
	require.NoError(t, err)

	gender, found, err := reopened.Get(context.Background(), domain.PreferenceGender)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "male", gender)

	theme, _, err := reopened.Get(context.Background(), domain.PreferenceTheme)
	require.NoError(t, err)
	assert.Equal(t, "arctic", theme)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStoreWritesVersionedSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preferences.toml")
	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), domain.PreferenceCallsign, "ALPHA-1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "[preferences]")
	assert.Contains(t, string(data), "ALPHA-1")
}

func TestStoreRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preferences.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 9\n"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), domain.PreferenceTheme)
	assert.ErrorContains(t, err, "unsupported preferences schema version 9")
}

func TestStoreRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preferences.toml")
	require.NoError(t, os.WriteFile(path, []byte("[preferences\n"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	err = store.Put(context.Background(), domain.PreferenceTheme, "neon")
	assert.ErrorContains(t, err, "decode preferences file")
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "preferences.toml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, domain.PreferenceTheme, "neon"), context.Canceled)
	_, _, err = store.Get(ctx, domain.PreferenceTheme)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreConcurrentPutsKeepEveryKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preferences.toml")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, err := NewStore(path)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, store.Put(context.Background(), fmt.Sprintf("key-%d", i), "value"))
		}(i)
	}
	wg.Wait()

	store, err := NewStore(path)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, found, err := store.Get(context.Background(), fmt.Sprintf("key-%d", i))
		require.NoError(t, err)
		assert.True(t, found, "key-%d", i)
	}
}
