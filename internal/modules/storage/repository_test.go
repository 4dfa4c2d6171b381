package storage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/nwcreek/internal/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(database.Config{Path: "file::memory:", Name: "storage"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestRepository_LoadMissingScopeIsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	values, err := repo.Load("nobody")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRepository_SaveAndLoad(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Save("s1", map[string]string{TokenKey: "abc", ThemeKey: "dark"}))

	values, err := repo.Load("s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{TokenKey: "abc", ThemeKey: "dark"}, values)

	// Scopes are isolated
	other, err := repo.Load("s2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestScoped_GetSetRemoveClear(t *testing.T) {
	repo := newTestRepository(t)
	store := repo.Scope("browser-1")

	_, ok := store.Get(TokenKey)
	assert.False(t, ok)

	require.NoError(t, store.Set(TokenKey, "jwt"))
	require.NoError(t, store.Set(ThemeKey, "dark"))

	v, ok := store.Get(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "jwt", v)

	require.NoError(t, store.Remove(TokenKey))
	_, ok = store.Get(TokenKey)
	assert.False(t, ok)

	theme, ok := store.Get(ThemeKey)
	assert.True(t, ok, "removing one key keeps the others")
	assert.Equal(t, "dark", theme)

	require.NoError(t, store.Remove("missing"))

	require.NoError(t, store.Clear())
	_, ok = store.Get(ThemeKey)
	assert.False(t, ok)
}

func TestRepository_PurgeIdle(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Unix(1_700_000_000, 0)

	repo.now = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, repo.Save("stale", map[string]string{TokenKey: "old"}))

	repo.now = func() time.Time { return now }
	require.NoError(t, repo.Save("fresh", map[string]string{TokenKey: "new"}))

	removed, err := repo.PurgeIdle(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	stale, err := repo.Load("stale")
	require.NoError(t, err)
	assert.Empty(t, stale)

	fresh, err := repo.Load("fresh")
	require.NoError(t, err)
	assert.Equal(t, "new", fresh[TokenKey])
}

func TestRepository_TouchKeepsScopeAlive(t *testing.T) {
	repo := newTestRepository(t)
	now := time.Unix(1_700_000_000, 0)

	repo.now = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, repo.Save("s", map[string]string{ThemeKey: "light"}))

	repo.now = func() time.Time { return now }
	require.NoError(t, repo.Touch("s"))

	removed, err := repo.PurgeIdle(24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemory(t *testing.T) {
	var store Store = NewMemory()

	require.NoError(t, store.Set(TokenKey, "t"))
	v, ok := store.Get(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "t", v)

	require.NoError(t, store.Clear())
	_, ok = store.Get(TokenKey)
	assert.False(t, ok)
}

func TestScoped_RemoveIsNotUndoneByConcurrentSet(t *testing.T) {
	repo := newTestRepository(t)
	store := repo.Scope("s1")
	require.NoError(t, store.Set(TokenKey, "expired"))

	// Hold the first update between its read and its write
	read := make(chan struct{})
	release := make(chan struct{})
	var held atomic.Bool
	repo.loaded = func(string) {
		if held.CompareAndSwap(false, true) {
			close(read)
			<-release
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.Remove(TokenKey))
	}()
	<-read

	setDone := make(chan struct{})
	go func() {
		defer wg.Done()
		defer close(setDone)
		assert.NoError(t, store.Set(ThemeKey, "dark"))
	}()

	select {
	case <-setDone:
		t.Fatal("Set ran while Remove was between read and write")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	wg.Wait()

	values, err := repo.Load("s1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{ThemeKey: "dark"}, values)
}

func TestScoped_ConcurrentWritesKeepEveryKey(t *testing.T) {
	repo := newTestRepository(t)
	store := repo.Scope("s1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Set(fmt.Sprintf("k%d", i), "v"))
		}(i)
	}
	wg.Wait()

	values, err := repo.Load("s1")
	require.NoError(t, err)
	assert.Len(t, values, 20)
}
