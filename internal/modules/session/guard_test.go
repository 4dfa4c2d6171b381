package session

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unauthorized() error {
	return fmt.Errorf("load watchlist: %w", &northwest.APIError{StatusCode: http.StatusUnauthorized, Detail: "Not authenticated"})
}

func TestGuard_ClearsTokenAndNavigatesOnce(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.TokenKey, "expired"))
	require.NoError(t, store.Set(storage.ThemeKey, "dark"))
	nav := &Recorder{}
	guard := NewGuard(store, nav, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, guard.Check(unauthorized()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, nav.Count())
	assert.Equal(t, LoginPath, nav.Target())
	assert.True(t, guard.Redirected())

	_, ok := store.Get(storage.TokenKey)
	assert.False(t, ok)
	theme, _ := store.Get(storage.ThemeKey)
	assert.Equal(t, "dark", theme, "only the token is cleared")
}

func TestGuard_IgnoresOtherErrors(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(storage.TokenKey, "valid"))
	nav := &Recorder{}
	guard := NewGuard(store, nav, zerolog.Nop())

	assert.False(t, guard.Check(nil))
	assert.False(t, guard.Check(errors.New("network down")))
	assert.False(t, guard.Check(&northwest.APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, guard.Check(&northwest.APIError{StatusCode: http.StatusNotFound, Detail: "Ticker not found"}))

	assert.Zero(t, nav.Count())
	assert.False(t, guard.Redirected())
	token, ok := store.Get(storage.TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "valid", token)
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	NavigatorFunc(func(p string) { got = p }).Navigate("/pricing")
	assert.Equal(t, "/pricing", got)
}
