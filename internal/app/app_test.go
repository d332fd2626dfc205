package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/wardrobe-stylist/internal/api/apitest"
	"github.com/Rrens/wardrobe-stylist/internal/config"
	"github.com/Rrens/wardrobe-stylist/internal/domain"
	"github.com/Rrens/wardrobe-stylist/internal/repository/memory"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Env:      "test",
		API:      config.APIConfig{BaseURL: baseURL, Timeout: 5 * time.Second},
		Settings: config.SettingsConfig{Backend: config.BackendMemory},
		Assets:   config.AssetsConfig{Mode: config.AssetsStatic, BaseURL: baseURL},
	}
}

func TestNew_WiresStores(t *testing.T) {
	srv := apitest.New(t)
	srv.Store.AddItem("tee.png", nil, "Top", "White")

	a, err := New(context.Background(), testConfig(srv.URL), Options{Notices: &bytes.Buffer{}})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Catalog.Load(context.Background()))
	assert.Equal(t, []string{"Top"}, a.Catalog.Groups().Keys())
	assert.Len(t, a.View.Categories(), 1)

	u, err := a.Assets.URL(context.Background(), "1_tee.png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/uploads/1_tee.png", u)
}

func TestRestoreSession_RemembersActive(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	prefs := memory.NewPreferenceRepository()

	a, err := New(ctx, testConfig(srv.URL), Options{Notices: &bytes.Buffer{}, Preferences: prefs})
	require.NoError(t, err)

	// Nothing remembered: a new session is started and remembered
	first, err := a.RestoreSession(ctx)
	require.NoError(t, err)
	assert.False(t, first.IsZero())
	assert.Equal(t, first, a.Settings.Current().LastSession)
	require.NoError(t, a.Close())

	// A second process restores the same session
	b, err := New(ctx, testConfig(srv.URL), Options{Notices: &bytes.Buffer{}, Preferences: prefs})
	require.NoError(t, err)
	defer b.Close()

	restored, err := b.RestoreSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, restored)
	assert.Equal(t, restored, b.Messages.Loaded())
	assert.Len(t, srv.Store.Sessions(), 1)
}

func TestRestoreSession_StoredSessionGone(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	prefs := memory.NewPreferenceRepository()
	require.NoError(t, prefs.Set(ctx, "last_session", "999"))

	a, err := New(ctx, testConfig(srv.URL), Options{Notices: &bytes.Buffer{}, Preferences: prefs})
	require.NoError(t, err)
	defer a.Close()

	id, err := a.RestoreSession(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, domain.ID("999"), id)
	assert.Equal(t, id, a.Settings.Current().LastSession)
}

func TestNotices_PrintedOnFailure(t *testing.T) {
	srv := apitest.New(t)
	srv.SetOffline(true)

	var notices bytes.Buffer
	a, err := New(context.Background(), testConfig(srv.URL), Options{Notices: &notices})
	require.NoError(t, err)
	defer a.Close()

	assert.Error(t, a.Catalog.Load(context.Background()))
	assert.Contains(t, notices.String(), "error: ")
}

func TestNew_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	cfg := testConfig(srv.URL)
	cfg.Settings = config.SettingsConfig{
		Backend: config.BackendSQLite,
		Path:    filepath.Join(t.TempDir(), "stylist.sqlite3"),
	}

	a, err := New(ctx, cfg, Options{Notices: &bytes.Buffer{}})
	require.NoError(t, err)
	_, err = a.Settings.ToggleDarkMode(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(ctx, cfg, Options{Notices: &bytes.Buffer{}})
	require.NoError(t, err)
	defer b.Close()
	assert.True(t, b.Settings.Current().DarkMode)
}
