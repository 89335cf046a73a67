package prefstore

import (
	"path/filepath"
	"testing"

	"wrmb_dapp/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	prefs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "auto", prefs.Theme)
	assert.Equal(t, "en", prefs.Locale)
	assert.False(t, prefs.WasConnected)
}

func TestSettersValidate(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(s.SetTheme("neon")))
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(s.SetLocale("fr")))
	require.NoError(t, s.SetTheme("dark"))
	require.NoError(t, s.SetLocale("zh"))
	require.NoError(t, s.SetWasConnected(true))

	prefs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "dark", prefs.Theme)
	assert.Equal(t, "zh", prefs.Locale)
	assert.True(t, prefs.WasConnected)

	require.NoError(t, s.SetWasConnected(false))
	prefs, _ = s.Load()
	assert.False(t, prefs.WasConnected)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefs")
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.SetTheme("light"))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	prefs, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "light", prefs.Theme)
}
