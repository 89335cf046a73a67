// Package prefstore persists the UI preference scalars in LevelDB.
package prefstore

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"wrmb_dapp/internal/domain/entity"
	"wrmb_dapp/internal/pkg/apperr"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

const (
	keyTheme        = "wrmb-dapp-theme"
	keyLocale       = "wrmb-dapp-language"
	keyWasConnected = "wrmb-dapp-wallet-connected"
)

// Defaults applied when nothing has been stored yet.
const (
	DefaultTheme  = "auto"
	DefaultLocale = "en"
)

var (
	themes  = map[string]bool{"light": true, "dark": true, "auto": true}
	locales = map[string]bool{"en": true, "zh": true}
)

// Store implements port.Preferences.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("preferences path required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("resolve preferences path: %w", err)
	}
	db, err := leveldb.OpenFile(abs, nil)
	if err != nil {
		return nil, fmt.Errorf("open preferences store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenMemory returns a store backed by in-memory storage.
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open in-memory preferences store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the stored preferences with defaults for missing keys.
func (s *Store) Load() (entity.Preferences, error) {
	prefs := entity.Preferences{Theme: DefaultTheme, Locale: DefaultLocale}
	if v, ok, err := s.get(keyTheme); err != nil {
		return prefs, err
	} else if ok && themes[v] {
		prefs.Theme = v
	}
	if v, ok, err := s.get(keyLocale); err != nil {
		return prefs, err
	} else if ok && locales[v] {
		prefs.Locale = v
	}
	if v, ok, err := s.get(keyWasConnected); err != nil {
		return prefs, err
	} else if ok {
		prefs.WasConnected, _ = strconv.ParseBool(v)
	}
	return prefs, nil
}

func (s *Store) SetTheme(theme string) error {
	if !themes[theme] {
		return apperr.InvalidInput("unsupported theme %q", theme)
	}
	return s.put(keyTheme, theme)
}

func (s *Store) SetLocale(locale string) error {
	if !locales[locale] {
		return apperr.InvalidInput("unsupported language %q", locale)
	}
	return s.put(keyLocale, locale)
}

func (s *Store) SetWasConnected(connected bool) error {
	if !connected {
		if err := s.db.Delete([]byte(keyWasConnected), nil); err != nil {
			return fmt.Errorf("clear %s: %w", keyWasConnected, err)
		}
		return nil
	}
	return s.put(keyWasConnected, strconv.FormatBool(connected))
}

func (s *Store) get(key string) (string, bool, error) {
	v, err := s.db.Get([]byte(key), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	return string(v), true, nil
}

func (s *Store) put(key, value string) error {
	if err := s.db.Put([]byte(key), []byte(value), nil); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
