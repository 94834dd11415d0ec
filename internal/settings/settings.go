// Package settings owns the on-disk settings document. The API key is NOT
// stored here; it lives in the OS keychain (see internal/keychain).
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	// DefaultAPIURL is the production coordinator URL.
	DefaultAPIURL = "https://app.baystatepet.com"

	// FallbackRunnerName is used when the hostname cannot be resolved.
	FallbackRunnerName = "Desktop Runner"

	settingsFileName = "settings.json"
	browsersDirName  = "browsers"
	historyDBName    = "history.db"
)

// AppSettings is the persisted configuration document. Every field has a
// default, so a load can never produce a partially populated value.
type AppSettings struct {
	APIURL            string `json:"api_url"`
	RunnerName        string `json:"runner_name"`
	Headless          bool   `json:"headless"`
	AutoUpdate        bool   `json:"auto_update"`
	FirstRunComplete  bool   `json:"first_run_complete"`
	ChromiumInstalled bool   `json:"chromium_installed"`
}

// Defaults returns a fully populated settings document.
func Defaults() AppSettings {
	name, err := os.Hostname()
	if err != nil || strings.TrimSpace(name) == "" {
		name = FallbackRunnerName
	}
	return AppSettings{
		APIURL:            DefaultAPIURL,
		RunnerName:        name,
		Headless:          true,
		AutoUpdate:        true,
		FirstRunComplete:  false,
		ChromiumInstalled: false,
	}
}

// AppDataDir resolves the platform application-data directory for the
// (com, baystate, scraper) identifier:
//   - macOS:   ~/Library/Application Support/com.baystate.scraper
//   - Windows: %APPDATA%\baystate\scraper
//   - other:   $XDG_DATA_HOME/baystate-scraper or ~/.local/share/baystate-scraper
func AppDataDir() string {
	switch runtime.GOOS {
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support", "com.baystate.scraper")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "baystate", "scraper")
		}
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "baystate-scraper")
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share", "baystate-scraper")
		}
	}
	return "."
}

// Store reads and writes the settings document under a single root
// directory. A mutex serializes writers within the process; no file
// locking is done because the deployment model is one shell process
// per machine.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a Store rooted at dir. An empty dir selects the
// platform app-data directory.
func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = AppDataDir()
	}
	return &Store{dir: dir}
}

// Dir returns the root app-data directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the settings file path.
func (s *Store) Path() string { return filepath.Join(s.dir, settingsFileName) }

// BrowsersDir returns the directory Playwright browsers are installed into.
func (s *Store) BrowsersDir() string { return filepath.Join(s.dir, browsersDirName) }

// HistoryDBPath returns the local run-history SQLite file path.
func (s *Store) HistoryDBPath() string { return filepath.Join(s.dir, historyDBName) }

// Load reads the settings file, returning Defaults() for a missing,
// unreadable, or malformed file. It never fails.
func (s *Store) Load() AppSettings {
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		return Defaults()
	}
	out := Defaults()
	if err := json.Unmarshal(raw, &out); err != nil {
		return Defaults()
	}
	return out
}

// Save writes the document as pretty-printed JSON, creating the directory
// tree when absent. Any previous contents are replaced.
func (s *Store) Save(doc AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *Store) save(doc AppSettings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create app data dir: %w", err)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(s.Path(), raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Update performs a read-modify-write cycle and returns the saved document.
// It is not isolated against concurrent external writers; the single-process
// deployment model makes that acceptable.
func (s *Store) Update(mutate func(*AppSettings)) (AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Load()
	mutate(&doc)
	if err := s.save(doc); err != nil {
		return AppSettings{}, err
	}
	return doc, nil
}
