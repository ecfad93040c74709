package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultAPIBase     = "http://127.0.0.1:8000"
	DefaultConcurrency = 1
)

type Config struct {
	// APIBase is the origin serving /api/defaultstate and /api/countryname/{code}.
	APIBase string `json:"apiBase,omitempty"`

	// Concurrency bounds parallel country name lookups. 1 keeps the lookups
	// strictly sequential.
	Concurrency int `json:"concurrency,omitempty"`

	// NameCache enables the SQLite country name cache.
	NameCache bool `json:"nameCache,omitempty"`

	// TimeoutSeconds bounds each API request.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`

	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// MarkdownStyle is the glamour style used for the help panel ("dark", "light", "notty").
	MarkdownStyle string `json:"markdownStyle,omitempty"`
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.APIBase) == "" {
		c.APIBase = DefaultAPIBase
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return c
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.country-editor).
	if v := strings.TrimSpace(os.Getenv("COUNTRY_EDITOR_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".country-editor"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the config file. A missing file is an empty config.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// A unique temp name keeps a TUI and a CLI writing at once from clobbering each other.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}
