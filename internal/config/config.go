// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// EnvAPIURL overrides api_url when set
const EnvAPIURL = "SILVER_API_URL"

// Config represents the application configuration
type Config struct {
	APIURL                string `toml:"api_url"`
	SearchLimit           int    `toml:"search_limit"`
	SearchDebounceMs      int    `toml:"search_debounce_ms"`
	MaxRows               int    `toml:"max_rows"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	ColumnWidth           int    `toml:"column_width"`
	ExportDir             string `toml:"export_dir"`
	HistoryLimit          int    `toml:"history_limit"`
	SyntaxStyle           string `toml:"syntax_style"`

	// APIToken is kept in memory for usage
	APIToken string `toml:"-"`
	// EncryptedAPIToken is the one persisted in the config file
	EncryptedAPIToken string `toml:"api_token,omitempty"`

	Theme Theme  `toml:"theme_colors"`
	Keys  KeyMap `toml:"keys"`
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
	CardBg        string `toml:"card_bg"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Execute     []string `toml:"execute"`
	Cancel      []string `toml:"cancel"`
	Exit        []string `toml:"exit"`
	FocusNext   []string `toml:"focus_next"`
	ClearClient []string `toml:"clear_client"`
	ToggleView  []string `toml:"toggle_view"`
	Export      []string `toml:"export"`
	Options     []string `toml:"options"`
	History     []string `toml:"history"`
	Help        []string `toml:"help"`
	Inspect     []string `toml:"inspect"`
	RowDetail   []string `toml:"row_detail"`
	Copy        []string `toml:"copy"`
}

// Matches reports whether key is one of the bound keys
func Matches(binding []string, key string) bool {
	for _, k := range binding {
		if k == key {
			return true
		}
	}
	return false
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		APIURL:                "http://localhost:8000",
		SearchLimit:           20,
		SearchDebounceMs:      300,
		MaxRows:               5000,
		TimeoutSeconds:        30,
		RequestTimeoutSeconds: 120,
		ColumnWidth:           20,
		ExportDir:             "",
		HistoryLimit:          100,
		SyntaxStyle:           "nord",
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
			CardBg:        "#434C5E",
		},
		Keys: KeyMap{
			Execute:     []string{"ctrl+r", "f5"},
			Cancel:      []string{"ctrl+x"},
			Exit:        []string{"ctrl+c"},
			FocusNext:   []string{"tab"},
			ClearClient: []string{"ctrl+u"},
			ToggleView:  []string{"ctrl+t"},
			Export:      []string{"ctrl+e"},
			Options:     []string{"ctrl+o"},
			History:     []string{"ctrl+p"},
			Help:        []string{"f1"},
			Inspect:     []string{"enter"},
			RowDetail:   []string{"v"},
			Copy:        []string{"y"},
		},
	}
}

// SearchDelay is the client search quiet period
func (c *Config) SearchDelay() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// RequestTimeout bounds every HTTP request to the backend
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("silver/config.toml")
}

// Load loads the config from the XDG path, creating it on first run,
// and applies environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile loads the config at path or creates it with defaults
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// First run: create default
		cfg := DefaultConfig()
		if err := cfg.SaveFile(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Populate defaults for missing fields (migration)
	if cfg.backfill(DefaultConfig()) {
		// Save updated config to persist defaults so user can see/edit them
		if err := cfg.SaveFile(path); err != nil {
			log.Printf("config: persisting defaults: %v", err)
		}
	}

	if cfg.EncryptedAPIToken != "" {
		token, err := decryptToken(cfg.EncryptedAPIToken)
		if err != nil {
			log.Printf("config: api token unavailable: %v", err)
		} else {
			cfg.APIToken = token
		}
	}

	return &cfg, nil
}

func (c *Config) backfill(d *Config) bool {
	updated := false
	str := func(v *string, def string) {
		if *v == "" {
			*v = def
			updated = true
		}
	}
	num := func(v *int, def int) {
		if *v <= 0 {
			*v = def
			updated = true
		}
	}

	str(&c.APIURL, d.APIURL)
	str(&c.SyntaxStyle, d.SyntaxStyle)
	num(&c.SearchLimit, d.SearchLimit)
	num(&c.SearchDebounceMs, d.SearchDebounceMs)
	num(&c.MaxRows, d.MaxRows)
	num(&c.TimeoutSeconds, d.TimeoutSeconds)
	num(&c.RequestTimeoutSeconds, d.RequestTimeoutSeconds)
	num(&c.ColumnWidth, d.ColumnWidth)
	num(&c.HistoryLimit, d.HistoryLimit)

	if c.Theme.TextPrimary == "" {
		c.Theme = d.Theme
		updated = true
	}
	if len(c.Keys.Execute) == 0 {
		c.Keys = d.Keys
		updated = true
	}
	return updated
}

// ApplyEnv applies environment overrides
func (c *Config) ApplyEnv() {
	if url := os.Getenv(EnvAPIURL); url != "" {
		c.APIURL = url
	}
}

// SetAPIToken replaces the in-memory token; SaveFile persists it encrypted
func (c *Config) SetAPIToken(token string) {
	c.APIToken = token
	if token == "" {
		c.EncryptedAPIToken = ""
	}
}

// StoreAPIToken persists token into the config file at the XDG path
func StoreAPIToken(token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return StoreAPITokenFile(path, token)
}

// StoreAPITokenFile re-reads the file at path and saves it with token.
// Environment and flag overrides never reach the file.
func StoreAPITokenFile(path, token string) error {
	cfg, err := LoadFile(path)
	if err != nil {
		return err
	}
	cfg.SetAPIToken(token)
	return cfg.SaveFile(path)
}

// Save writes the config to the XDG path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path
func (c *Config) SaveFile(path string) error {
	// Ensure directory exists with secure permissions
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	if c.APIToken != "" {
		encrypted, err := encryptToken(c.APIToken)
		if err != nil {
			return fmt.Errorf("encrypting api token: %w", err)
		}
		c.EncryptedAPIToken = encrypted
	}

	// Create/truncate file with secure permissions (owner read/write only)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
