package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// AppName names the XDG directories.
const AppName = "eventreel"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/eventreel/config.toml
//  2. ~/.config/eventreel/config.toml
//
// If no file exists, the defaults are used. Environment overrides apply in
// every case.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes TOML over the defaults and applies environment
// overrides. Unknown keys are an error.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("unknown config key %q", undec[0].String())
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cacheDir := filepath.Join(xdgCacheHome(home), AppName)

	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			CacheDir: cacheDir,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:5000",
			RateLimit:       20,
			RateBurst:       40,
			ShutdownTimeout: D(5 * time.Second),
		},
		Client: ClientConfig{
			BaseURL:         "http://127.0.0.1:5000",
			Timeout:         D(10 * time.Second),
			RefreshInterval: D(30 * time.Second),
			OfflineTTL:      D(24 * time.Hour),
		},
		Carousel: CarouselConfig{
			Interval:    D(3 * time.Second),
			Variant:     "flat",
			AutoAdvance: true,
			Size:        5,
		},
		Hero: HeroConfig{
			Interval:     D(5 * time.Second),
			Slides:       3,
			ProgressStep: D(50 * time.Millisecond),
		},
		Gallery: GalleryConfig{
			PageSize: 8,
			PageStep: 4,
		},
		Image: ImageConfig{
			Protocol:       "auto",
			MaxCacheSizeMB: 50,
		},
		Theme: ThemeConfig{
			Name: "auto",
		},
	}
}

// envOverrides holds the raw environment values that win over the file.
type envOverrides struct {
	Addr     string `env:"EVENTREEL_ADDR"`
	API      string `env:"EVENTREEL_API"`
	Theme    string `env:"EVENTREEL_THEME"`
	Protocol string `env:"EVENTREEL_PROTOCOL"`
	Catalog  string `env:"EVENTREEL_CATALOG"`
	LogLevel string `env:"EVENTREEL_LOG_LEVEL"`
}

func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.Addr != "" {
		cfg.Server.Addr = o.Addr
	}
	if o.API != "" {
		cfg.Client.BaseURL = o.API
	}
	if o.Theme != "" {
		cfg.Theme.Name = o.Theme
	}
	if o.Protocol != "" {
		cfg.Image.Protocol = o.Protocol
	}
	if o.Catalog != "" {
		cfg.Server.CatalogFile = o.Catalog
	}
	if o.LogLevel != "" {
		cfg.General.LogLevel = o.LogLevel
	}
	return nil
}

// LogPath returns where browse mode writes its log.
func (c *Config) LogPath() string {
	if c.General.LogFile != "" {
		return c.General.LogFile
	}
	return filepath.Join(c.General.CacheDir, AppName+".log")
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, AppName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, AppName, "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}

// ThemeDir is where custom *.toml themes are looked up.
func ThemeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgConfigHome(home), AppName, "themes")
}
