package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"gitlab.com/tinyland/lab/eventreel/pkg/rotation"
)

// Config is the root of config.toml.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
	Carousel CarouselConfig `toml:"carousel"`
	Hero     HeroConfig     `toml:"hero"`
	Gallery  GalleryConfig  `toml:"gallery"`
	Image    ImageConfig    `toml:"image"`
	Theme    ThemeConfig    `toml:"theme"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	CacheDir string `toml:"cache_dir"`
	// LogFile receives logs in browse mode. Empty means CacheDir/eventreel.log.
	LogFile string `toml:"log_file"`
}

// ServerConfig configures `eventreel serve`.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	CatalogFile     string   `toml:"catalog_file"`
	WatchCatalog    bool     `toml:"watch_catalog"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// ClientConfig configures how browse and slideshow reach the API.
type ClientConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
	// RefreshInterval re-polls the API so catalog changes reach the TUI.
	// Zero disables polling.
	RefreshInterval Duration `toml:"refresh_interval"`
	// OfflineTTL keeps the last good API responses on disk for this long
	// and serves them when the API is unreachable. Zero disables it.
	OfflineTTL Duration `toml:"offline_ttl"`
}

// CarouselConfig configures the featured carousel and the slideshow.
type CarouselConfig struct {
	Interval    Duration `toml:"interval"`
	Variant     string   `toml:"variant"`
	AutoAdvance bool     `toml:"auto_advance"`
	Size        int      `toml:"size"`
}

// HeroConfig configures the hero slider.
type HeroConfig struct {
	Interval     Duration `toml:"interval"`
	Slides       int      `toml:"slides"`
	ProgressStep Duration `toml:"progress_step"`
}

// GalleryConfig configures the grid.
type GalleryConfig struct {
	PageSize int `toml:"page_size"`
	PageStep int `toml:"page_step"`
}

// ImageConfig configures photo rendering.
type ImageConfig struct {
	Protocol       string `toml:"protocol"`
	MaxCacheSizeMB int    `toml:"max_cache_size_mb"`
	Disabled       bool   `toml:"disabled"`
}

// ThemeConfig selects the palette.
type ThemeConfig struct {
	Name string `toml:"name"`
}

var validProtocols = map[string]bool{
	"auto": true, "kitty": true, "iterm2": true, "sixel": true, "halfblocks": true, "none": true,
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLevel(c.General.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must not be negative, got %v", c.Server.RateLimit))
	}
	if u, err := url.Parse(c.Client.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.base_url %q must be an http(s) URL", c.Client.BaseURL))
	}
	if c.Carousel.Size < 1 {
		errs = append(errs, fmt.Errorf("carousel.size must be at least 1, got %d", c.Carousel.Size))
	}
	if !knownVariant(c.Carousel.Variant) {
		errs = append(errs, fmt.Errorf("carousel.variant %q is not one of %s",
			c.Carousel.Variant, strings.Join(rotation.MapperNames(), ", ")))
	}
	if c.Hero.Slides < 1 {
		errs = append(errs, fmt.Errorf("hero.slides must be at least 1, got %d", c.Hero.Slides))
	}
	if c.Gallery.PageSize < 1 || c.Gallery.PageStep < 1 {
		errs = append(errs, errors.New("gallery.page_size and gallery.page_step must be positive"))
	}
	if !validProtocols[strings.ToLower(c.Image.Protocol)] {
		errs = append(errs, fmt.Errorf("image.protocol %q is not supported", c.Image.Protocol))
	}

	return errors.Join(errs...)
}

func knownVariant(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range rotation.MapperNames() {
		if n == name {
			return true
		}
	}
	return false
}

// ParseLevel maps a log_level string onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("general.log_level %q: %w", s, err)
	}
	return lvl, nil
}
