package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"pdfgrip/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Version  int            `toml:"version"`
	UserID   string         `toml:"user_id"`
	DataDir  string         `toml:"data_dir"` // annotation storage, empty means default
	Viewer   ViewerSettings `toml:"viewer"`
	Scan     ScanSettings   `toml:"scan"`
}

// ViewerSettings tune the virtualization engine and zoom behavior
type ViewerSettings struct {
	ZoomMode          domain.ZoomMode `toml:"zoom_mode"`
	CustomScale       float64         `toml:"custom_scale"`
	FitPadding        float64         `toml:"fit_padding"`         // px subtracted from container width for fit modes
	OverscanPx        float64         `toml:"overscan_px"`         // extra margin kept mounted beyond the viewport
	SlotPoolSize      int             `toml:"slot_pool_size"`      // bound on live page renderer instances
	DefaultPageHeight float64         `toml:"default_page_height"` // estimate before any page is measured
	PageMarginPx      float64         `toml:"page_margin_px"`      // fixed gap between pages
	PixelsPerRow      float64         `toml:"pixels_per_row"`      // terminal row <-> engine pixel mapping
	AutosaveOnExit    bool            `toml:"autosave_on_exit"`
}

// ScanSettings tune the QR scan workflow
type ScanSettings struct {
	PageTimeoutSec int     `toml:"page_timeout_sec"`
	RasterScale    float64 `toml:"raster_scale"`   // scale pages are rasterized at for decoding
	MaxImageEdge   int     `toml:"max_image_edge"` // larger rasters are downscaled before decoding
}

// PageTimeout returns the per-page scan timeout as a duration
func (s ScanSettings) PageTimeout() time.Duration {
	return time.Duration(s.PageTimeoutSec) * time.Second
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	pdfgripDir := filepath.Join(configDir, "pdfgrip")
	os.MkdirAll(pdfgripDir, 0755)

	return &configService{
		filePath: filepath.Join(pdfgripDir, "config.toml"),
	}
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		UserID:  defaultUserID(),
		Viewer: ViewerSettings{
			ZoomMode:          domain.ZoomFitWidth,
			CustomScale:       1.0,
			FitPadding:        32,
			OverscanPx:        200,
			SlotPoolSize:      8,
			DefaultPageHeight: 1000,
			PageMarginPx:      16,
			PixelsPerRow:      40,
			AutosaveOnExit:    true,
		},
		Scan: ScanSettings{
			PageTimeoutSec: 10,
			RasterScale:    2.0,
			MaxImageEdge:   2048,
		},
	}
}

// normalize clamps loaded values the engine cannot tolerate
func (c *Config) normalize() {
	if c.Viewer.CustomScale <= 0 {
		c.Viewer.CustomScale = 1.0
	}
	if c.Viewer.SlotPoolSize < 1 {
		c.Viewer.SlotPoolSize = 8
	}
	if c.Viewer.DefaultPageHeight <= 0 {
		c.Viewer.DefaultPageHeight = 1000
	}
	if c.Viewer.PixelsPerRow <= 0 {
		c.Viewer.PixelsPerRow = 40
	}
	if c.Viewer.OverscanPx < 0 {
		c.Viewer.OverscanPx = 0
	}
	if c.Scan.PageTimeoutSec <= 0 {
		c.Scan.PageTimeoutSec = 10
	}
	if c.Scan.RasterScale <= 0 {
		c.Scan.RasterScale = 2.0
	}
	if c.UserID == "" {
		c.UserID = defaultUserID()
	}
}

func defaultUserID() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}
