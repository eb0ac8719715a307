package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "ereader/internal/platform/errors"
	"ereader/internal/platform/typeset"
	"ereader/internal/platform/workerpool"
)

const (
	FontGoRegular = "goregular"
	Font7x13      = "7x13"
)

type Config struct {
	DataDir    string `yaml:"-"`
	DBPath     string `yaml:"-"`
	ConfigPath string `yaml:"-"`

	LogLevel   string     `yaml:"log_level"`
	LogFile    string     `yaml:"log_file"`
	Workers    int        `yaml:"workers"`
	CacheSize  int        `yaml:"cache_size"`
	Typography Typography `yaml:"typography"`
	Display    Display    `yaml:"display"`
}

type Typography struct {
	Font             string  `yaml:"font"`
	FontSize         float64 `yaml:"font_size"`
	LineSpacing      float64 `yaml:"line_spacing"`
	ParagraphSpacing float64 `yaml:"paragraph_spacing"`
	Alignment        string  `yaml:"alignment"`
	Wrap             string  `yaml:"wrap"`
}

// Display is the page size in pixels for raster output.
type Display struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data directory is required")
	}
	cfg := Default()
	cfg.DataDir = dataDir
	cfg.DBPath = filepath.Join(dataDir, ".ereader", "ereader.db")
	cfg.ConfigPath = filepath.Join(dataDir, ".ereader", "config.yaml")
	return cfg, nil
}

func Default() Config {
	return Config{
		LogLevel:  "info",
		Workers:   workerpool.DefaultSize,
		CacheSize: 64,
		Typography: Typography{
			Font:             FontGoRegular,
			FontSize:         16,
			LineSpacing:      4,
			ParagraphSpacing: 8,
			Alignment:        typeset.AlignLeft.String(),
			Wrap:             typeset.WrapChar.String(),
		},
		Display: Display{Width: 600, Height: 800},
	}
}

// Load derives the paths for dataDir and overlays the config file when one
// exists. Zero values in the file fall back to the defaults.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(cfg.ConfigPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.CacheSize == 0 {
		c.CacheSize = d.CacheSize
	}
	if c.Typography.Font == "" {
		c.Typography.Font = d.Typography.Font
	}
	if c.Typography.FontSize == 0 {
		c.Typography.FontSize = d.Typography.FontSize
	}
	if c.Display.Width == 0 {
		c.Display.Width = d.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = d.Display.Height
	}
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", apperrors.ErrInvalidInput)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("%w: cache_size must be at least 1", apperrors.ErrInvalidInput)
	}
	t := c.Typography
	if t.Font != FontGoRegular && t.Font != Font7x13 {
		return fmt.Errorf("%w: unsupported font %q", apperrors.ErrInvalidInput, t.Font)
	}
	if t.FontSize <= 0 {
		return fmt.Errorf("%w: font_size must be positive", apperrors.ErrInvalidInput)
	}
	if t.LineSpacing < 0 || t.ParagraphSpacing < 0 {
		return fmt.Errorf("%w: spacing cannot be negative", apperrors.ErrInvalidInput)
	}
	if _, err := typeset.ParseAlignment(t.Alignment); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if _, err := typeset.ParseWrapMode(t.Wrap); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("%w: display %dx%d", apperrors.ErrInvalidInput, c.Display.Width, c.Display.Height)
	}
	return nil
}

// Faces returns the face source named by Typography.Font.
func (c Config) Faces() typeset.FaceSource {
	if c.Typography.Font == Font7x13 {
		return typeset.Fixed7x13{}
	}
	return &typeset.GoRegular{}
}
