package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds every option of a conversion run plus the HTTP server settings.
type Config struct {
	Input         string  `yaml:"-"`
	Output        string  `yaml:"output"`
	FEN           string  `yaml:"-"`
	Mode          string  `yaml:"mode"`
	FontSize      int     `yaml:"fontsize"`
	RowsPerColumn int     `yaml:"rows_per_page"`
	Inverse       string  `yaml:"inverse"`
	WithText      bool    `yaml:"with_text"`
	CellHeight    float64 `yaml:"cellheight"`
	HideMover     bool    `yaml:"hide_mover"`
	Notation      string  `yaml:"notation"`
	Encoding      string  `yaml:"encoding"`
	Opening       bool    `yaml:"opening"`
	Strict        bool    `yaml:"strict"`
	Debug         bool    `yaml:"debug"`
	LogLevel      string  `yaml:"log_level"`
	Paper         string  `yaml:"paper"`
	Margin        string  `yaml:"margin"`
	ColumnSep     string  `yaml:"column_sep"`
	Addr          string  `yaml:"addr"`
	MaxBodyBytes  int64   `yaml:"max_body_bytes"`
}

// MinCellHeight is the smallest cell height in centimetres.
const MinCellHeight = 0.1

// Defaults returns the built-in defaults.
func Defaults() Config {
	return Config{
		Mode:          "final",
		FontSize:      20,
		RowsPerColumn: 3,
		Inverse:       "auto",
		CellHeight:    8.2,
		Notation:      "symbols",
		Encoding:      "utf-8",
		LogLevel:      "INFO",
		Paper:         "a4paper",
		Margin:        "2.0cm",
		ColumnSep:     "14pt",
		Addr:          ":8080",
		MaxBodyBytes:  1 << 20,
	}
}

// Load reads defaults from a .env file (if present) and PGN2TEX_* environment
// variables on top of the built-in defaults.
func Load() Config {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	d := Defaults()
	return Config{
		Mode:          envOr("PGN2TEX_MODE", d.Mode),
		FontSize:      envIntOr("PGN2TEX_FONTSIZE", d.FontSize),
		RowsPerColumn: envIntOr("PGN2TEX_ROWS_PER_PAGE", d.RowsPerColumn),
		Inverse:       envOr("PGN2TEX_INVERSE", d.Inverse),
		WithText:      envBoolOr("PGN2TEX_WITH_TEXT", d.WithText),
		CellHeight:    envFloatOr("PGN2TEX_CELLHEIGHT", d.CellHeight),
		HideMover:     envBoolOr("PGN2TEX_HIDE_MOVER", d.HideMover),
		Notation:      envOr("PGN2TEX_NOTATION", d.Notation),
		Encoding:      envOr("PGN2TEX_ENCODING", d.Encoding),
		Opening:       envBoolOr("PGN2TEX_OPENING", d.Opening),
		Strict:        envBoolOr("PGN2TEX_STRICT", d.Strict),
		Debug:         envBoolOr("PGN2TEX_DEBUG", d.Debug),
		LogLevel:      envOr("LOG_LEVEL", d.LogLevel),
		Paper:         envOr("PGN2TEX_PAPER", d.Paper),
		Margin:        envOr("PGN2TEX_MARGIN", d.Margin),
		ColumnSep:     envOr("PGN2TEX_COLUMN_SEP", d.ColumnSep),
		Addr:          envOr("ADDR", d.Addr),
		MaxBodyBytes:  int64(envIntOr("PGN2TEX_MAX_BODY_BYTES", int(d.MaxBodyBytes))),
	}
}

// LoadFile overlays the YAML render profile at path onto cfg. Keys absent
// from the file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Normalize clamps the values that have a documented fallback instead of an error.
func (c *Config) Normalize() {
	if c.RowsPerColumn < 1 {
		c.RowsPerColumn = 1
	}
	if c.CellHeight < MinCellHeight {
		c.CellHeight = MinCellHeight
	}
	c.LogLevel = strings.ToUpper(c.LogLevel)
}

var (
	validModes     = []string{"final", "start", "start+solution"}
	validInverse   = []string{"auto", "on", "off"}
	validNotations = []string{"english", "german", "symbols", "plain", "localized", "symbolic"}
	validLevels    = []string{"DEBUG", "INFO", "WARN", "WARNING", "ERROR"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("FONTSIZE must be a positive number of points, got %d", c.FontSize))
	}
	if !oneOf(c.Mode, validModes) {
		errs = append(errs, fmt.Errorf("MODE must be one of %s, got %q", strings.Join(validModes, "|"), c.Mode))
	}
	if !oneOf(c.Inverse, validInverse) {
		errs = append(errs, fmt.Errorf("INVERSE must be one of %s, got %q", strings.Join(validInverse, "|"), c.Inverse))
	}
	if !oneOf(c.Notation, validNotations) {
		errs = append(errs, fmt.Errorf("NOTATION must be english, german or symbols, got %q", c.Notation))
	}
	if !oneOf(c.LogLevel, validLevels) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
