// Package config provides configuration loading and validation for the
// extraction pipeline. Values merge in order: defaults, then a JSON config
// file, then environment variables, then CLI flags (applied by the caller).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds one extraction run's settings.
type Config struct {
	// PDF is the path to the source document.
	PDF string `json:"pdf,omitempty" validate:"required"`
	// Pages selects a page range ("16-241", "3,7,10-12"); empty means all.
	Pages string `json:"pages,omitempty"`
	// Languages are OCR trained-data hints.
	Languages []string `json:"languages,omitempty" validate:"required,min=1,dive,required"`
	// DPI is the page render resolution.
	DPI int `json:"dpi,omitempty" validate:"gte=72,lte=600"`
	// DataDir holds the cache, word stores and lock file.
	DataDir string `json:"data_dir,omitempty" validate:"required"`
	// WordList optionally points to a reference word list used to filter OCR
	// misreads; empty disables the filter.
	WordList string `json:"word_list,omitempty"`
	// Workers bounds parallel page recognition. 1 means sequential.
	Workers int `json:"workers,omitempty" validate:"gte=1,lte=16"`
	// AskTranslation enables the optional translation prompt for unknown
	// words.
	AskTranslation bool `json:"ask_translation,omitempty"`
	// Verbose enables informational logging.
	Verbose bool `json:"verbose,omitempty"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Languages: []string{"eng"},
		DPI:       300,
		DataDir:   ".",
		Workers:   1,
	}
}

// Load reads a JSON config file and merges it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config JSON: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays PDF2WORDS_* environment variables. Unset variables leave
// the current values alone.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PDF2WORDS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PDF2WORDS_LANGUAGES"); v != "" {
		c.Languages = splitList(v)
	}
	if v := os.Getenv("PDF2WORDS_WORD_LIST"); v != "" {
		c.WordList = v
	}
	if v := os.Getenv("PDF2WORDS_DPI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DPI = n
		}
	}
	if v := os.Getenv("PDF2WORDS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validate = validator.New()

// Validate checks the merged configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
