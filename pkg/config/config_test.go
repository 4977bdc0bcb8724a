package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidatesWithPDF(t *testing.T) {
	cfg := Default()
	cfg.PDF = "book.pdf"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "missing pdf path")

	cfg.PDF = "book.pdf"
	cfg.DPI = 50
	assert.Error(t, cfg.Validate(), "dpi below range")

	cfg = Default()
	cfg.PDF = "book.pdf"
	cfg.Workers = 0
	assert.Error(t, cfg.Validate(), "workers must be at least 1")

	cfg = Default()
	cfg.PDF = "book.pdf"
	cfg.Languages = nil
	assert.Error(t, cfg.Validate(), "languages required")
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pdf":"book.pdf","pages":"16-241","dpi":150}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "book.pdf", cfg.PDF)
	assert.Equal(t, "16-241", cfg.Pages)
	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, []string{"eng"}, cfg.Languages, "defaults survive partial config files")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PDF2WORDS_DATA_DIR", "/data/vocab")
	t.Setenv("PDF2WORDS_LANGUAGES", "eng, deu")
	t.Setenv("PDF2WORDS_DPI", "200")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "/data/vocab", cfg.DataDir)
	assert.Equal(t, []string{"eng", "deu"}, cfg.Languages)
	assert.Equal(t, 200, cfg.DPI)
}
