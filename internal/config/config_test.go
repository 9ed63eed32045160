package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SLIDE_CLASS", "SLIDE_SEPARATORS", "SLIDE_TAG", "WORKER_COUNT", "CACHE_TTL", "API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := Load()
	assert.Equal(t, []string{"hr"}, cfg.SlideSeparators)
	assert.Equal(t, "div", cfg.SlideTag)
	require.NotNil(t, cfg.SlideClass)
	assert.Equal(t, "slide", *cfg.SlideClass)
	assert.Equal(t, []string{".mdx"}, cfg.SubDocExtensions)
	assert.Equal(t, []string{"Sandpack", "SandpackWithHTMLOutput"}, cfg.SandboxComponents)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SLIDE_SEPARATORS", "hr, h2 ,")
	t.Setenv("SLIDE_TAG", "section")
	t.Setenv("SLIDE_CLASS", "page")
	t.Setenv("SUBDOC_EXTENSIONS", ".mdx,.md")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("SANITIZE_HTML", "true")

	cfg := Load()
	assert.Equal(t, []string{"hr", "h2"}, cfg.SlideSeparators)
	assert.Equal(t, "section", cfg.SlideTag)
	assert.Equal(t, "page", *cfg.SlideClass)
	assert.Equal(t, []string{".mdx", ".md"}, cfg.SubDocExtensions)
	assert.Equal(t, 2, cfg.WorkerCount, "non-positive counts fall back to defaults")
	assert.Equal(t, 90*time.Second, cfg.JobTTL)
	assert.True(t, cfg.SanitizeHTML)

	seg := cfg.SegmentConfig()
	assert.Equal(t, "section", seg.SlideContainerTag)
	assert.Equal(t, []string{"hr", "h2"}, seg.SlideSeparators)
	assert.True(t, cfg.DeckOptions().Parse.SanitizeHTML)
}

func TestLoad_EmptySlideClassMeansNoClass(t *testing.T) {
	t.Setenv("SLIDE_CLASS", "")
	cfg := Load()
	assert.Nil(t, cfg.SlideClass)
	assert.Nil(t, cfg.SegmentConfig().SlideClassName)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "deck.md")
	require.NoError(t, os.WriteFile(file, []byte("# x"), 0o644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{ContentDir: dir, SubDocExtensions: []string{".mdx"}}, false},
		{"missing dir", Config{ContentDir: filepath.Join(dir, "nope")}, true},
		{"file not dir", Config{ContentDir: file}, true},
		{"extension without dot", Config{ContentDir: dir, SubDocExtensions: []string{"mdx"}}, true},
		{"unparseable extension", Config{ContentDir: dir, SubDocExtensions: []string{".txt"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
