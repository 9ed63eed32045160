package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/parser"
	"github.com/dgallion1/slidedeck/internal/sandbox"
	"github.com/dgallion1/slidedeck/internal/slides"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth. Empty disables authentication.
	APIKey string

	// Content
	ContentDir   string
	OutputDir    string
	DefaultLang  string
	SanitizeHTML bool
	WatchContent bool
	CacheTTL     time.Duration

	// Segmentation
	SlideSeparators   []string
	SlideTag          string
	SlideClass        *string
	SubDocExtensions  []string
	SandboxComponents []string

	// Worker pool
	WorkerCount      int
	MaxQueueSize     int
	BuildConcurrency int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set win.
func Load() Config {
	_ = godotenv.Load()

	def := slides.DefaultConfig()
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("API_KEY"),

		ContentDir:   envOr("CONTENT_DIR", "./decks"),
		OutputDir:    envOr("OUTPUT_DIR", "./dist"),
		DefaultLang:  envOr("DEFAULT_LANG", "en"),
		SanitizeHTML: envBool("SANITIZE_HTML", false),
		WatchContent: envBool("WATCH_CONTENT", true),
		CacheTTL:     envDuration("CACHE_TTL", 10*time.Minute),

		SlideSeparators:   envList("SLIDE_SEPARATORS", def.SlideSeparators),
		SlideTag:          envOr("SLIDE_TAG", def.SlideContainerTag),
		SlideClass:        envOptional("SLIDE_CLASS", *def.SlideClassName),
		SubDocExtensions:  envList("SUBDOC_EXTENSIONS", def.SubDocumentExtensions),
		SandboxComponents: envList("SANDBOX_COMPONENTS", sandbox.DefaultComponents),

		WorkerCount:      envInt("WORKER_COUNT", 2),
		MaxQueueSize:     envInt("MAX_QUEUE_SIZE", 16),
		BuildConcurrency: envInt("BUILD_CONCURRENCY", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 5242880), // 5MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 16
	}
	if cfg.BuildConcurrency <= 0 {
		cfg.BuildConcurrency = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5242880
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	info, err := os.Stat(c.ContentDir)
	if err != nil {
		return fmt.Errorf("CONTENT_DIR: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("CONTENT_DIR %s is not a directory", c.ContentDir)
	}
	for _, ext := range c.SubDocExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("SUBDOC_EXTENSIONS: %q must start with a dot", ext)
		}
		if !parser.IsSupportedExtension("x" + ext) {
			return fmt.Errorf("SUBDOC_EXTENSIONS: %q is not a parseable format", ext)
		}
	}
	return nil
}

// SegmentConfig returns the segmenter settings.
func (c Config) SegmentConfig() slides.Config {
	return slides.Config{
		SlideSeparators:       c.SlideSeparators,
		SlideContainerTag:     c.SlideTag,
		SlideClassName:        c.SlideClass,
		SubDocumentExtensions: c.SubDocExtensions,
	}
}

// DeckOptions returns the loader settings.
func (c Config) DeckOptions() deck.Options {
	return deck.Options{
		ContentDir:        c.ContentDir,
		DefaultLang:       c.DefaultLang,
		Segment:           c.SegmentConfig(),
		Parse:             parser.Options{SanitizeHTML: c.SanitizeHTML},
		SandboxComponents: c.SandboxComponents,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOptional distinguishes unset (fallback) from set-but-empty (nil).
func envOptional(key, fallback string) *string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return &fallback
	}
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}

// envList parses a comma-separated list, dropping empty items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
