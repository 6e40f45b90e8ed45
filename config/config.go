// Package config resolves mdpipe settings with precedence
// defaults < config file < environment < command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Option describes one configuration key and its default.
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns every recognized key with its default and meaning.
func Options() []Option {
	return []Option{
		{Key: "engine", Default: "h2m", Comment: "HTML to Markdown engine: h2m or html-to-markdown"},
		{Key: "header_offset", Default: 0, Comment: "Added to every heading level (h2m engine)"},
		{Key: "normalize_whitespace", Default: true, Comment: "Collapse whitespace runs in text (h2m engine)"},
		{Key: "front_matter", Default: false, Comment: "Prefix Markdown output with a metadata block"},
		{Key: "output_dir", Default: "", Comment: "Output directory; empty means the working directory, - means stdout"},
		{Key: "log_level", Default: "info", Comment: "debug, info, warn or error"},
		{Key: "fetch.timeout", Default: "30s", Comment: "HTTP timeout per page"},
		{Key: "fetch.user_agent", Default: "mdpipe/1.0 (+https://github.com/gaurav-prasanna/mdpipe)", Comment: "User-Agent header for page requests"},
		{Key: "crawl.max_pages", Default: 100, Comment: "Upper bound on pages discovered in --all mode"},
		{Key: "embeddings.url", Default: "http://localhost:11434/api/embeddings", Comment: "Ollama-compatible embeddings endpoint"},
		{Key: "embeddings.model", Default: "", Comment: "Embedding model name"},
		{Key: "embeddings.chunk_size", Default: 512, Comment: "Words per embedding chunk"},
	}
}

// Settings is the typed view of a resolved configuration.
type Settings struct {
	Engine              string
	HeaderOffset        int
	NormalizeWhitespace bool
	FrontMatter         bool
	OutputDir           string
	LogLevel            string
	Fetch               FetchSettings
	Crawl               CrawlSettings
	Embeddings          EmbeddingSettings
}

type FetchSettings struct {
	Timeout   time.Duration
	UserAgent string
}

type CrawlSettings struct {
	MaxPages int
}

type EmbeddingSettings struct {
	URL       string
	Model     string
	ChunkSize int
}

// New returns a Viper instance seeded with defaults.
func New() *viper.Viper {
	v := viper.New()
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Default)
	}
	return v
}

// Load reads the config file and environment into v. An explicit path
// must exist; otherwise the standard locations are searched and a missing
// file is not an error.
func Load(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	// MDPIPE_FETCH_TIMEOUT overrides fetch.timeout, and so on.
	v.SetEnvPrefix("mdpipe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// BindFlags binds config keys to command-line flags. bindings maps a config
// key to a flag name; flags missing from fs are an error.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		f := fs.Lookup(name)
		if f == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// Resolve converts v into Settings and validates them.
func Resolve(v *viper.Viper) (Settings, error) {
	timeout, err := time.ParseDuration(v.GetString("fetch.timeout"))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid fetch.timeout %q: %w", v.GetString("fetch.timeout"), err)
	}

	s := Settings{
		Engine:              strings.TrimSpace(v.GetString("engine")),
		HeaderOffset:        v.GetInt("header_offset"),
		NormalizeWhitespace: v.GetBool("normalize_whitespace"),
		FrontMatter:         v.GetBool("front_matter"),
		OutputDir:           v.GetString("output_dir"),
		LogLevel:            v.GetString("log_level"),
		Fetch: FetchSettings{
			Timeout:   timeout,
			UserAgent: v.GetString("fetch.user_agent"),
		},
		Crawl: CrawlSettings{
			MaxPages: v.GetInt("crawl.max_pages"),
		},
		Embeddings: EmbeddingSettings{
			URL:       v.GetString("embeddings.url"),
			Model:     v.GetString("embeddings.model"),
			ChunkSize: v.GetInt("embeddings.chunk_size"),
		},
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// Validate checks value ranges. Engine names are checked by the normalizer.
func (s Settings) Validate() error {
	if s.Engine == "" {
		return fmt.Errorf("engine must not be empty")
	}
	if s.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", s.Fetch.Timeout)
	}
	if s.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl.max_pages must be positive, got %d", s.Crawl.MaxPages)
	}
	if s.Embeddings.ChunkSize <= 0 {
		return fmt.Errorf("embeddings.chunk_size must be positive, got %d", s.Embeddings.ChunkSize)
	}
	return nil
}

// DefaultConfigPath is $XDG_CONFIG_HOME/mdpipe/config.yaml, falling back to
// ~/.config.
func DefaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mdpipe", "config.yaml")
}
