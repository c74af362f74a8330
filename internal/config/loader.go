package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".cluescrape"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .cluescrape configuration file.
// Zero values mean "not set" and leave the current configuration alone.
type File struct {
	BaseURL     string            `yaml:"base_url,omitempty"`
	Letters     []string          `yaml:"letters,omitempty"`
	Output      string            `yaml:"output,omitempty"`
	Markdown    string            `yaml:"markdown,omitempty"`
	Timeout     time.Duration     `yaml:"timeout,omitempty"`
	Delay       time.Duration     `yaml:"delay,omitempty"`
	MaxPages    int               `yaml:"max_pages,omitempty"`
	UserAgent   string            `yaml:"user_agent,omitempty"`
	Cookie      string            `yaml:"cookie,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	MaxBodySize int64             `yaml:"max_body_size,omitempty"`
}

// Apply copies every value set in the file onto cfg.
// Headers are merged; file headers win over existing ones.
func (f *File) Apply(cfg *Config) {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if len(f.Letters) > 0 {
		cfg.Letters = append([]string(nil), f.Letters...)
	}
	if f.Output != "" {
		cfg.OutputFile = f.Output
	}
	if f.Markdown != "" {
		cfg.MarkdownFile = f.Markdown
	}
	if f.Timeout != 0 {
		cfg.Timeout = f.Timeout
	}
	if f.Delay != 0 {
		cfg.CrawlDelay = f.Delay
	}
	if f.MaxPages != 0 {
		cfg.MaxPages = f.MaxPages
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Cookie != "" {
		cfg.Cookie = f.Cookie
	}
	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for k, v := range f.Headers {
			cfg.Headers[k] = v
		}
	}
	if f.MaxBodySize != 0 {
		cfg.MaxBodySize = f.MaxBodySize
	}
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .cluescrape in the current directory
// 3. Look for .cluescrape in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
