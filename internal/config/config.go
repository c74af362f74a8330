package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Running with all defaults reproduces a complete crawl of the clue site.
const (
	// DefaultBaseURL is the root of the alphabetical clue index.
	// Letter pages live at <base>/<letter>/ and <base>/<letter>/page/N/.
	DefaultBaseURL = "https://www.note.co.il/abc/"

	// DefaultOutputFile is the JSON file the corpus is written to.
	DefaultOutputFile = "crossword_solutions.json"

	// DefaultTimeout bounds a single HTTP request.
	// The site answers quickly; a minute only trips on a stalled connection.
	DefaultTimeout = 60 * time.Second

	// DefaultCrawlDelay is the pause between requests. Zero keeps the
	// crawl strictly back to back.
	DefaultCrawlDelay = time.Duration(0)

	// DefaultMaxPages caps listing pages per letter. Zero means no cap.
	DefaultMaxPages = 0

	// DefaultUserAgent identifies cluescrape in HTTP requests.
	DefaultUserAgent = "cluescrape/1.0 (+https://github.com/nao1215/cluescrape)"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "cluescrape"
)

// DefaultLetters returns the 22 Hebrew letters in alphabetical order.
// Final forms are not listed separately on the site.
func DefaultLetters() []string {
	return []string{
		"א", "ב", "ג", "ד", "ה", "ו", "ז", "ח", "ט", "י", "כ",
		"ל", "מ", "נ", "ס", "ע", "פ", "צ", "ק", "ר", "ש", "ת",
	}
}

// Config holds all configuration options for a crawl.
// It is populated from defaults, then the config file, then CLI flags.
type Config struct {
	// BaseURL is the root of the letter index.
	BaseURL string

	// Letters are crawled in this order and become the top-level keys
	// of the output.
	Letters []string

	// OutputFile is the JSON file the corpus is written to.
	// An existing file is overwritten.
	OutputFile string

	// MarkdownFile, when set, receives a Markdown summary of the corpus.
	MarkdownFile string

	// Timeout bounds each HTTP request. Zero disables the timeout.
	Timeout time.Duration

	// CrawlDelay is the pause between consecutive requests.
	CrawlDelay time.Duration

	// MaxPages caps the listing pages crawled per letter. Zero means no cap.
	MaxPages int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Cookie is an optional Cookie header sent with every request.
	Cookie string

	// Headers are extra request headers.
	Headers map[string]string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the YAML configuration file.
	// If empty, .cluescrape is searched in the current and home directory.
	ConfigFilePath string

	// SaveToDB stores the finished corpus in the run history database.
	SaveToDB bool

	// DBDir is the directory holding the run history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		Letters:     DefaultLetters(),
		OutputFile:  DefaultOutputFile,
		Timeout:     DefaultTimeout,
		CrawlDelay:  DefaultCrawlDelay,
		MaxPages:    DefaultMaxPages,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Headers:     make(map[string]string),
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for cluescrape.
// On Linux: ~/.local/share/cluescrape
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if len(c.Letters) == 0 {
		return ErrNoLetters
	}
	seen := make(map[string]bool, len(c.Letters))
	for _, l := range c.Letters {
		if strings.TrimSpace(l) == "" {
			return ErrEmptyLetter
		}
		if seen[l] {
			return ErrDuplicateLetter
		}
		seen[l] = true
	}

	if c.OutputFile == "" {
		return ErrNoOutputFile
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
