package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/cluescrape/internal/config"
	"github.com/nao1215/cluescrape/internal/document"
	"github.com/nao1215/cluescrape/internal/model"
)

// Fetcher retrieves a page and returns its parsed document.
// *fetch.Fetcher satisfies it; tests substitute in-memory fakes.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (document.Node, error)
}

// Spider crawls the letter index and builds a Corpus.
// A Spider issues one request at a time and may be reused for several crawls.
type Spider struct {
	fetcher  Fetcher
	baseURL  string
	letters  []string
	delay    time.Duration
	maxPages int
	progress io.Writer
	logger   *slog.Logger

	// mutex guards stats so Stats can be read while a crawl runs.
	mutex sync.Mutex
	stats SpiderStats

	// requested is set after the first fetch so the delay is skipped
	// before it.
	requested bool
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithBaseURL sets the root of the letter index.
func WithBaseURL(base string) SpiderOption {
	return func(s *Spider) {
		s.baseURL = base
	}
}

// WithLetters sets the letters to crawl, in output order.
func WithLetters(letters []string) SpiderOption {
	return func(s *Spider) {
		s.letters = append([]string(nil), letters...)
	}
}

// WithDelay sets the pause between requests.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithMaxPages caps the listing pages crawled per letter. Zero means no cap.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = n
	}
}

// WithProgress sets where progress lines are printed.
func WithProgress(w io.Writer) SpiderOption {
	return func(s *Spider) {
		s.progress = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that retrieves pages through fetcher.
// Without options it crawls all default letters from the default base URL
// and prints no progress.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		baseURL:  config.DefaultBaseURL,
		letters:  config.DefaultLetters(),
		delay:    config.DefaultCrawlDelay,
		maxPages: config.DefaultMaxPages,
		progress: io.Discard,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Crawl visits every configured letter in order and returns the corpus.
// The first fetch failure, malformed listing or context cancellation
// aborts the crawl; no partial corpus is returned in that case.
func (s *Spider) Crawl(ctx context.Context) (*model.Corpus, error) {
	s.reset()

	corpus := model.NewCorpus()
	for _, letter := range s.letters {
		results, err := s.CrawlLetter(ctx, letter)
		if err != nil {
			return nil, err
		}
		corpus.Set(letter, results)
	}

	return corpus, nil
}

// CrawlLetter walks all listing pages of one letter and returns its clue
// results in page order.
func (s *Spider) CrawlLetter(ctx context.Context, letter string) ([]model.ClueResult, error) {
	s.printf("Scraping letter: %s...\n", letter)

	results := make([]model.ClueResult, 0)
	for page := 1; s.maxPages == 0 || page <= s.maxPages; page++ {
		s.printf("Scraping %s, page %d...\n", letter, page)

		pageURL := s.letterURL(letter, page)
		doc, err := s.fetch(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		s.count(func(st *SpiderStats) { st.ListingPages++ })

		links, err := ParseListing(doc, pageURL)
		if err != nil {
			return nil, err
		}
		if len(links) == 0 {
			break
		}

		for _, link := range links {
			result, err := s.crawlClue(ctx, link)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
		}

		if !HasNextPage(doc) {
			break
		}
	}

	return results, nil
}

// crawlClue fetches one clue page. Answer parse failures are logged and
// recorded as an empty grouping.
func (s *Spider) crawlClue(ctx context.Context, link model.ClueLink) (model.ClueResult, error) {
	s.printf("Scraping clue: %s (%s)...\n", link.Title, link.URL)

	doc, err := s.fetch(ctx, link.URL)
	if err != nil {
		return model.ClueResult{}, err
	}

	answers, err := ParseAnswers(doc)
	if err != nil {
		s.logger.Warn("failed to parse answers", "clue", link.Title, "url", link.URL, "error", err)
		answers = model.NewAnswersByLength()
		s.count(func(st *SpiderStats) { st.ParseFailures++ })
	}

	s.count(func(st *SpiderStats) {
		st.CluePages++
		st.Clues++
		st.Answers += answers.Count()
	})

	return model.ClueResult{Clue: link.Title, AnswersByLength: answers}, nil
}

// fetch waits for the politeness delay, then retrieves pageURL.
func (s *Spider) fetch(ctx context.Context, pageURL string) (document.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.delay > 0 && s.requested {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	s.requested = true

	doc, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	return doc, nil
}

// letterURL returns the address of a letter's listing page.
// Page 1 has no page segment.
func (s *Spider) letterURL(letter string, page int) string {
	base := strings.TrimRight(s.baseURL, "/") + "/" + letter + "/"
	if page <= 1 {
		return base
	}
	return base + "page/" + strconv.Itoa(page) + "/"
}

func (s *Spider) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.progress, format, args...)
}

func (s *Spider) count(fn func(*SpiderStats)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	fn(&s.stats)
}

func (s *Spider) reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stats = SpiderStats{}
	s.requested = false
}

// Stats returns the statistics of the current or last crawl.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// ListingPages is the number of letter listing pages fetched.
	ListingPages int

	// CluePages is the number of clue detail pages fetched.
	CluePages int

	// Clues is the number of clue results recorded.
	Clues int

	// Answers is the number of answer records across all clues.
	Answers int

	// ParseFailures counts clue pages whose answers could not be parsed.
	ParseFailures int
}
