package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/cluescrape/internal/document"
	"github.com/nao1215/cluescrape/internal/model"
)

// CSS selectors for the dictionary site's markup.
const (
	selectorListing    = "div.twelve.columns"
	selectorEntry      = "article.partial_entry"
	selectorHeading    = "h3"
	selectorLink       = "a"
	selectorAnswers    = "p.dictionary.origin_content"
	selectorPagination = "ul.pagination"
	selectorNextPage   = "a.next.page-numbers"
)

// solutionMarker prefixes every answer line in the answer block.
const solutionMarker = "פתרון"

// ErrMissingHref is returned when a listing heading link has no href.
var ErrMissingHref = errors.New("clue link has no href")

// ParseListing extracts the clue links of a letter listing page.
// pageURL is the address the page was fetched from; relative hrefs are
// resolved against it. A page without the listing container yields an
// empty slice.
func ParseListing(doc document.Node, pageURL string) ([]model.ClueLink, error) {
	if doc == nil {
		return nil, document.ErrNilNode
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	links := make([]model.ClueLink, 0)
	container, ok := doc.Find(selectorListing)
	if !ok {
		return links, nil
	}

	for _, entry := range container.FindAll(selectorEntry) {
		heading, ok := entry.Find(selectorHeading)
		if !ok {
			continue
		}
		anchor, ok := heading.Find(selectorLink)
		if !ok {
			continue
		}

		title := strings.TrimSpace(anchor.Text())
		href, ok := anchor.Attr("href")
		if !ok {
			return nil, fmt.Errorf("listing %s, clue %q: %w", pageURL, title, ErrMissingHref)
		}

		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return nil, fmt.Errorf("listing %s, clue %q: invalid href %q: %w", pageURL, title, href, err)
		}

		links = append(links, model.ClueLink{
			Title: title,
			URL:   base.ResolveReference(ref).String(),
		})
	}

	return links, nil
}

// ParseAnswers collects the candidate answers of a clue page.
//
// Only the direct text lines of the answer block are read. Every line
// containing the solution marker is split at its first colon and the
// rest is treated as a comma separated candidate list. Candidates that
// clean to an empty string are dropped. A page without the answer block
// yields an empty grouping.
func ParseAnswers(doc document.Node) (model.AnswersByLength, error) {
	answers := model.NewAnswersByLength()
	if doc == nil {
		return answers, document.ErrNilNode
	}

	block, ok := doc.Find(selectorAnswers)
	if !ok {
		return answers, nil
	}

	for _, line := range block.TextFragments() {
		if !strings.Contains(line, solutionMarker) {
			continue
		}
		_, list, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		for _, candidate := range strings.Split(list, ",") {
			cleaned := CleanAnswer(candidate)
			if cleaned == "" {
				continue
			}
			answers.Add(model.NewAnswerRecord(cleaned))
		}
	}

	return answers, nil
}

// HasNextPage reports whether a listing page links to a following page.
func HasNextPage(doc document.Node) bool {
	if doc == nil {
		return false
	}
	pagination, ok := doc.Find(selectorPagination)
	if !ok {
		return false
	}
	_, ok = pagination.Find(selectorNextPage)
	return ok
}
