// Package crawler walks the letter index of a crossword dictionary site
// and collects every clue together with its candidate answers.
//
// # Architecture
//
// The Spider drives the crawl. For each configured letter it requests
// the listing pages in order, follows every clue link on a page, and
// turns the answer block of each clue page into an AnswersByLength
// grouping. The parsing rules (ParseListing, ParseAnswers, HasNextPage,
// CleanAnswer) are pure functions over document.Node values, so they can
// be exercised against literal HTML without any network access.
//
// # Failure handling
//
// A clue page whose answers cannot be parsed is logged and recorded with
// an empty grouping. Everything else (fetch errors, malformed listing
// entries, cancellation) aborts the crawl and is returned to the caller.
//
// # Usage
//
//	spider := crawler.NewSpider(fetch.New(), crawler.WithProgress(os.Stdout))
//	corpus, err := spider.Crawl(ctx)
package crawler
