// Package report writes a crawled corpus to its output formats.
//
// This package contains writers for different output formats:
//   - JSONWriter: the corpus file, keyed by letter in crawl order
//   - MarkdownWriter: a summary with tables and a mermaid chart
//   - SimpleWriter: a short plain-text summary for the terminal
//
// Writers implement the Writer interface. WriteFile wraps any of them to
// produce a file on disk.
package report
