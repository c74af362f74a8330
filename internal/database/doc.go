// Package database provides SQLite-based run history for cluescrape.
//
// Each finished crawl can be stored as one row holding the corpus JSON
// together with its base URL, letters and totals. Stored runs can be
// listed and exported again without repeating the crawl.
//
// The driver is modernc.org/sqlite, a CGO-free SQLite port, so the
// history is a single file under the XDG data directory.
package database
