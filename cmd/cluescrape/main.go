// Package main provides the entry point for the cluescrape CLI.
//
// cluescrape collects Hebrew crossword clues and their answers from an
// alphabetical clue index and writes them to a JSON file.
//
// Usage:
//
//	cluescrape scrape
//	cluescrape scrape --letters א,ב -o clues.json
//	cluescrape history
//
// See --help for all available options.
package main

// main is the entry point for cluescrape.
func main() {
	Execute()
}
