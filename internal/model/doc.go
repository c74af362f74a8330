// Package model defines the data structures produced by a crawl.
//
// This package contains the following main types:
//   - ClueLink: A clue entry found on a letter listing page
//   - AnswerRecord: One candidate answer with its word lengths
//   - AnswersByLength: Answers of one clue grouped by total letter count
//   - ClueResult: A clue and its grouped answers
//   - Corpus: All clue results keyed by letter
//
// Design decision: AnswersByLength and Corpus keep their keys in insertion
// order and serialize them in that order. A plain Go map would emit sorted
// keys, which changes the output layout consumers of the JSON file rely on.
//
// The models are designed to be serializable to JSON for file output and
// database storage.
package model
