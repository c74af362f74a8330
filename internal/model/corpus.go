package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// ClueResult is the outcome of processing one clue detail page.
type ClueResult struct {
	// Clue is the clue title taken from the listing page.
	Clue string `json:"clue"`

	// AnswersByLength holds the extracted answers grouped by letter count.
	// It is empty when the detail page had no recognizable answer block.
	AnswersByLength AnswersByLength `json:"answers_by_length"`
}

// Corpus is the full crawl output: clue results keyed by letter.
// Letters keep the order in which they were first stored.
type Corpus struct {
	letters []string
	clues   map[string][]ClueResult
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{clues: make(map[string][]ClueResult)}
}

// Set stores the results of a letter. Storing a letter again replaces its
// results but keeps its original position.
func (c *Corpus) Set(letter string, results []ClueResult) {
	if c.clues == nil {
		c.clues = make(map[string][]ClueResult)
	}
	if results == nil {
		results = make([]ClueResult, 0)
	}
	if _, ok := c.clues[letter]; !ok {
		c.letters = append(c.letters, letter)
	}
	c.clues[letter] = results
}

// Letters returns the stored letters in insertion order.
func (c *Corpus) Letters() []string {
	out := make([]string, len(c.letters))
	copy(out, c.letters)
	return out
}

// Clues returns the results stored for a letter.
func (c *Corpus) Clues(letter string) []ClueResult {
	return c.clues[letter]
}

// CorpusStats summarizes a corpus.
type CorpusStats struct {
	// Letters is the number of letters in the corpus.
	Letters int `json:"letters"`

	// Clues is the total number of clue results.
	Clues int `json:"clues"`

	// CluesWithoutAnswers counts clues whose answer grouping is empty.
	CluesWithoutAnswers int `json:"clues_without_answers"`

	// Answers is the total number of answer records.
	Answers int `json:"answers"`

	// CluesPerLetter maps each letter to its clue count.
	CluesPerLetter map[string]int `json:"clues_per_letter"`

	// AnswersPerLength maps a total letter count to the number of answers
	// with that length.
	AnswersPerLength map[int]int `json:"answers_per_length"`
}

// SortedLengths returns the keys of AnswersPerLength in ascending order.
func (s CorpusStats) SortedLengths() []int {
	keys := make([]int, 0, len(s.AnswersPerLength))
	for k := range s.AnswersPerLength {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Stats computes summary statistics for the corpus.
func (c *Corpus) Stats() CorpusStats {
	stats := CorpusStats{
		Letters:          len(c.letters),
		CluesPerLetter:   make(map[string]int, len(c.letters)),
		AnswersPerLength: make(map[int]int),
	}

	for _, letter := range c.letters {
		results := c.clues[letter]
		stats.CluesPerLetter[letter] = len(results)
		stats.Clues += len(results)

		for _, r := range results {
			if r.AnswersByLength.Len() == 0 {
				stats.CluesWithoutAnswers++
			}
			for _, length := range r.AnswersByLength.order {
				n := len(r.AnswersByLength.buckets[length])
				stats.AnswersPerLength[length] += n
				stats.Answers += n
			}
		}
	}

	return stats
}

// MarshalJSON writes an object keyed by letter in insertion order.
func (c *Corpus) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, letter := range c.letters {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(letter)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		data, err := marshalNoEscape(c.clues[letter])
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping letter order.
func (c *Corpus) UnmarshalJSON(data []byte) error {
	*c = Corpus{clues: make(map[string][]ClueResult)}
	return decodeOrderedObject(data, func(letter string, dec *json.Decoder) error {
		var results []ClueResult
		if err := dec.Decode(&results); err != nil {
			return err
		}
		c.Set(letter, results)
		return nil
	})
}
