package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ClueLink is a clue entry discovered on a letter listing page.
type ClueLink struct {
	// Title is the clue text as shown in the listing heading.
	Title string `json:"title"`

	// URL is the absolute address of the clue detail page.
	URL string `json:"url"`
}

// AnswerRecord describes one candidate answer of a clue.
type AnswerRecord struct {
	// Answer is the cleaned answer: Hebrew words separated by single spaces.
	Answer string `json:"answer"`

	// Lengths holds the letter count of each word, left to right.
	Lengths []int `json:"lengths"`

	// NumWords is the number of words in Answer.
	NumWords int `json:"num_words"`

	// FirstLetter is the first character of Answer.
	FirstLetter string `json:"first_letter"`
}

// NewAnswerRecord builds a record from a cleaned, non-empty answer.
// Letters are counted in runes, so niqqud marks count as characters.
func NewAnswerRecord(answer string) AnswerRecord {
	words := strings.Fields(answer)
	lengths := make([]int, len(words))
	for i, w := range words {
		lengths[i] = utf8.RuneCountInString(w)
	}

	var first string
	if r, size := utf8.DecodeRuneInString(answer); size > 0 && r != utf8.RuneError {
		first = string(r)
	}

	return AnswerRecord{
		Answer:      answer,
		Lengths:     lengths,
		NumWords:    len(words),
		FirstLetter: first,
	}
}

// TotalLength returns the sum of all word lengths.
// This is the bucket key the record is filed under.
func (r AnswerRecord) TotalLength() int {
	total := 0
	for _, l := range r.Lengths {
		total += l
	}
	return total
}

// AnswersByLength groups answer records by their total letter count.
// Keys keep the order in which they were first seen, and records keep
// the order in which they were added. The zero value is ready to use.
type AnswersByLength struct {
	order   []int
	buckets map[int][]AnswerRecord
}

// NewAnswersByLength returns an empty grouping.
func NewAnswersByLength() AnswersByLength {
	return AnswersByLength{buckets: make(map[int][]AnswerRecord)}
}

// Add files the record under its total length.
func (a *AnswersByLength) Add(rec AnswerRecord) {
	a.add(rec.TotalLength(), rec)
}

func (a *AnswersByLength) add(key int, rec AnswerRecord) {
	if a.buckets == nil {
		a.buckets = make(map[int][]AnswerRecord)
	}
	if _, ok := a.buckets[key]; !ok {
		a.order = append(a.order, key)
	}
	a.buckets[key] = append(a.buckets[key], rec)
}

// Lengths returns the bucket keys in insertion order.
func (a AnswersByLength) Lengths() []int {
	out := make([]int, len(a.order))
	copy(out, a.order)
	return out
}

// Get returns the records filed under the given length.
func (a AnswersByLength) Get(length int) []AnswerRecord {
	return a.buckets[length]
}

// Len returns the number of distinct lengths.
func (a AnswersByLength) Len() int {
	return len(a.order)
}

// Count returns the total number of records across all lengths.
func (a AnswersByLength) Count() int {
	n := 0
	for _, recs := range a.buckets {
		n += len(recs)
	}
	return n
}

// MarshalJSON writes an object whose keys are the decimal lengths in
// insertion order.
func (a AnswersByLength) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(key)))
		buf.WriteByte(':')
		data, err := marshalNoEscape(a.buckets[key])
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping key order.
func (a *AnswersByLength) UnmarshalJSON(data []byte) error {
	*a = NewAnswersByLength()
	return decodeOrderedObject(data, func(key string, dec *json.Decoder) error {
		length, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid answer length key %q: %w", key, err)
		}
		var recs []AnswerRecord
		if err := dec.Decode(&recs); err != nil {
			return err
		}
		if _, ok := a.buckets[length]; !ok {
			a.order = append(a.order, length)
		}
		a.buckets[length] = append(a.buckets[length], recs...)
		return nil
	})
}

// errNotObject is returned when an ordered object does not start with '{'.
var errNotObject = errors.New("expected JSON object")

// decodeOrderedObject walks the members of a JSON object in document order.
// fn must consume exactly one value from dec.
func decodeOrderedObject(data []byte, fn func(key string, dec *json.Decoder) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil // null
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errNotObject
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		if err := fn(key, dec); err != nil {
			return err
		}
	}

	_, err = dec.Token() // closing '}'
	return err
}

// marshalNoEscape encodes v without HTML escaping so that clue titles
// containing '<', '>' or '&' are written literally.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
