// Package tokenizer provides text normalisation for indexing and querying.
// It lower-cases input, splits on non-alphanumeric boundaries, removes
// stop-words and single-character tokens, and optionally applies Porter
// stemming.
package tokenizer

import (
	"log/slog"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Analyzer turns raw text into a normalised token sequence. The stop-word
// set is injected by the caller; stemming is an explicit configuration
// toggle, not a capability probe.
type Analyzer struct {
	stopwords map[string]struct{}
	stemming  bool
}

// New creates an Analyzer. A nil stopwords map means no stop-word filtering.
// When stemming is disabled, tokens pass through unstemmed; that policy is
// logged once here so a run's token pipeline is visible in its output.
func New(stopwords map[string]struct{}, stemming bool) *Analyzer {
	if stopwords == nil {
		stopwords = map[string]struct{}{}
	}
	if !stemming {
		slog.Default().With("component", "tokenizer").Info("stemming disabled, tokens pass through unstemmed")
	}
	return &Analyzer{
		stopwords: stopwords,
		stemming:  stemming,
	}
}

// Tokenize breaks text into lowercased alphanumeric tokens, drops stop-words
// and tokens of length <= 1, and stems the remainder when stemming is
// enabled. Empty input yields a nil slice, never an error.
func (a *Analyzer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ToLower(text)
	words := strings.FieldsFunc(text, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if _, isStop := a.stopwords[word]; isStop {
			continue
		}
		if a.stemming {
			word = english.Stem(word, true)
			if word == "" {
				continue
			}
		}
		tokens = append(tokens, word)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
