// Package indexer builds the in-memory inverted index from a document
// stream in a single forward pass.
package indexer

import (
	"log/slog"

	"github.com/bobyangg/CSI4107-A1/internal/corpus"
	"github.com/bobyangg/CSI4107-A1/internal/indexer/index"
	"github.com/bobyangg/CSI4107-A1/internal/indexer/tokenizer"
)

const progressInterval = 2000

// DocumentSource streams documents forward-only into fn. Implementations may
// read from disk (corpus.ReadDocuments) or yield from memory in tests.
type DocumentSource func(fn func(corpus.Document) error) error

// FileSource adapts a JSONL corpus file into a DocumentSource.
func FileSource(path string) DocumentSource {
	return func(fn func(corpus.Document) error) error {
		return corpus.ReadDocuments(path, fn)
	}
}

// Builder constructs an index.Index over a document source. FullText selects
// title+body indexing from the same code path; false indexes titles only.
type Builder struct {
	analyzer *tokenizer.Analyzer
	fullText bool
	logger   *slog.Logger
}

// NewBuilder creates a Builder using the given analyzer.
func NewBuilder(analyzer *tokenizer.Analyzer, fullText bool) *Builder {
	return &Builder{
		analyzer: analyzer,
		fullText: fullText,
		logger:   slog.Default().With("component", "index-builder"),
	}
}

// Build consumes the source in a single sequential pass and returns the
// completed index. Postings order within each term's list follows document
// order, so rankings are reproducible run to run. Memory is proportional to
// vocabulary size plus total postings; the whole index stays resident.
func (b *Builder) Build(source DocumentSource) (*index.Index, error) {
	ix := &index.Index{
		Postings:   make(index.Inverted),
		DocLengths: make(index.DocLengths),
	}

	err := source(func(doc corpus.Document) error {
		b.addDocument(ix, doc)
		if ix.Stats.Docs%progressInterval == 0 {
			b.logger.Info("indexing progress", "docs", ix.Stats.Docs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ix.Stats.Docs > 0 {
		ix.Stats.AvgDocLength = float64(ix.Stats.TotalTokens) / float64(ix.Stats.Docs)
	}
	b.logger.Info("indexing complete",
		"docs", ix.Stats.Docs,
		"vocabulary", ix.VocabularySize(),
		"avg_doc_length", ix.Stats.AvgDocLength,
		"full_text", b.fullText,
	)
	return ix, nil
}

// addDocument tokenises one document and merges its term counts into the
// index. Documents that normalise to zero tokens still get a length entry.
func (b *Builder) addDocument(ix *index.Index, doc corpus.Document) {
	content := doc.Title
	if b.fullText {
		content += " " + doc.Text
	}
	tokens := b.analyzer.Tokenize(content)

	ix.DocLengths[doc.ID] = len(tokens)
	ix.Stats.Docs++
	ix.Stats.TotalTokens += int64(len(tokens))

	termCounts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		termCounts[t]++
	}
	for term, tf := range termCounts {
		ix.Postings[term] = append(ix.Postings[term], index.Posting{
			DocID:     doc.ID,
			Frequency: tf,
		})
	}
}
