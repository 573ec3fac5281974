// Package index defines the in-memory inverted index structures shared by
// the builder and the ranker.
package index

// Posting records one document's term frequency for a term. Frequency is
// always >= 1; zero-count terms are never inserted.
type Posting struct {
	DocID     string
	Frequency int
}

// PostingList holds one posting per document, in document-processing order.
type PostingList []Posting

// Inverted maps a term to its postings list.
type Inverted map[string]PostingList

// DocLengths maps a document id to its retained token count. It is defined
// for every indexed document, including documents whose text normalised to
// zero tokens.
type DocLengths map[string]int

// Stats holds corpus-level statistics derived during the build.
type Stats struct {
	Docs         int
	TotalTokens  int64
	AvgDocLength float64
}

// Index bundles everything the scorer needs: the postings, the per-document
// lengths, and the corpus statistics.
type Index struct {
	Postings   Inverted
	DocLengths DocLengths
	Stats      Stats
}

// DocFrequency returns the number of documents containing term.
func (ix *Index) DocFrequency(term string) int {
	return len(ix.Postings[term])
}

// VocabularySize returns the number of distinct terms in the index.
func (ix *Index) VocabularySize() int {
	return len(ix.Postings)
}
