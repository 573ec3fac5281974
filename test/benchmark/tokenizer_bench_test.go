// Package benchmark contains Go benchmarks for the tokenizer, index builder,
// and BM25 ranker, measuring throughput and allocation behaviour.
package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bobyangg/CSI4107-A1/internal/indexer/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Microstructural development of human newborn cerebral white matter
        assessed in vivo by diffusion tensor magnetic resonance imaging. Alterations
        of the architecture of cerebral white matter in the developing human brain
        affect cortical development and result in functional disabilities.`,
	"long": strings.Repeat(`Information retrieval systems combine tokenization,
        stemming, and stop word removal to normalize text into searchable terms.
        The inverted index maps each term to the documents containing it along
        with the term frequency. BM25 ranking considers term frequency, document
        length normalization, and inverse document frequency to produce relevance
        scores for each candidate document in the collection. `, 20),
}

var benchStopwords = map[string]struct{}{
	"the": {}, "of": {}, "and": {}, "in": {}, "to": {}, "a": {}, "by": {},
}

func BenchmarkTokenize(b *testing.B) {
	analyzer := tokenizer.New(benchStopwords, true)
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := analyzer.Tokenize(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkTokenizeNoStemming(b *testing.B) {
	analyzer := tokenizer.New(benchStopwords, false)
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		tokens := analyzer.Tokenize(text)
		_ = tokens
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	analyzer := tokenizer.New(benchStopwords, true)
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := analyzer.Tokenize(text)
			_ = tokens
		}
	})
}

func BenchmarkTokenizeVaryingSize(b *testing.B) {
	analyzer := tokenizer.New(benchStopwords, true)
	sizes := []int{100, 500, 1000, 5000}
	baseText := "diffusion tensor imaging of cerebral white matter development "
	for _, size := range sizes {
		text := strings.Repeat(baseText, size/len(baseText)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := analyzer.Tokenize(text)
				_ = tokens
			}
		})
	}
}
