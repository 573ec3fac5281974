// Package ranker scores documents against a tokenised query with the BM25
// ranking function and produces a deterministic top-K ranking.
package ranker

import (
	"math"
	"sort"

	"github.com/bobyangg/CSI4107-A1/internal/indexer/index"
)

// Params holds the BM25 tuning parameters. Callers take DefaultParams and
// override from configuration; the values are never hardcoded at call sites.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams returns the conventional k1=1.2, b=0.75 setting.
func DefaultParams() Params {
	return Params{K1: 1.2, B: 0.75}
}

// ScoredDoc is one ranked result. Rank is 1-based and dense within a query.
type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Score computes BM25 scores for every document containing at least one
// query term. Documents without any query term are absent from the result
// rather than materialised at zero. An empty corpus (zero average length)
// yields an empty map; there is no division by zero anywhere in the scorer.
func Score(queryTokens []string, ix *index.Index, params Params) map[string]float64 {
	scores := make(map[string]float64)
	if ix.Stats.AvgDocLength == 0 {
		return scores
	}
	n := float64(ix.Stats.Docs)

	seen := make(map[string]struct{}, len(queryTokens))
	for _, term := range queryTokens {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}

		postings, ok := ix.Postings[term]
		if !ok {
			continue
		}
		idf := computeIDF(n, float64(len(postings)))
		for _, p := range postings {
			docLen := float64(ix.DocLengths[p.DocID])
			scores[p.DocID] += idf * tfNorm(float64(p.Frequency), docLen, ix.Stats.AvgDocLength, params)
		}
	}
	return scores
}

// Rank scores the query and returns the top-K documents ordered by score
// descending. Ties break on document id ascending so rankings are stable
// across runs regardless of map iteration order.
func Rank(queryTokens []string, ix *index.Index, params Params, topK int) []ScoredDoc {
	scores := Score(queryTokens, ix, params)
	ranked := make([]ScoredDoc, 0, len(scores))
	for docID, score := range scores {
		ranked = append(ranked, ScoredDoc{DocID: docID, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})
	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// computeIDF uses the "+1 inside the log" BM25 variant, which stays
// non-negative even when df > N/2, unlike the classical Robertson-Sparck
// Jones formula.
func computeIDF(totalDocs, docFreq float64) float64 {
	return math.Log((totalDocs-docFreq+0.5)/(docFreq+0.5) + 1)
}

func tfNorm(termFreq, docLength, avgDocLength float64, params Params) float64 {
	lengthRatio := docLength / avgDocLength
	denominator := termFreq + params.K1*(1-params.B+params.B*lengthRatio)
	return (termFreq * (params.K1 + 1)) / denominator
}
