package ranker

import (
	"math"
	"testing"

	"github.com/bobyangg/CSI4107-A1/internal/indexer/index"
)

// buildIndex assembles an index from per-document token frequency maps,
// computing lengths and averages the way the builder does.
func buildIndex(docs map[string]map[string]int) *index.Index {
	ix := &index.Index{
		Postings:   make(index.Inverted),
		DocLengths: make(index.DocLengths),
	}
	// Insert in a fixed order so postings are predictable.
	order := make([]string, 0, len(docs))
	for docID := range docs {
		order = append(order, docID)
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			if order[j] < order[i] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	for _, docID := range order {
		length := 0
		for term, tf := range docs[docID] {
			ix.Postings[term] = append(ix.Postings[term], index.Posting{DocID: docID, Frequency: tf})
			length += tf
		}
		ix.DocLengths[docID] = length
		ix.Stats.Docs++
		ix.Stats.TotalTokens += int64(length)
	}
	if ix.Stats.Docs > 0 {
		ix.Stats.AvgDocLength = float64(ix.Stats.TotalTokens) / float64(ix.Stats.Docs)
	}
	return ix
}

func TestScoreSingleDocExact(t *testing.T) {
	// One document of length 1 containing the query term once. The length
	// normalisation cancels, so the score is exactly the idf:
	// ln((1-1+0.5)/(1+0.5) + 1) = ln(4/3).
	ix := buildIndex(map[string]map[string]int{
		"d1": {"x": 1},
	})
	scores := Score([]string{"x"}, ix, DefaultParams())
	want := math.Log(4.0 / 3.0)
	if got := scores["d1"]; math.Abs(got-want) > 1e-12 {
		t.Errorf("score = %g, want %g", got, want)
	}
}

func TestScoreAccumulatesAcrossTerms(t *testing.T) {
	ix := buildIndex(map[string]map[string]int{
		"d1": {"x": 1, "y": 1},
		"d2": {"x": 1},
	})
	single := Score([]string{"x"}, ix, DefaultParams())
	both := Score([]string{"x", "y"}, ix, DefaultParams())
	if both["d1"] <= single["d1"] {
		t.Errorf("two-term score %g not greater than one-term score %g", both["d1"], single["d1"])
	}
	// d2 contains only x, so its score is unchanged by adding y.
	if math.Abs(both["d2"]-single["d2"]) > 1e-12 {
		t.Errorf("d2 score changed by absent term: %g vs %g", both["d2"], single["d2"])
	}
}

func TestScoreIDFNeverNegative(t *testing.T) {
	// Build indexes where the term's df sweeps from 1 to N and check scores
	// stay positive, including df = N where the classical idf would go
	// negative.
	const n = 20
	for df := 1; df <= n; df++ {
		docs := make(map[string]map[string]int, n)
		for i := 0; i < n; i++ {
			terms := map[string]int{"filler": 1}
			if i < df {
				terms["x"] = 1
			}
			docs[docID(i)] = terms
		}
		ix := buildIndex(docs)
		scores := Score([]string{"x"}, ix, DefaultParams())
		if len(scores) != df {
			t.Fatalf("df=%d: scored %d docs", df, len(scores))
		}
		for doc, s := range scores {
			if s <= 0 {
				t.Errorf("df=%d: score for %s = %g, want > 0", df, doc, s)
			}
		}
	}
}

func docID(i int) string {
	return string(rune('a'+i/10)) + string(rune('a'+i%10))
}

func TestScoreUnknownTermIgnored(t *testing.T) {
	ix := buildIndex(map[string]map[string]int{
		"d1": {"x": 1},
	})
	scores := Score([]string{"zzz"}, ix, DefaultParams())
	if len(scores) != 0 {
		t.Errorf("unknown term produced scores: %v", scores)
	}
}

func TestScoreDuplicateQueryTokensCountOnce(t *testing.T) {
	ix := buildIndex(map[string]map[string]int{
		"d1": {"x": 1},
	})
	once := Score([]string{"x"}, ix, DefaultParams())
	twice := Score([]string{"x", "x"}, ix, DefaultParams())
	if math.Abs(once["d1"]-twice["d1"]) > 1e-12 {
		t.Errorf("repeated token changed score: %g vs %g", once["d1"], twice["d1"])
	}
}

func TestScoreEmptyCorpus(t *testing.T) {
	ix := buildIndex(nil)
	scores := Score([]string{"x"}, ix, DefaultParams())
	if len(scores) != 0 {
		t.Errorf("empty corpus produced scores: %v", scores)
	}
}

func TestRankDeterministicTieBreak(t *testing.T) {
	// Two identical documents tie exactly; doc id ascending breaks the tie.
	ix := buildIndex(map[string]map[string]int{
		"db": {"x": 1},
		"da": {"x": 1},
	})
	ranked := Rank([]string{"x"}, ix, DefaultParams(), 10)
	if len(ranked) != 2 {
		t.Fatalf("ranked %d docs, want 2", len(ranked))
	}
	if ranked[0].DocID != "da" || ranked[1].DocID != "db" {
		t.Errorf("tie-break order = [%s %s], want [da db]", ranked[0].DocID, ranked[1].DocID)
	}
}

func TestRankTopKAndDenseRanks(t *testing.T) {
	docs := make(map[string]map[string]int)
	for i := 0; i < 8; i++ {
		// Varying tf so scores differ.
		docs[docID(i)] = map[string]int{"x": i + 1, "filler": 8 - i}
	}
	ix := buildIndex(docs)
	ranked := Rank([]string{"x"}, ix, DefaultParams(), 5)
	if len(ranked) != 5 {
		t.Fatalf("ranked %d docs, want 5", len(ranked))
	}
	for i, doc := range ranked {
		if doc.Rank != i+1 {
			t.Errorf("rank at position %d = %d, want %d", i, doc.Rank, i+1)
		}
		if i > 0 && ranked[i-1].Score < doc.Score {
			t.Errorf("scores not descending at position %d: %g < %g", i, ranked[i-1].Score, doc.Score)
		}
	}
}

func TestRankParamsConfigurable(t *testing.T) {
	ix := buildIndex(map[string]map[string]int{
		"d1": {"x": 3, "filler": 1},
		"d2": {"x": 1, "filler": 3},
	})
	def := Rank([]string{"x"}, ix, DefaultParams(), 10)
	// k1=0 removes tf saturation entirely: every tf contributes equally, so
	// both docs tie on idf alone.
	flat := Rank([]string{"x"}, ix, Params{K1: 0, B: 0}, 10)
	if def[0].Score == flat[0].Score {
		t.Errorf("parameter change had no effect on scores")
	}
	if flat[0].Score != flat[1].Score {
		t.Errorf("k1=0 scores differ: %g vs %g", flat[0].Score, flat[1].Score)
	}
}
