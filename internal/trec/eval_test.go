package trec

import (
	"math"
	"testing"
)

func relevantSet(docs ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		set[d] = struct{}{}
	}
	return set
}

func rankedList(queryID string, docs ...string) []Result {
	results := make([]Result, len(docs))
	for i, d := range docs {
		results[i] = Result{QueryID: queryID, DocID: d, Rank: i + 1, Score: float64(len(docs) - i)}
	}
	return results
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %g, want %g", name, got, want)
	}
}

func TestEvaluateWorkedExample(t *testing.T) {
	// Q1 relevant {D1, D3}; retrieved [D2, D1, D4, D3, D5].
	// Relevant hits at positions 2 and 4: AP = (1/2 + 2/4)/2 = 0.5.
	qrels := Qrels{"Q1": relevantSet("D1", "D3")}
	results := map[string][]Result{
		"Q1": rankedList("Q1", "D2", "D1", "D4", "D3", "D5"),
	}

	agg, perQuery := Evaluate(qrels, results)
	qm, ok := perQuery["Q1"]
	if !ok {
		t.Fatal("Q1 not evaluated")
	}
	approx(t, "AP", qm.AP, 0.5)
	approx(t, "Recall", qm.Recall, 1.0)
	approx(t, "ReciprocalRank", qm.ReciprocalRank, 0.5)
	// R = 2; top 2 are {D2, D1}, one relevant.
	approx(t, "RPrecision", qm.RPrecision, 0.5)
	approx(t, "P5", qm.P5, 0.4)
	approx(t, "P10", qm.P10, 0.0)
	approx(t, "P30", qm.P30, 0.0)
	if qm.NumRelevant != 2 || qm.NumRetrieved != 5 || qm.NumRelevantRetrieved != 2 {
		t.Errorf("counts = %d/%d/%d, want 2/5/2", qm.NumRelevant, qm.NumRetrieved, qm.NumRelevantRetrieved)
	}

	if agg.Queries != 1 {
		t.Fatalf("Queries = %d, want 1", agg.Queries)
	}
	approx(t, "MAP", agg.MAP, 0.5)
	if agg.NumRelevant != 2 || agg.NumRetrieved != 5 || agg.NumRelevantRetrieved != 2 {
		t.Errorf("aggregate counts = %d/%d/%d, want 2/5/2", agg.NumRelevant, agg.NumRetrieved, agg.NumRelevantRetrieved)
	}
}

func TestEvaluatePerfectRanking(t *testing.T) {
	qrels := Qrels{"1": relevantSet("A", "B", "C")}
	results := map[string][]Result{
		"1": rankedList("1", "A", "B", "C"),
	}
	_, perQuery := Evaluate(qrels, results)
	qm := perQuery["1"]
	approx(t, "AP", qm.AP, 1.0)
	approx(t, "Recall", qm.Recall, 1.0)
	approx(t, "RPrecision", qm.RPrecision, 1.0)
	approx(t, "ReciprocalRank", qm.ReciprocalRank, 1.0)
}

func TestEvaluateEmptyRetrievedList(t *testing.T) {
	qrels := Qrels{"1": relevantSet("A", "B", "C")}
	results := map[string][]Result{"1": {}}

	agg, perQuery := Evaluate(qrels, results)
	qm, ok := perQuery["1"]
	if !ok {
		t.Fatal("query with empty retrieved list should still be evaluated")
	}
	approx(t, "AP", qm.AP, 0.0)
	approx(t, "Recall", qm.Recall, 0.0)
	approx(t, "ReciprocalRank", qm.ReciprocalRank, 0.0)
	approx(t, "RPrecision", qm.RPrecision, 0.0)
	approx(t, "P5", qm.P5, 0.0)
	if agg.Queries != 1 {
		t.Errorf("Queries = %d, want 1", agg.Queries)
	}
}

func TestEvaluateSkipsUnjudgedAndUnretrieved(t *testing.T) {
	qrels := Qrels{
		"1": relevantSet("A"),
		"2": relevantSet(), // empty relevant set
		"3": relevantSet("B"),
	}
	results := map[string][]Result{
		"1": rankedList("1", "A"),
		"2": rankedList("2", "X"),
		// no results for query 3
		"4": rankedList("4", "Y"), // no judgments for query 4
	}

	agg, perQuery := Evaluate(qrels, results)
	if agg.Queries != 1 {
		t.Errorf("Queries = %d, want 1", agg.Queries)
	}
	if _, ok := perQuery["2"]; ok {
		t.Error("query with empty relevant set was evaluated")
	}
	if _, ok := perQuery["3"]; ok {
		t.Error("query without results was evaluated")
	}
	if _, ok := perQuery["4"]; ok {
		t.Error("unjudged query was evaluated")
	}
}

func TestEvaluateReciprocalRankUsesReportedRank(t *testing.T) {
	// Ranks in the file need not be contiguous; RR uses the rank field.
	qrels := Qrels{"1": relevantSet("B")}
	results := map[string][]Result{
		"1": {
			{QueryID: "1", DocID: "A", Rank: 10, Score: 3},
			{QueryID: "1", DocID: "B", Rank: 20, Score: 2},
		},
	}
	_, perQuery := Evaluate(qrels, results)
	approx(t, "ReciprocalRank", perQuery["1"].ReciprocalRank, 1.0/20)
}

func TestEvaluateRPrecisionShortListPenalized(t *testing.T) {
	// Three relevant, only one retrieved (and relevant). The divisor stays
	// R=3, so the score is 1/3 rather than 1/1.
	qrels := Qrels{"1": relevantSet("A", "B", "C")}
	results := map[string][]Result{
		"1": rankedList("1", "A"),
	}
	_, perQuery := Evaluate(qrels, results)
	approx(t, "RPrecision", perQuery["1"].RPrecision, 1.0/3)
}

func TestEvaluateRecallMonotonic(t *testing.T) {
	docs := []string{"X", "A", "Y", "B", "Z", "C"}
	qrels := Qrels{"1": relevantSet("A", "B", "C")}

	prev := 0.0
	for n := 1; n <= len(docs); n++ {
		results := map[string][]Result{
			"1": rankedList("1", docs[:n]...),
		}
		_, perQuery := Evaluate(qrels, results)
		recall := perQuery["1"].Recall
		if recall < prev {
			t.Errorf("recall decreased from %g to %g at depth %d", prev, recall, n)
		}
		prev = recall
	}
	approx(t, "final recall", prev, 1.0)
}

func TestEvaluateAggregateMeans(t *testing.T) {
	qrels := Qrels{
		"1": relevantSet("A"),
		"2": relevantSet("B", "C"),
	}
	results := map[string][]Result{
		"1": rankedList("1", "A"),        // AP 1.0
		"2": rankedList("2", "B", "X"),   // AP (1/1)/2 = 0.5
	}
	agg, _ := Evaluate(qrels, results)
	if agg.Queries != 2 {
		t.Fatalf("Queries = %d, want 2", agg.Queries)
	}
	approx(t, "MAP", agg.MAP, 0.75)
	if agg.NumRelevant != 3 || agg.NumRetrieved != 3 || agg.NumRelevantRetrieved != 2 {
		t.Errorf("totals = %d/%d/%d, want 3/3/2", agg.NumRelevant, agg.NumRetrieved, agg.NumRelevantRetrieved)
	}
}

func TestEvaluateNoQualifyingQueries(t *testing.T) {
	qrels := Qrels{"1": relevantSet("A")}
	results := map[string][]Result{"2": rankedList("2", "A")}

	agg, perQuery := Evaluate(qrels, results)
	if agg.Queries != 0 {
		t.Errorf("Queries = %d, want 0", agg.Queries)
	}
	if agg.MAP != 0 || agg.Recall != 0 {
		t.Errorf("aggregate not zero-valued: %+v", agg)
	}
	if len(perQuery) != 0 {
		t.Errorf("perQuery = %v, want empty", perQuery)
	}
}

func TestEvaluateAPBounds(t *testing.T) {
	lists := [][]string{
		{"A"},
		{"X", "A"},
		{"X", "Y", "Z"},
		{"A", "X", "B"},
		{"B", "A"},
	}
	qrels := Qrels{"1": relevantSet("A", "B")}
	for _, docs := range lists {
		results := map[string][]Result{"1": rankedList("1", docs...)}
		_, perQuery := Evaluate(qrels, results)
		ap := perQuery["1"].AP
		if ap < 0 || ap > 1 {
			t.Errorf("AP out of [0,1] for %v: %g", docs, ap)
		}
	}
}
