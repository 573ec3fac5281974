package trec

import "sort"

// QueryMetrics holds the evaluation results for a single query.
type QueryMetrics struct {
	AP                   float64
	P5                   float64
	P10                  float64
	P30                  float64
	Recall               float64
	RPrecision           float64
	ReciprocalRank       float64
	NumRelevant          int
	NumRetrieved         int
	NumRelevantRetrieved int
}

// Aggregate holds arithmetic means of the per-query metrics across all
// evaluated queries, plus summed totals.
type Aggregate struct {
	MAP                  float64
	P5                   float64
	P10                  float64
	P30                  float64
	Recall               float64
	RPrecision           float64
	ReciprocalRank       float64
	Queries              int
	NumRelevant          int
	NumRetrieved         int
	NumRelevantRetrieved int
}

// Evaluate computes the standard metric set over pre-loaded qrels and run
// results. Only queries present in both inputs with a non-empty relevant set
// are evaluated; everything else is silently skipped. Zero evaluated queries
// yields a zero-valued Aggregate, never a division by zero. Results are
// assumed rank-sorted (ReadRun guarantees this); per-query metrics are
// computed by walking the retrieved list once in rank order.
func Evaluate(qrels Qrels, results map[string][]Result) (Aggregate, map[string]QueryMetrics) {
	perQuery := make(map[string]QueryMetrics)
	var agg Aggregate

	queryIDs := make([]string, 0, len(qrels))
	for queryID := range qrels {
		queryIDs = append(queryIDs, queryID)
	}
	sort.Slice(queryIDs, func(i, j int) bool {
		return compareQueryIDs(queryIDs[i], queryIDs[j]) < 0
	})

	for _, queryID := range queryIDs {
		retrieved, ok := results[queryID]
		if !ok {
			continue
		}
		relevant := qrels[queryID]
		if len(relevant) == 0 {
			continue
		}
		qm := evaluateQuery(relevant, retrieved)
		perQuery[queryID] = qm

		agg.Queries++
		agg.MAP += qm.AP
		agg.P5 += qm.P5
		agg.P10 += qm.P10
		agg.P30 += qm.P30
		agg.Recall += qm.Recall
		agg.RPrecision += qm.RPrecision
		agg.ReciprocalRank += qm.ReciprocalRank
		agg.NumRelevant += qm.NumRelevant
		agg.NumRetrieved += qm.NumRetrieved
		agg.NumRelevantRetrieved += qm.NumRelevantRetrieved
	}

	if agg.Queries > 0 {
		n := float64(agg.Queries)
		agg.MAP /= n
		agg.P5 /= n
		agg.P10 /= n
		agg.P30 /= n
		agg.Recall /= n
		agg.RPrecision /= n
		agg.ReciprocalRank /= n
	}
	return agg, perQuery
}

// evaluateQuery walks the retrieved list in rank order, accumulating the
// running relevant-retrieved count and the precision sum for AP.
func evaluateQuery(relevant map[string]struct{}, retrieved []Result) QueryMetrics {
	numRelevant := len(relevant)
	qm := QueryMetrics{
		NumRelevant:  numRelevant,
		NumRetrieved: len(retrieved),
	}

	relRet := 0
	apSum := 0.0
	for i, r := range retrieved {
		if _, isRel := relevant[r.DocID]; isRel {
			relRet++
			apSum += float64(relRet) / float64(i+1)
			if qm.ReciprocalRank == 0 {
				// Uses the result's reported rank field, not the slice
				// position.
				qm.ReciprocalRank = 1.0 / float64(r.Rank)
			}
		}
		switch i + 1 {
		case 5:
			qm.P5 = float64(relRet) / 5
		case 10:
			qm.P10 = float64(relRet) / 10
		case 30:
			qm.P30 = float64(relRet) / 30
		}
	}

	qm.NumRelevantRetrieved = relRet
	qm.AP = apSum / float64(numRelevant)
	if len(retrieved) > 0 {
		qm.Recall = float64(relRet) / float64(numRelevant)
	}

	// R-precision over the first min(R, retrieved) positions, always
	// dividing by R. A list shorter than R is penalised rather than
	// rescaled.
	cutoff := numRelevant
	if len(retrieved) < cutoff {
		cutoff = len(retrieved)
	}
	relAtR := 0
	for i := 0; i < cutoff; i++ {
		if _, isRel := relevant[retrieved[i].DocID]; isRel {
			relAtR++
		}
	}
	qm.RPrecision = float64(relAtR) / float64(numRelevant)

	return qm
}
