package trec

import (
	"fmt"
	"io"
	"sort"
)

// WriteReport prints per-query and aggregate metrics in trec_eval's
// three-column "metric <tab> query <tab> value" layout: one block per metric
// across all queries, then the "all" summary lines.
func WriteReport(w io.Writer, agg Aggregate, perQuery map[string]QueryMetrics) error {
	queryIDs := make([]string, 0, len(perQuery))
	for queryID := range perQuery {
		queryIDs = append(queryIDs, queryID)
	}
	sort.Slice(queryIDs, func(i, j int) bool {
		return compareQueryIDs(queryIDs[i], queryIDs[j]) < 0
	})

	blocks := []struct {
		name  string
		value func(QueryMetrics) float64
	}{
		{"map", func(m QueryMetrics) float64 { return m.AP }},
		{"Rprec", func(m QueryMetrics) float64 { return m.RPrecision }},
		{"P_5", func(m QueryMetrics) float64 { return m.P5 }},
		{"P_10", func(m QueryMetrics) float64 { return m.P10 }},
		{"P_30", func(m QueryMetrics) float64 { return m.P30 }},
		{"recall", func(m QueryMetrics) float64 { return m.Recall }},
		{"recip_rank", func(m QueryMetrics) float64 { return m.ReciprocalRank }},
	}

	for _, block := range blocks {
		for _, queryID := range queryIDs {
			if _, err := fmt.Fprintf(w, "%-21s\t%s\t%.4f\n", block.name, queryID, block.value(perQuery[queryID])); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
		}
	}

	summary := []struct {
		name  string
		value string
	}{
		{"map", fmt.Sprintf("%.4f", agg.MAP)},
		{"Rprec", fmt.Sprintf("%.4f", agg.RPrecision)},
		{"P_5", fmt.Sprintf("%.4f", agg.P5)},
		{"P_10", fmt.Sprintf("%.4f", agg.P10)},
		{"P_30", fmt.Sprintf("%.4f", agg.P30)},
		{"recall", fmt.Sprintf("%.4f", agg.Recall)},
		{"recip_rank", fmt.Sprintf("%.4f", agg.ReciprocalRank)},
		{"num_q", fmt.Sprintf("%d", agg.Queries)},
		{"num_rel", fmt.Sprintf("%d", agg.NumRelevant)},
		{"num_ret", fmt.Sprintf("%d", agg.NumRetrieved)},
		{"num_rel_ret", fmt.Sprintf("%d", agg.NumRelevantRetrieved)},
	}
	for _, line := range summary {
		if _, err := fmt.Fprintf(w, "%-21s\tall\t%s\n", line.name, line.value); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
