// Package trec implements the TREC interchange surface: the run (results)
// file format, the qrels relevance judgments, and the standard evaluation
// metrics over the two.
package trec

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Result is one (query, document) line of a run file. Rank is 1-based and
// dense within its query; higher Score means more relevant.
type Result struct {
	QueryID string
	DocID   string
	Rank    int
	Score   float64
}

// WriteRun writes results in the standard six-column run format:
//
//	query_id Q0 doc_id rank score run_tag
//
// Scores are fixed to four decimals. Lines are ordered by query id (numeric
// ids compare numerically) then rank.
func WriteRun(w io.Writer, results []Result, runTag string) error {
	ordered := make([]Result, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		if c := compareQueryIDs(ordered[i].QueryID, ordered[j].QueryID); c != 0 {
			return c < 0
		}
		return ordered[i].Rank < ordered[j].Rank
	})

	bw := bufio.NewWriter(w)
	for _, r := range ordered {
		if _, err := fmt.Fprintf(bw, "%s Q0 %s %d %.4f %s\n", r.QueryID, r.DocID, r.Rank, r.Score, runTag); err != nil {
			return fmt.Errorf("writing result line: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing results: %w", err)
	}
	return nil
}

// WriteRunFile writes results to path, creating or truncating it.
func WriteRunFile(path string, results []Result, runTag string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file %s: %w", path, err)
	}
	if err := WriteRun(f, results, runTag); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing results file %s: %w", path, err)
	}
	return nil
}

// ReadRun parses a run file into per-query result lists. Lines with fewer
// than six fields or non-numeric rank/score are skipped with a warning.
// Each query's results are re-sorted by rank so downstream consumers can
// rely on rank order even for hand-edited files.
func ReadRun(r io.Reader) (map[string][]Result, error) {
	logger := slog.Default().With("component", "run-reader")
	results := make(map[string][]Result)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 6 {
			logger.Warn("skipping short result line", "line", lineNum, "fields", len(parts))
			continue
		}
		rank, err := strconv.Atoi(parts[3])
		if err != nil {
			logger.Warn("skipping result line with bad rank", "line", lineNum, "rank", parts[3])
			continue
		}
		score, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			logger.Warn("skipping result line with bad score", "line", lineNum, "score", parts[4])
			continue
		}
		queryID := parts[0]
		results[queryID] = append(results[queryID], Result{
			QueryID: queryID,
			DocID:   parts[2],
			Rank:    rank,
			Score:   score,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	for queryID := range results {
		rs := results[queryID]
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Rank < rs[j].Rank })
	}
	return results, nil
}

// ReadRunFile parses the run file at path.
func ReadRunFile(path string) (map[string][]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results file %s: %w", path, err)
	}
	defer f.Close()
	return ReadRun(f)
}

// compareQueryIDs orders numeric ids numerically; non-numeric ids sort
// after numeric ones, lexically among themselves.
func compareQueryIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na - nb
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
