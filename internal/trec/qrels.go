package trec

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Qrels maps a query id to its set of relevant document ids. Graded
// judgments are collapsed to binary: relevance > 0 marks a relevant pair.
type Qrels map[string]map[string]struct{}

// ReadQrels parses relevance judgments. Both the classic four-column
// "query_id iter doc_id rel" format and the TSV "query_id doc_id rel"
// format are accepted: the doc id is the second-to-last field and the
// relevance grade the last. A leading header line starting with "query-id"
// is skipped, as are malformed lines (with a warning).
func ReadQrels(r io.Reader) (Qrels, error) {
	logger := slog.Default().With("component", "qrels-reader")
	qrels := make(Qrels)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lineNum == 1 && strings.HasPrefix(line, "query-id") {
			continue
		}
		var parts []string
		if strings.Contains(line, "\t") {
			parts = strings.Split(line, "\t")
		} else {
			parts = strings.Fields(line)
		}
		if len(parts) < 3 {
			logger.Warn("skipping short qrels line", "line", lineNum, "fields", len(parts))
			continue
		}
		queryID := strings.TrimSpace(parts[0])
		docID := strings.TrimSpace(parts[len(parts)-2])
		relevance, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
		if err != nil {
			logger.Warn("skipping qrels line with bad relevance", "line", lineNum, "relevance", parts[len(parts)-1])
			continue
		}
		if relevance <= 0 {
			continue
		}
		if qrels[queryID] == nil {
			qrels[queryID] = make(map[string]struct{})
		}
		qrels[queryID][docID] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading qrels: %w", err)
	}
	return qrels, nil
}

// ReadQrelsFile parses the qrels file at path.
func ReadQrelsFile(path string) (Qrels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening qrels file %s: %w", path, err)
	}
	defer f.Close()
	return ReadQrels(f)
}
