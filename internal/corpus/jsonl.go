// Package corpus reads the external inputs of a retrieval run: the
// line-delimited JSON document and query streams and the stop-word list.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Document is one corpus record. Only the identifier and text survive
// tokenisation; the record itself is discarded after indexing.
type Document struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Query is one query record.
type Query struct {
	ID   string `json:"_id"`
	Text string `json:"text"`
}

// Lines in scifact-style corpora can exceed bufio's default token size.
const maxLineBytes = 16 * 1024 * 1024

// ReadDocuments streams documents from a JSONL file in file order, calling fn
// for each record. A malformed line is a fatal error: the corpus is the
// ground truth of a run and silently dropping records would skew every
// statistic derived from it.
func ReadDocuments(path string, fn func(Document) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening corpus file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var doc Document
		if err := json.Unmarshal(line, &doc); err != nil {
			return fmt.Errorf("parsing corpus line %d of %s: %w", lineNum, path, err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	return nil
}

// ReadQueries streams queries from a JSONL file in file order. The keep
// predicate is the caller's selection policy (for example, odd-numbered query
// ids only); pass nil to keep every query.
func ReadQueries(path string, keep func(id string) bool) ([]Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening queries file %s: %w", path, err)
	}
	defer f.Close()

	var queries []Query
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var q Query
		if err := json.Unmarshal(line, &q); err != nil {
			return nil, fmt.Errorf("parsing query line %d of %s: %w", lineNum, path, err)
		}
		if keep != nil && !keep(q.ID) {
			continue
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading queries file %s: %w", path, err)
	}
	return queries, nil
}
