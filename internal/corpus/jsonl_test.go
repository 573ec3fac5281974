package corpus

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDocuments(t *testing.T) {
	path := writeTemp(t, "corpus.jsonl",
		`{"_id": "4983", "title": "Microstructural development", "text": "Alterations of the architecture."}
{"_id": "5836", "title": "Induction of myelodysplasia", "text": ""}
`)
	var docs []Document
	err := ReadDocuments(path, func(doc Document) error {
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("read %d documents, want 2", len(docs))
	}
	if docs[0].ID != "4983" || docs[0].Title != "Microstructural development" {
		t.Errorf("first document = %+v", docs[0])
	}
	if docs[1].Text != "" {
		t.Errorf("second document text = %q, want empty", docs[1].Text)
	}
}

func TestReadDocumentsMalformedLineFails(t *testing.T) {
	path := writeTemp(t, "corpus.jsonl",
		`{"_id": "1", "title": "ok", "text": "ok"}
{not json}
`)
	err := ReadDocuments(path, func(Document) error { return nil })
	if err == nil {
		t.Fatal("expected error for malformed corpus line")
	}
}

func TestReadDocumentsMissingFile(t *testing.T) {
	err := ReadDocuments(filepath.Join(t.TempDir(), "absent.jsonl"), func(Document) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}

func TestReadQueriesWithFilter(t *testing.T) {
	path := writeTemp(t, "queries.jsonl",
		`{"_id": "1", "text": "first"}
{"_id": "2", "text": "second"}
{"_id": "3", "text": "third"}
`)
	odd := func(id string) bool {
		n, err := strconv.Atoi(id)
		return err == nil && n%2 == 1
	}
	queries, err := ReadQueries(path, odd)
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 2 {
		t.Fatalf("read %d queries, want 2", len(queries))
	}
	if queries[0].ID != "1" || queries[1].ID != "3" {
		t.Errorf("filtered queries = %v", queries)
	}
}

func TestReadQueriesNilFilterKeepsAll(t *testing.T) {
	path := writeTemp(t, "queries.jsonl",
		`{"_id": "1", "text": "first"}
{"_id": "2", "text": "second"}
`)
	queries, err := ReadQueries(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(queries) != 2 {
		t.Errorf("read %d queries, want 2", len(queries))
	}
}
