package corpus

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// LoadStopwords reads a stop-word list from path. The file is either plain
// text (one word per line) or an HTML page carrying the list inside a
// <pre> block. Stop-wording is an optimisation, not a correctness
// requirement, so a missing or unreadable file degrades to an empty set with
// a warning instead of aborting the run.
func LoadStopwords(path string) map[string]struct{} {
	logger := slog.Default().With("component", "stopwords")
	stopwords := make(map[string]struct{})
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("stopword file unavailable, proceeding without stopwords",
			"path", path,
			"error", err,
		)
		return stopwords
	}

	content := string(data)
	if bytes.Contains(data, []byte("<pre>")) {
		content = extractPreText(data)
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			stopwords[word] = struct{}{}
		}
	}
	logger.Info("stopwords loaded", "path", path, "count", len(stopwords))
	return stopwords
}

// extractPreText returns the concatenated text content of every <pre>
// element in the document. A parse failure falls back to the raw bytes.
func extractPreText(data []byte) string {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return string(data)
	}
	var sb strings.Builder
	var preDepth int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "pre") {
			preDepth++
		}
		if preDepth > 0 && n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "pre") {
			preDepth--
		}
	}
	walk(root)
	return sb.String()
}
