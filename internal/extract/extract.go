// Package extract pulls the plain text out of collection documents.
package extract

import (
	"bytes"
	"context"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/gcbaptista/tfidf-search/internal/errors"
)

var (
	bodyRegex          = regexp.MustCompile(`(?is)<body[^>]*>(.*)</body>`)
	skippedBlockRegex  = regexp.MustCompile(`(?is)<(script|style|head)[^>]*>.*?</(script|style|head)>`)
	repeatedSpaceRegex = regexp.MustCompile(`\s+`)
)

// Extractor returns the plain text of the document stored at path.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// HTMLExtractor reads files from disk and strips their markup. Files whose
// extension is not listed in MarkupExtensions are returned as plain text.
type HTMLExtractor struct {
	MarkupExtensions []string
	policyPool       sync.Pool
}

// NewHTMLExtractor creates an extractor that strips markup from .html and
// .htm files.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{
		MarkupExtensions: []string{".html", ".htm"},
		policyPool: sync.Pool{
			New: func() interface{} {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

// Extract reads path and returns its text content. Read failures are
// reported as an ExtractionError.
func (e *HTMLExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.NewExtractionError(path, err)
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- paths come from the collection listing
	if err != nil {
		return "", errors.NewExtractionError(path, err)
	}

	if !e.isMarkup(path) {
		return string(raw), nil
	}
	return e.BodyText(raw), nil
}

// BodyText returns the visible text of an HTML document: the content of
// <body> (or the whole document when there is none) without tags, scripts
// and styles, entities unescaped and whitespace collapsed.
func (e *HTMLExtractor) BodyText(raw []byte) string {
	content := raw
	if m := bodyRegex.FindSubmatch(raw); len(m) == 2 {
		content = m[1]
	}
	content = skippedBlockRegex.ReplaceAll(content, []byte(" "))
	return e.sanitize(content)
}

func (e *HTMLExtractor) sanitize(content []byte) string {
	policy := e.policyPool.Get().(*bluemonday.Policy)
	defer e.policyPool.Put(policy)

	// Tags are replaced by nothing, so pad them to keep adjacent words apart.
	padded := bytes.ReplaceAll(content, []byte("<"), []byte(" <"))
	text := policy.SanitizeBytes(padded)
	return strings.TrimSpace(html.UnescapeString(repeatedSpaceRegex.ReplaceAllString(string(text), " ")))
}

func (e *HTMLExtractor) isMarkup(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, markup := range e.MarkupExtensions {
		if ext == markup {
			return true
		}
	}
	return false
}
