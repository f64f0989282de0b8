package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/tfidf-search/internal/errors"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Julius   Caesar</title>
  <style>body { color: red; }</style>
</head>
<body>
  <h1>Act I</h1><p>Brutus &amp; Cassius</p>
  <script>var hidden = "calpurnia";</script>
  <p>Beware the ides<br/>of March.</p>
</body>
</html>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestHTMLExtractor_Extract(t *testing.T) {
	dir := t.TempDir()
	e := NewHTMLExtractor()

	t.Run("html body text", func(t *testing.T) {
		path := writeFile(t, dir, "caesar.html", samplePage)

		text, err := e.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "Act I Brutus & Cassius Beware the ides of March.", text)
		assert.NotContains(t, text, "calpurnia")
		assert.NotContains(t, text, "color")
	})

	t.Run("html without body element", func(t *testing.T) {
		path := writeFile(t, dir, "fragment.htm", "<p>cat <b>dog</b></p>")

		text, err := e.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "cat dog", text)
	})

	t.Run("plain text is returned unchanged", func(t *testing.T) {
		path := writeFile(t, dir, "notes.txt", "cat <dog>")

		text, err := e.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "cat <dog>", text)
	})

	t.Run("missing file is an extraction error", func(t *testing.T) {
		_, err := e.Extract(context.Background(), filepath.Join(dir, "missing.html"))
		assert.ErrorIs(t, err, errors.ErrExtraction)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.Extract(ctx, filepath.Join(dir, "caesar.html"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
