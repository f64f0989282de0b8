package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/tfidf-search/services"
)

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	hits := []services.Hit{
		{Rank: 1, DocID: 3, Path: "collection_html/caesar.html", Relevance: 1.23456},
		{Rank: 2, DocID: 0, Path: "collection_html/brutus.html", Relevance: 0.5},
	}

	require.NoError(t, PrintResults(&buf, hits))
	assert.Equal(t,
		"1.\t(1.2346)\tcollection_html/caesar.html\n"+
			"2.\t(0.5000)\tcollection_html/brutus.html\n",
		buf.String())
}

func TestPrintResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintResults(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestPrintBuildRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBuildRow(&buf, 7, "a.html", 42))

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "|  7 | "))
	assert.True(t, strings.HasSuffix(line, " a.html |    42 |\n"))
	assert.Len(t, line, len("|  7 | ")+60+len(" |    42 |\n"))
}

func TestPrintBuildSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBuildSummary(&buf, 120, 30))
	assert.Equal(t, "Count tokens 120\nSize 30\n", buf.String())
}
