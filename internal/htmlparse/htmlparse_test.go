package htmlparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/uci-crawler/internal/htmlparse"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Sample</title>
<style>.hero { color: red; }</style>
<script>trackPageview();</script>
<link rel="stylesheet" href="/style.css">
</head>
<body>
<nav><a href="/people/">People</a></nav>
<main>
<h1>Graduate Programs</h1>
<p>The department offers graduate study in distributed systems and networking.</p>
<a href="/courses/">Courses</a>
<a href="https://external.example.com/page">External</a>
<a href="javascript:void(0)">JS link</a>
<a href="mailto:someone@ics.uci.edu">Email</a>
<a href="#top">Back to top</a>
</main>
</body>
</html>`

func TestParse_VisibleTextExcludesChrome(t *testing.T) {
	doc, err := htmlparse.Parse([]byte(samplePage))
	require.NoError(t, err)

	text := doc.VisibleText()
	assert.Contains(t, text, "Graduate Programs")
	assert.Contains(t, text, "distributed systems")
	assert.NotContains(t, text, "trackPageview")
	assert.NotContains(t, text, "color: red")
}

func TestParse_WordCount(t *testing.T) {
	doc, err := htmlparse.Parse([]byte(samplePage))
	require.NoError(t, err)

	assert.Greater(t, doc.WordCount(), 5)
}

func TestParse_HrefsIncludesEveryAnchorUnfiltered(t *testing.T) {
	doc, err := htmlparse.Parse([]byte(samplePage))
	require.NoError(t, err)

	hrefs := doc.Hrefs()
	assert.Contains(t, hrefs, "/people/")
	assert.Contains(t, hrefs, "/courses/")
	assert.Contains(t, hrefs, "https://external.example.com/page")
	assert.Contains(t, hrefs, "javascript:void(0)")
	assert.Contains(t, hrefs, "mailto:someone@ics.uci.edu")
	assert.Contains(t, hrefs, "#top")
}

func TestParse_MalformedHTMLDoesNotError(t *testing.T) {
	_, err := htmlparse.Parse([]byte("<html><body><p>unterminated"))
	require.NoError(t, err)
}

func TestParse_EmptyBody(t *testing.T) {
	doc, err := htmlparse.Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.WordCount())
}
