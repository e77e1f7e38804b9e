package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_DropsScriptsAndKeepsBlocks(t *testing.T) {
	raw := `<html><head><title> Guest Reviews </title><style>.x{}</style></head>
<body>
  <nav>Home | About</nav>
  <h1>Parks</h1>
  <p>Lines were   long.</p>
  <script>alert("x")</script>
  <!-- hidden -->
  <ul><li>Food</li><li>Rides</li></ul>
</body></html>`

	page, err := ExtractText(raw, nil)
	require.NoError(t, err)

	assert.Equal(t, "Guest Reviews", page.Title)
	assert.Equal(t, "Parks\nLines were long.\nFood\nRides", page.Text)
	assert.NotContains(t, page.Text, "alert")
	assert.NotContains(t, page.Text, "hidden")
	assert.NotContains(t, page.Text, "Home")
}

func TestExtractText_Truncates(t *testing.T) {
	var big strings.Builder
	big.WriteString("<body>")
	for i := 0; i < 5000; i++ {
		big.WriteString("<p>customer feedback</p>")
	}
	big.WriteString("</body>")

	cfg := DefaultTextConfig
	cfg.MaxOutputSize = 1000
	page, err := ExtractText(big.String(), &cfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(page.Text), 1000+len("\n... (truncated)"))
	assert.True(t, strings.HasSuffix(page.Text, "(truncated)"))
}

func TestExtractText_TruncatesOnRuneBoundary(t *testing.T) {
	cfg := DefaultTextConfig
	cfg.MaxOutputSize = 8
	page, err := ExtractText("<body><p>ゲストの声が大きい</p></body>", &cfg)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(page.Text))
	assert.Equal(t, "ゲス\n... (truncated)", page.Text)
}

func TestValidateURL(t *testing.T) {
	u, err := validateURL("example.com/reviews")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/reviews", u)

	_, err = validateURL("ftp://example.com")
	assert.Error(t, err)

	_, err = validateURL("")
	assert.Error(t, err)

	_, err = validateURL("https://")
	assert.Error(t, err)
}

func TestHTTPScraper_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Survey</title></head><body><p>Satisfaction is 82%</p></body></html>`))
	}))
	defer srv.Close()

	s := NewHTTPScraper(DefaultHTTPConfig())
	out, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Survey\n\nSatisfaction is 82%", out)
}

func TestHTTPScraper_PlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("line one\n\n   line   two"))
	}))
	defer srv.Close()

	s := NewHTTPScraper(DefaultHTTPConfig())
	out, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", out)
}

func TestHTTPScraper_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewHTTPScraper(DefaultHTTPConfig())
	_, err := s.Scrape(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "404")
}

func TestHTTPScraper_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><script>1</script></body></html>`))
	}))
	defer srv.Close()

	s := NewHTTPScraper(DefaultHTTPConfig())
	_, err := s.Scrape(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "no readable text")
}
