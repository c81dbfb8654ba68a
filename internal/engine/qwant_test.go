package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// qwantItem renders one result in the shape Qwant's selectors expect.
func qwantItem(href, title, desc string) string {
	return `<div class="nt3hI">` +
		`<div class="_35zId _3A7p7 RMB_d eoseI"><a href="` + href + `"> ` + title + ` </a></div>` +
		`<div class="_2-LMx XqdKF _1UMq0 _29nLp _3PXjk"><span> ` + desc + ` </span></div>` +
		`</div>`
}

func qwantPage(items ...string) string {
	body := `<html><body><div class="_2NDle">`
	for _, it := range items {
		body += it
	}
	return body + `</div></body></html>`
}

const qwantEmptyPage = `<html><body>` +
	`<div data-testid="noResults">No results for this query</div>` +
	`<div class="_2NDle"><div class="nt3hI"><span>leftover chrome</span></div></div>` +
	`</body></html>`

func newQwantAgainst(t *testing.T, srvURL string) *Qwant {
	t.Helper()
	q, err := NewQwant()
	require.NoError(t, err)
	q.baseURL = srvURL + "/"
	return q
}

func TestQwant_SearchURLPagination(t *testing.T) {
	q, err := NewQwant()
	require.NoError(t, err)

	tests := []struct {
		page uint32
		want string
	}{
		{0, "1"},
		{1, "1"},
		{2, "2"},
		{7, "7"},
		{100, "100"},
	}
	for _, tt := range tests {
		u, err := url.Parse(q.searchURL("rust web framework", tt.page))
		require.NoError(t, err)
		assert.Equal(t, tt.want, u.Query().Get("s"), "page %d", tt.page)
		assert.Equal(t, "rust web framework", u.Query().Get("q"))
	}
}

func TestQwant_ResultsScrapesAndTags(t *testing.T) {
	var gotHeader http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		w.Write([]byte(qwantPage(
			qwantItem("https://a.example/one", "First hit", "about the first"),
			qwantItem("https://b.example/two", "Second hit", "about the second"),
			qwantItem("https://c.example/three", "Third hit", "about the third"),
		)))
	}))
	defer srv.Close()

	q := newQwantAgainst(t, srv.URL)
	set, err := q.Results(context.Background(), "test", 1, testUserAgent, newTestClient(t), 0)
	require.NoError(t, err)

	require.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"https://a.example/one", "https://b.example/two", "https://c.example/three"}, set.URLs())

	r, ok := set.Get("https://a.example/one")
	require.True(t, ok)
	assert.Equal(t, "First hit", r.Title)
	assert.Equal(t, "about the first", r.Description)
	assert.Equal(t, []string{"qwant"}, r.Engines)

	// The spoofed browser header set reaches the upstream intact.
	assert.Equal(t, testUserAgent, gotHeader.Get("User-Agent"))
	assert.Equal(t, "https://google.com/", gotHeader.Get("Referer"))
	assert.Equal(t, "application/x-www-form-urlencoded", gotHeader.Get("Content-Type"))
	assert.Equal(t, "ab_test_group=1; home=daily", gotHeader.Get("Cookie"))
}

func TestQwant_ResultsEmptyResultSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(qwantEmptyPage))
	}))
	defer srv.Close()

	q := newQwantAgainst(t, srv.URL)
	_, err := q.Results(context.Background(), "gibberishquery", 1, testUserAgent, newTestClient(t), 0)
	require.Error(t, err)
	assert.True(t, IsKind(err, EmptyResultSet), "got: %v", err)
}

func TestQwant_ResultsDuplicateURLLastWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(qwantPage(
			qwantItem("https://dup.example", "First copy", "first"),
			qwantItem("https://dup.example", "Second copy", "second"),
		)))
	}))
	defer srv.Close()

	q := newQwantAgainst(t, srv.URL)
	set, err := q.Results(context.Background(), "test", 1, testUserAgent, newTestClient(t), 0)
	require.NoError(t, err)

	require.Equal(t, 1, set.Len())
	r, _ := set.Get("https://dup.example")
	assert.Equal(t, "Second copy", r.Title)
}

func TestQwant_ResultsOmitsItemMissingDescription(t *testing.T) {
	noDesc := `<div class="nt3hI">` +
		`<div class="_35zId _3A7p7 RMB_d eoseI"><a href="https://broken.example">No snippet</a></div>` +
		`</div>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(qwantPage(
			qwantItem("https://a.example", "Fine", "has everything"),
			noDesc,
			qwantItem("https://b.example", "Also fine", "has everything too"),
		)))
	}))
	defer srv.Close()

	q := newQwantAgainst(t, srv.URL)
	set, err := q.Results(context.Background(), "test", 1, testUserAgent, newTestClient(t), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, set.URLs())
}

func TestQwant_ResultsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	q := newQwantAgainst(t, srv.URL)
	_, err := q.Results(context.Background(), "test", 1, testUserAgent, newTestClient(t), 0)
	require.Error(t, err)
	assert.True(t, IsKind(err, RequestError), "got: %v", err)
}
