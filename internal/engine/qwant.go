package engine

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"metaseek/internal/httpclient"
	"metaseek/internal/model"
)

const qwantName = "qwant"

// Qwant scrapes the Qwant web search results page.
type Qwant struct {
	parser  *ResultParser
	baseURL string
}

// NewQwant builds a Qwant engine. The selectors target Qwant's obfuscated
// class names and need re-verification whenever the upstream markup
// changes.
func NewQwant() (*Qwant, error) {
	parser, err := NewResultParser(
		"._2NDle .nt3hI",
		"[data-testid=noResults]",
		"._35zId._3A7p7.RMB_d.eoseI>a",
		"._35zId._3A7p7.RMB_d.eoseI>a",
		"._2-LMx.XqdKF._1UMq0._29nLp._3PXjk>span",
	)
	if err != nil {
		return nil, err
	}
	return &Qwant{
		parser:  parser,
		baseURL: "https://www.qwant.com/",
	}, nil
}

func (q *Qwant) Name() string {
	return qwantName
}

// Results implements SearchEngine. Qwant has no usable safe search
// parameter on the scraped page, so safeSearch is accepted and ignored.
func (q *Qwant) Results(ctx context.Context, query string, page uint32, userAgent string, client *httpclient.Client, _ uint8) (*model.ResultSet, error) {
	header, err := buildHeader(map[string]string{
		"User-Agent":   userAgent,
		"Referer":      "https://google.com/",
		"Content-Type": "application/x-www-form-urlencoded",
		// Pins a stable A/B bucket and display preference upstream.
		"Cookie": "ab_test_group=1; home=daily",
	})
	if err != nil {
		return nil, &Error{Kind: UnexpectedError, Engine: qwantName, Op: "building headers", Err: err}
	}

	doc, err := fetchDocument(ctx, qwantName, q.searchURL(query, page), header, client)
	if err != nil {
		return nil, err
	}

	if q.parser.NoResults(doc).Length() > 0 {
		return nil, &Error{Kind: EmptyResultSet, Engine: qwantName, Op: "scraping results"}
	}

	return q.parser.Extract(doc, func(title, link, desc *goquery.Selection) (model.SearchResult, bool) {
		href, ok := link.Attr("href")
		if !ok {
			return model.SearchResult{}, false
		}
		return model.SearchResult{
			Title:       strings.TrimSpace(title.Text()),
			URL:         strings.TrimSpace(href),
			Description: strings.TrimSpace(desc.Text()),
			Engines:     []string{qwantName},
		}, true
	})
}

// searchURL maps page to Qwant's pagination convention. Page values 0 and
// 1 both mean the first page: callers defaulting an unset page to 0 must
// still produce a page parameter the upstream accepts.
func (q *Qwant) searchURL(query string, page uint32) string {
	params := url.Values{}
	params.Set("q", query)
	switch page {
	case 0, 1:
		params.Set("s", "1")
	default:
		params.Set("s", strconv.FormatUint(uint64(page), 10))
	}
	return q.baseURL + "?" + params.Encode()
}
