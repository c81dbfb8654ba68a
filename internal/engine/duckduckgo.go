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

const duckduckgoName = "duckduckgo"

// resultsPerPage is the page size of the DuckDuckGo HTML endpoint, used to
// translate page numbers into result offsets.
const resultsPerPage = 30

// DuckDuckGo scrapes the JavaScript-free html.duckduckgo.com interface.
type DuckDuckGo struct {
	parser  *ResultParser
	baseURL string
}

func NewDuckDuckGo() (*DuckDuckGo, error) {
	parser, err := NewResultParser(
		".result__body",
		".no-results",
		".result__a",
		".result__a",
		".result__snippet",
	)
	if err != nil {
		return nil, err
	}
	return &DuckDuckGo{
		parser:  parser,
		baseURL: "https://html.duckduckgo.com/html/",
	}, nil
}

func (d *DuckDuckGo) Name() string {
	return duckduckgoName
}

// Results implements SearchEngine.
func (d *DuckDuckGo) Results(ctx context.Context, query string, page uint32, userAgent string, client *httpclient.Client, safeSearch uint8) (*model.ResultSet, error) {
	header, err := buildHeader(map[string]string{
		"User-Agent":   userAgent,
		"Referer":      "https://google.com/",
		"Content-Type": "application/x-www-form-urlencoded",
		"Cookie":       "kl=us-en",
	})
	if err != nil {
		return nil, &Error{Kind: UnexpectedError, Engine: duckduckgoName, Op: "building headers", Err: err}
	}

	doc, err := fetchDocument(ctx, duckduckgoName, d.searchURL(query, page, safeSearch), header, client)
	if err != nil {
		return nil, err
	}

	if d.parser.NoResults(doc).Length() > 0 {
		return nil, &Error{Kind: EmptyResultSet, Engine: duckduckgoName, Op: "scraping results"}
	}

	return d.parser.Extract(doc, func(title, link, desc *goquery.Selection) (model.SearchResult, bool) {
		href, ok := link.Attr("href")
		if !ok {
			return model.SearchResult{}, false
		}
		return model.SearchResult{
			Title:       strings.TrimSpace(title.Text()),
			URL:         strings.TrimSpace(href),
			Description: strings.TrimSpace(desc.Text()),
			Engines:     []string{duckduckgoName},
		}, true
	})
}

// searchURL maps page to DuckDuckGo's offset pagination. Pages 0 and 1
// both mean the first page and carry no offset; later pages are translated
// into an s= result offset. safeSearch levels above zero turn strict
// filtering on via the kp parameter.
func (d *DuckDuckGo) searchURL(query string, page uint32, safeSearch uint8) string {
	params := url.Values{}
	params.Set("q", query)
	switch page {
	case 0, 1:
	default:
		params.Set("s", strconv.FormatUint(uint64(page-1)*resultsPerPage, 10))
	}
	if safeSearch > 0 {
		params.Set("kp", "1")
	} else {
		params.Set("kp", "-2")
	}
	return d.baseURL + "?" + params.Encode()
}
