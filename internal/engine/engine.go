package engine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/http/httpguts"

	"metaseek/internal/httpclient"
	"metaseek/internal/model"
)

// SearchEngine defines the contract every search engine adapter must
// satisfy. An adapter is immutable once constructed, so a single instance
// may serve any number of concurrent Results calls.
type SearchEngine interface {
	// Name returns the engine identifier used to tag results.
	Name() string

	// Results queries the upstream engine and returns scraped results
	// keyed by URL, in document order. safeSearch is accepted by every
	// engine for a uniform call site even when a provider ignores it.
	// Failures carry an ErrorKind; EmptyResultSet means the upstream
	// explicitly found nothing.
	Results(ctx context.Context, query string, page uint32, userAgent string, client *httpclient.Client, safeSearch uint8) (*model.ResultSet, error)
}

// Registry returns all available engines. Constructing an engine compiles
// its selectors, so an invalid configuration fails here rather than on the
// first query.
func Registry() ([]SearchEngine, error) {
	qwant, err := NewQwant()
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	ddg, err := NewDuckDuckGo()
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return []SearchEngine{qwant, ddg}, nil
}

// buildHeader assembles a request header set from the given pairs,
// rejecting values that are not valid on the wire so a bad value surfaces
// as a construction failure instead of being silently dropped by the
// transport.
func buildHeader(pairs map[string]string) (http.Header, error) {
	h := make(http.Header, len(pairs))
	for k, v := range pairs {
		if !httpguts.ValidHeaderFieldValue(v) {
			return nil, fmt.Errorf("invalid value for %s header", k)
		}
		h.Set(k, v)
	}
	return h, nil
}

// fetchDocument performs the upstream GET through the transport client and
// parses the body. Transport failures are wrapped as RequestError without
// reinterpretation; retries and timeouts are the client's business.
func fetchDocument(ctx context.Context, name, rawURL string, header http.Header, client *httpclient.Client) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: UnexpectedError, Engine: name, Op: "building request", Err: err}
	}
	req.Header = header

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Kind: RequestError, Engine: name, Op: "fetching results", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: RequestError, Engine: name, Op: "fetching results", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &Error{Kind: RequestError, Engine: name, Op: "parsing HTML", Err: err}
	}
	return doc, nil
}
