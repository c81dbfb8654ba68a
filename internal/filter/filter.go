package filter

import (
	"net/url"
	"strings"

	"metaseek/internal/model"
)

// Options holds all filter criteria. Empty fields mean "no filter".
// List-valued fields are comma-separated.
type Options struct {
	BlockedDomains string // domains whose results are dropped
	Keywords       string // at least one must appear in title or description
	Exclude        string // none may appear in title or description
}

// Apply filters a result set, returning a new set with only the results
// that pass all criteria. Order is preserved.
func Apply(set *model.ResultSet, opts Options) *model.ResultSet {
	if opts.isEmpty() {
		return set
	}

	out := model.NewResultSet()
	for _, r := range set.Results() {
		if matchResult(r, opts) {
			out.Add(r)
		}
	}
	return out
}

func matchResult(r model.SearchResult, opts Options) bool {
	if opts.BlockedDomains != "" && blockedDomain(r.URL, opts.BlockedDomains) {
		return false
	}

	text := strings.ToLower(r.Title + " " + r.Description)
	if opts.Keywords != "" && !containsAny(text, opts.Keywords) {
		return false
	}
	if opts.Exclude != "" && containsAny(text, opts.Exclude) {
		return false
	}
	return true
}

// blockedDomain reports whether the result URL's host matches any of the
// comma-separated domains, including subdomains.
func blockedDomain(rawURL, domains string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())

	for _, d := range strings.Split(domains, ",") {
		d = strings.TrimSpace(strings.ToLower(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// containsAny checks if text contains any of the comma-separated terms.
func containsAny(text, terms string) bool {
	for _, term := range strings.Split(terms, ",") {
		term = strings.TrimSpace(strings.ToLower(term))
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func (o Options) isEmpty() bool {
	return o.BlockedDomains == "" && o.Keywords == "" && o.Exclude == ""
}
