package model

import "encoding/json"

// SearchResult represents a single normalized result scraped from any engine.
type SearchResult struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Engines     []string `json:"engines"`
}

// AddEngine records another engine as a source of this result.
// Adding an engine that is already present is a no-op.
func (r *SearchResult) AddEngine(name string) {
	if r.HasEngine(name) {
		return
	}
	r.Engines = append(r.Engines, name)
}

// HasEngine reports whether the given engine already tagged this result.
func (r SearchResult) HasEngine(name string) bool {
	for _, e := range r.Engines {
		if e == name {
			return true
		}
	}
	return false
}

// ResultSet is a URL-keyed collection of search results that preserves
// insertion order. Within one engine's scrape the insertion order is the
// document order, which downstream consumers rely on for stable ranking.
type ResultSet struct {
	results map[string]SearchResult
	order   []string
}

func NewResultSet() *ResultSet {
	return &ResultSet{results: make(map[string]SearchResult)}
}

// Add inserts a result keyed by its URL. A result with a URL already in the
// set overwrites the stored value but keeps the original position. Results
// with an empty URL are dropped.
func (s *ResultSet) Add(r SearchResult) {
	if r.URL == "" {
		return
	}
	if _, ok := s.results[r.URL]; !ok {
		s.order = append(s.order, r.URL)
	}
	s.results[r.URL] = r
}

// Get returns the result stored for url, if any.
func (s *ResultSet) Get(url string) (SearchResult, bool) {
	r, ok := s.results[url]
	return r, ok
}

// Len returns the number of distinct URLs in the set.
func (s *ResultSet) Len() int {
	return len(s.order)
}

// URLs returns the stored URLs in insertion order.
func (s *ResultSet) URLs() []string {
	urls := make([]string, len(s.order))
	copy(urls, s.order)
	return urls
}

// Results returns the stored results in insertion order.
func (s *ResultSet) Results() []SearchResult {
	out := make([]SearchResult, 0, len(s.order))
	for _, url := range s.order {
		out = append(out, s.results[url])
	}
	return out
}

// Merge folds other into s. A URL seen for the first time is appended,
// preserving other's order. For a URL already present the stored record
// wins and only the engine tags of the incoming record are unioned in.
func (s *ResultSet) Merge(other *ResultSet) {
	if other == nil {
		return
	}
	for _, url := range other.order {
		incoming := other.results[url]
		existing, ok := s.results[url]
		if !ok {
			s.Add(incoming)
			continue
		}
		for _, e := range incoming.Engines {
			existing.AddEngine(e)
		}
		s.results[url] = existing
	}
}

// MarshalJSON encodes the set as an ordered array of results.
func (s *ResultSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Results())
}

// UnmarshalJSON rebuilds the set from an ordered array of results.
func (s *ResultSet) UnmarshalJSON(data []byte) error {
	var results []SearchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return err
	}
	s.results = make(map[string]SearchResult, len(results))
	s.order = nil
	for _, r := range results {
		s.Add(r)
	}
	return nil
}
