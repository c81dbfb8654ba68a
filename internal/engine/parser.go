package engine

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"metaseek/internal/model"
)

// Mapper turns the three located elements of one result item into a record.
// Returning false skips the item without failing the extraction; malformed
// individual items are tolerated by omission.
type Mapper func(title, link, desc *goquery.Selection) (model.SearchResult, bool)

// ResultParser extracts search results from an HTML document using nothing
// but configured CSS selectors, so that one parser type serves every
// engine. All selectors are compiled at construction time; a parser that
// exists has valid selectors.
type ResultParser struct {
	results  cascadia.Selector
	noResult cascadia.Selector
	title    cascadia.Selector
	link     cascadia.Selector
	desc     cascadia.Selector
}

// NewResultParser compiles the five selectors an engine needs: the
// per-result container, the marker an upstream renders when it found
// nothing, and the title/link/description elements relative to each
// container.
func NewResultParser(resultsSel, noResultSel, titleSel, linkSel, descSel string) (*ResultParser, error) {
	p := &ResultParser{}
	for _, s := range []struct {
		name string
		raw  string
		dst  *cascadia.Selector
	}{
		{"results", resultsSel, &p.results},
		{"no result", noResultSel, &p.noResult},
		{"title", titleSel, &p.title},
		{"link", linkSel, &p.link},
		{"description", descSel, &p.desc},
	} {
		sel, err := cascadia.Compile(s.raw)
		if err != nil {
			return nil, fmt.Errorf("parser: compiling %s selector %q: %w", s.name, s.raw, err)
		}
		*s.dst = sel
	}
	return p, nil
}

// NoResults returns the elements matching the configured no-result marker.
// A non-empty selection means the upstream explicitly reported zero
// results; callers must honor it before attempting extraction, since an
// empty-state page often carries boilerplate that would parse as garbage
// items.
func (p *ResultParser) NoResults(doc *goquery.Document) *goquery.Selection {
	return doc.FindMatcher(p.noResult)
}

// Extract walks the result containers in document order, locates the
// nearest title/link/description within each, and feeds them to mapper.
// Containers missing any of the three elements are skipped silently.
// Insertion order into the returned set follows document order.
func (p *ResultParser) Extract(doc *goquery.Document, mapper Mapper) (*model.ResultSet, error) {
	set := model.NewResultSet()
	doc.FindMatcher(p.results).Each(func(_ int, item *goquery.Selection) {
		title := item.FindMatcher(p.title).First()
		link := item.FindMatcher(p.link).First()
		desc := item.FindMatcher(p.desc).First()
		if title.Length() == 0 || link.Length() == 0 || desc.Length() == 0 {
			return
		}
		if r, ok := mapper(title, link, desc); ok {
			set.Add(r)
		}
	})
	return set, nil
}
