package output

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"metaseek/internal/model"
)

// ResultWriter defines how search results are presented or stored.
type ResultWriter interface {
	WriteResults(results []model.SearchResult) error
}

// ConsolePrinter writes results to stdout in a formatted table.
type ConsolePrinter struct{}

func NewConsolePrinter() *ConsolePrinter {
	return &ConsolePrinter{}
}

func (cp *ConsolePrinter) WriteResults(results []model.SearchResult) error {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENGINES\tTITLE\tURL\tDESCRIPTION")
	fmt.Fprintln(w, "-------\t-----\t---\t-----------")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			strings.Join(r.Engines, ","), r.Title, r.URL, truncate(r.Description, 80))
	}
	return w.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
