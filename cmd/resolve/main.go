// Command resolve prints the required documents for a service title.
// Usage: go run ./cmd/resolve [-catalog templates.yaml] [-feature F]... "Consulta Trabalhista Inicial"
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"juridico/internal/catalog"
)

type featureList []string

func (f *featureList) String() string     { return strings.Join(*f, ", ") }
func (f *featureList) Set(v string) error { *f = append(*f, v); return nil }

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	tablePath := fs.String("catalog", "", "YAML template table (defaults to the embedded catalog)")
	var features featureList
	fs.Var(&features, "feature", "product feature used when no template matches (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: resolve [-catalog file] [-feature F]... <title>")
	}

	cat := catalog.Default()
	if *tablePath != "" {
		f, err := os.Open(*tablePath)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		defer func() { _ = f.Close() }()
		if cat, err = catalog.Load(f); err != nil {
			return err
		}
	}

	title := strings.Join(fs.Args(), " ")
	item := catalog.Item{Title: title, Features: features}
	docs, source := cat.Requirements(item)

	fmt.Fprintf(out, "title:      %s\n", title)
	fmt.Fprintf(out, "normalized: %s\n", catalog.Normalize(title))
	if tmpl, ok := cat.Resolve(title); ok {
		fmt.Fprintf(out, "template:   %s (%s)\n", tmpl.ID, tmpl.Title)
	} else {
		fmt.Fprintln(out, "template:   none")
	}
	fmt.Fprintf(out, "source:     %s\n", source)
	for i, doc := range docs {
		fmt.Fprintf(out, "  %d. %s\n", i+1, doc)
	}
	return nil
}
