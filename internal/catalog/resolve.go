package catalog

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Normalize folds a product title into its matching key: diacritics removed,
// lower-cased, punctuation stripped and whitespace collapsed.
//
//	Normalize("Emissão de Parecer Jurídico (2ª via)") == "emissao de parecer juridico 2a via"
func Normalize(s string) string {
	// transform chains carry state, so build one per call.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = nonWord.ReplaceAllString(folded, "")
	folded = whitespace.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// Resolve finds the template for a free-text product title.
//
// Lookup order: historical alias, exact normalized title, then keyword score.
// The keyword fallback picks the template with the most keywords found in
// the title; on a tie the template declared first in the table wins.
func (c *Catalog) Resolve(title string) (Template, bool) {
	idx, ok := c.resolveIndex(Normalize(title))
	if !ok {
		return Template{}, false
	}
	return c.templates[idx].clone(), true
}

func (c *Catalog) resolveIndex(key string) (int, bool) {
	if idx, ok := c.aliases[key]; ok {
		return idx, true
	}
	if idx, ok := c.titles[key]; ok {
		return idx, true
	}
	if key == "" {
		return 0, false
	}

	words := strings.Fields(key)
	best, bestScore := -1, 0
	for idx, kws := range c.keywords {
		score := 0
		for _, kw := range kws {
			if keywordMatches(key, words, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = idx, score
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// keywordMatches compares a single-word keyword against whole title words, so
// "acao" does not hit "retificacao". Multi-word keywords match as a phrase.
func keywordMatches(title string, words []string, kw string) bool {
	if strings.Contains(kw, " ") {
		return strings.Contains(" "+title+" ", " "+kw+" ")
	}
	return slices.Contains(words, kw)
}

// Item is the part of a cart or order line the resolver looks at.
type Item struct {
	ID       string
	Title    string
	Features []string
}

// Source tells where an item's requirements come from.
type Source string

const (
	SourceTemplate Source = "template"
	SourceFeatures Source = "features"
	SourceDefault  Source = "default"
)

// RequiredDocuments returns the ordered document names an item needs.
// It falls back to the item's features, then to DefaultDocuments; it never fails.
func (c *Catalog) RequiredDocuments(item Item) []string {
	docs, _ := c.Requirements(item)
	return docs
}

// Requirements is RequiredDocuments plus the source the list came from.
func (c *Catalog) Requirements(item Item) ([]string, Source) {
	if idx, ok := c.resolveIndex(Normalize(item.Title)); ok {
		return slices.Clone(c.templates[idx].Documents), SourceTemplate
	}
	if len(item.Features) > 0 {
		return slices.Clone(item.Features), SourceFeatures
	}
	return slices.Clone(DefaultDocuments), SourceDefault
}
