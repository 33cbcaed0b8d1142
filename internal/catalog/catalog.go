// Package catalog resolves which supporting documents a legal service requires
// and aggregates upload state into item and order completion.
//
// The template table is static data (templates.yaml) decoded once into an
// immutable Catalog. Every method on Catalog is a pure function of its inputs
// and is safe for concurrent use.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// ErrInvalidTable is returned by Load when the template table is malformed.
var ErrInvalidTable = errors.New("invalid template table")

// DefaultDocuments is returned for items that match no template and carry no features.
var DefaultDocuments = []string{
	"RG e CPF",
	"Comprovante de endereço atualizado",
	"Procuração (se representado)",
	"Documentos específicos do caso",
}

// Template describes one legal-service offering and the documents it requires.
type Template struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Documents   []string `yaml:"documents" json:"documents"`
	Aliases     []string `yaml:"aliases" json:"aliases,omitempty"`
	Keywords    []string `yaml:"keywords" json:"keywords,omitempty"`
}

func (t Template) clone() Template {
	t.Documents = slices.Clone(t.Documents)
	t.Aliases = slices.Clone(t.Aliases)
	t.Keywords = slices.Clone(t.Keywords)
	return t
}

// Catalog is an immutable, indexed template table.
type Catalog struct {
	templates []Template
	byID      map[string]int
	aliases   map[string]int
	titles    map[string]int
	keywords  [][]string
}

type tableFile struct {
	Templates []Template `yaml:"templates"`
}

// Load decodes a YAML template table and indexes it.
// Template declaration order is preserved and breaks keyword-score ties.
func Load(r io.Reader) (*Catalog, error) {
	var f tableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding template table: %w", err)
	}
	return build(f.Templates)
}

// MustLoad is like Load but panics on error. Intended for embedded tables.
func MustLoad(data []byte) *Catalog {
	c, err := Load(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Default returns the catalog built from the embedded template table.
var Default = sync.OnceValue(func() *Catalog {
	return MustLoad(templatesYAML)
})

func build(templates []Template) (*Catalog, error) {
	c := &Catalog{
		templates: make([]Template, 0, len(templates)),
		byID:      make(map[string]int, len(templates)),
		aliases:   make(map[string]int),
		titles:    make(map[string]int, len(templates)),
		keywords:  make([][]string, 0, len(templates)),
	}

	for i := range templates {
		t := templates[i].clone()
		switch {
		case t.ID == "":
			return nil, fmt.Errorf("%w: template #%d has no id", ErrInvalidTable, i)
		case t.Title == "":
			return nil, fmt.Errorf("%w: template %q has no title", ErrInvalidTable, t.ID)
		case len(t.Documents) == 0:
			return nil, fmt.Errorf("%w: template %q has no documents", ErrInvalidTable, t.ID)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate template id %q", ErrInvalidTable, t.ID)
		}

		idx := len(c.templates)
		c.byID[t.ID] = idx

		title := Normalize(t.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: template %q has a title with no letters or digits", ErrInvalidTable, t.ID)
		}
		if prev, dup := c.titles[title]; dup {
			return nil, fmt.Errorf("%w: templates %q and %q share a title",
				ErrInvalidTable, c.templates[prev].ID, t.ID)
		}
		c.titles[title] = idx

		for _, a := range t.Aliases {
			key := Normalize(a)
			if key == "" {
				continue
			}
			if prev, ok := c.aliases[key]; ok && prev != idx {
				return nil, fmt.Errorf("%w: alias %q claimed by %q and %q",
					ErrInvalidTable, a, c.templates[prev].ID, t.ID)
			}
			c.aliases[key] = idx
		}

		kws := make([]string, 0, len(t.Keywords))
		for _, k := range t.Keywords {
			if nk := Normalize(k); nk != "" {
				kws = append(kws, nk)
			}
		}
		c.keywords = append(c.keywords, kws)
		c.templates = append(c.templates, t)
	}

	// An alias must never shadow another template's own title.
	for key, idx := range c.aliases {
		if owner, ok := c.titles[key]; ok && owner != idx {
			return nil, fmt.Errorf("%w: alias %q of %q shadows the title of %q",
				ErrInvalidTable, key, c.templates[idx].ID, c.templates[owner].ID)
		}
	}

	return c, nil
}

// Len returns the number of templates in the catalog.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Templates returns a copy of every template in declaration order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	for i := range c.templates {
		out[i] = c.templates[i].clone()
	}
	return out
}

// Get returns the template with the given id.
func (c *Catalog) Get(id string) (Template, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Template{}, false
	}
	return c.templates[idx].clone(), true
}
