package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"juridico/internal/catalog"
)

const threeDocTable = `
templates:
  - id: procuracao-simples
    title: Procuração Simples
    documents:
      - RG e CPF
      - Comprovante de endereço
      - Minuta da procuração
    keywords: [procuracao]
`

func threeDocCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(strings.NewReader(threeDocTable))
	require.NoError(t, err)
	return c
}

func uploaded(itemID string, docs ...string) catalog.UploadState {
	state := catalog.UploadState{}
	for _, d := range docs {
		state[catalog.UploadKey{ItemID: itemID, Document: d}] = catalog.UploadStatus{
			Uploaded: true,
			URL:      "https://storage.example/" + d,
		}
	}
	return state
}

func TestRequiredDocuments_TemplateMatch(t *testing.T) {
	c := threeDocCatalog(t)
	docs := c.RequiredDocuments(catalog.Item{ID: "1", Title: "procuração simples"})
	assert.Equal(t, []string{"RG e CPF", "Comprovante de endereço", "Minuta da procuração"}, docs)
}

func TestRequiredDocuments_DefaultList(t *testing.T) {
	docs := catalog.Default().RequiredDocuments(catalog.Item{Title: "totally unknown gibberish", Features: []string{}})
	assert.Equal(t, []string{
		"RG e CPF",
		"Comprovante de endereço atualizado",
		"Procuração (se representado)",
		"Documentos específicos do caso",
	}, docs)
}

func TestRequiredDocuments_FeaturesVerbatim(t *testing.T) {
	docs := catalog.Default().RequiredDocuments(catalog.Item{Title: "totally unknown gibberish", Features: []string{"X", "Y"}})
	assert.Equal(t, []string{"X", "Y"}, docs)
}

func TestRequiredDocuments_EmptyTitle(t *testing.T) {
	docs := catalog.Default().RequiredDocuments(catalog.Item{})
	assert.Equal(t, catalog.DefaultDocuments, docs)
}

func TestRequiredDocuments_TemplateWinsOverFeatures(t *testing.T) {
	docs := catalog.Default().RequiredDocuments(catalog.Item{
		Title:    "Consulta Trabalhista Inicial",
		Features: []string{"Atendimento online"},
	})
	require.Len(t, docs, 7)
	assert.Equal(t, "CTPS (Carteira de Trabalho)", docs[0])
}

func TestRequiredDocuments_DefaultIsNotShared(t *testing.T) {
	docs := catalog.Default().RequiredDocuments(catalog.Item{})
	docs[0] = "tampered"
	assert.Equal(t, "RG e CPF", catalog.Default().RequiredDocuments(catalog.Item{})[0])
}

func TestIsItemComplete_ProgressiveUploads(t *testing.T) {
	c := threeDocCatalog(t)
	item := catalog.Item{ID: "item-1", Title: "Procuração Simples"}
	docs := c.RequiredDocuments(item)
	require.Len(t, docs, 3)

	for n := 0; n < len(docs); n++ {
		assert.False(t, c.IsItemComplete(item, uploaded(item.ID, docs[:n]...)), "%d of 3 uploaded", n)
	}
	assert.True(t, c.IsItemComplete(item, uploaded(item.ID, docs...)))
}

func TestIsItemComplete_IgnoresNotUploadedEntries(t *testing.T) {
	c := threeDocCatalog(t)
	item := catalog.Item{ID: "item-1", Title: "Procuração Simples"}
	state := uploaded(item.ID, "RG e CPF", "Comprovante de endereço")
	state[catalog.UploadKey{ItemID: item.ID, Document: "Minuta da procuração"}] = catalog.UploadStatus{}

	assert.False(t, c.IsItemComplete(item, state))
}

func TestIsItemComplete_UploadsAreScopedByItem(t *testing.T) {
	c := threeDocCatalog(t)
	item := catalog.Item{ID: "item-1", Title: "Procuração Simples"}
	other := uploaded("item-2", c.RequiredDocuments(item)...)

	assert.False(t, c.IsItemComplete(item, other))
}

func TestIsOrderComplete(t *testing.T) {
	c := threeDocCatalog(t)
	a := catalog.Item{ID: "a", Title: "Procuração Simples"}
	b := catalog.Item{ID: "b", Title: "Serviço avulso", Features: []string{"Contrato"}}

	state := uploaded("a", c.RequiredDocuments(a)...)
	assert.False(t, c.IsOrderComplete([]catalog.Item{a, b}, state))

	state[catalog.UploadKey{ItemID: "b", Document: "Contrato"}] = catalog.UploadStatus{Uploaded: true}
	assert.True(t, c.IsOrderComplete([]catalog.Item{a, b}, state))

	assert.False(t, c.IsOrderComplete(nil, state))
}

func TestProgress(t *testing.T) {
	c := threeDocCatalog(t)
	item1 := catalog.Item{ID: "1", Title: "Procuração Simples"}
	item2 := catalog.Item{ID: "2", Title: "Procuração Simples"}
	state := uploaded("1", c.RequiredDocuments(item1)...)

	p := c.Progress([]catalog.Item{item1, item2}, state)
	assert.Equal(t, catalog.Progress{CompletedItems: 1, TotalItems: 2, Percent: 50.0}, p)
}

func TestProgress_EmptyOrder(t *testing.T) {
	p := catalog.Default().Progress(nil, nil)
	assert.Equal(t, catalog.Progress{}, p)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Consulta Trabalhistá Inicial!!", "consulta trabalhista inicial"},
		{"Emissão de Parecer Jurídico (2ª via)", "emissao de parecer juridico 2a via"},
		{"Inclusão de Novo Sócio / Eixo Diretivo", "inclusao de novo socio eixo diretivo"},
		{"  AÇÃO de   Indenização ", "acao de indenizacao"},
		{"", ""},
		{"¿?!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, catalog.Normalize(tt.in), tt.in)
	}
}

func TestRequirements_Source(t *testing.T) {
	c := catalog.Default()

	_, src := c.Requirements(catalog.Item{Title: "Consulta Trabalhista Inicial"})
	assert.Equal(t, catalog.SourceTemplate, src)

	docs, src := c.Requirements(catalog.Item{Title: "gibberish", Features: []string{"Contrato"}})
	assert.Equal(t, catalog.SourceFeatures, src)
	assert.Equal(t, []string{"Contrato"}, docs)

	_, src = c.Requirements(catalog.Item{Title: "gibberish"})
	assert.Equal(t, catalog.SourceDefault, src)
}
