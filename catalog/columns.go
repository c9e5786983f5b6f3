package catalog

import "strings"

// Accepted header aliases per canonical field, in priority order. Feeds are
// hand-maintained spreadsheets, so headers drift; adding an alias here is all
// it takes to accept a new variant.
var columnAliases = []struct {
	field   string
	aliases []string
}{
	{"produto", []string{"produto", "item", "descrição", "descricao", "nome"}},
	{"mercado", []string{"mercado", "supermercado", "fornecedor", "loja"}},
	{"valor", []string{"valor unitário", "valor unitario", "preço", "preco", "valor", "price"}},
}

type columnIndexes struct {
	produto int
	mercado int
	valor   int
}

// resolveColumns maps the header row onto the canonical fields, matching
// aliases case-insensitively and independent of column order. It returns the
// list of fields that found no match.
func resolveColumns(header []string) (columnIndexes, []string) {
	lookup := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := lookup[key]; !exists {
			lookup[key] = i
		}
	}

	idx := columnIndexes{produto: -1, mercado: -1, valor: -1}
	var missing []string
	for _, group := range columnAliases {
		found := -1
		for _, alias := range group.aliases {
			if i, ok := lookup[alias]; ok {
				found = i
				break
			}
		}
		if found < 0 {
			missing = append(missing, group.field)
			continue
		}
		switch group.field {
		case "produto":
			idx.produto = found
		case "mercado":
			idx.mercado = found
		case "valor":
			idx.valor = found
		}
	}
	return idx, missing
}
