package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/superprecos/go-compara-precos/models"
	"github.com/superprecos/go-compara-precos/parser"
)

// Search filters the catalog by case- and accent-insensitive substring match
// against the query. An empty query returns the whole catalog. The result is
// a fresh slice in source order; the input catalog is never mutated.
func Search(cat models.Catalog, query string) models.Catalog {
	q := parser.Normalize(query)
	out := make(models.Catalog, 0, len(cat))
	for _, row := range cat {
		if q == "" || strings.Contains(row.ProdutoNorm, q) {
			out = append(out, row)
		}
	}
	return out
}

// SortForDisplay orders rows by product then price, both ascending. The sort
// is stable, so equal keys keep their source order.
func SortForDisplay(rows models.Catalog) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Produto != rows[j].Produto {
			return rows[i].Produto < rows[j].Produto
		}
		return rows[i].Valor.LessThan(rows[j].Valor)
	})
}

// BestPrices returns the lowest offered price per normalized product name,
// so renderers can badge the cheapest offering(s).
func BestPrices(cat models.Catalog) map[string]decimal.Decimal {
	best := make(map[string]decimal.Decimal, len(cat))
	for _, row := range cat {
		current, ok := best[row.ProdutoNorm]
		if !ok || row.Valor.LessThan(current) {
			best[row.ProdutoNorm] = row.Valor
		}
	}
	return best
}
