// Package models defines data structures shared across the price comparator.
package models

import "github.com/shopspring/decimal"

// CatalogRow is one product offering from the feed after cleaning.
type CatalogRow struct {
	Produto     string          `csv:"produto" json:"produto"`
	Mercado     string          `csv:"mercado" json:"mercado"`
	Valor       decimal.Decimal `csv:"valor" json:"valor"`
	ProdutoNorm string          `csv:"-" json:"-"`
}

// Catalog is an ordered snapshot of offerings. Duplicate (product, store)
// pairs are legal; rows keep feed order. Catalogs are replaced wholesale on
// refresh, never merged.
type Catalog []CatalogRow
