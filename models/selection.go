package models

import "github.com/shopspring/decimal"

// SelectionKey identifies a selection entry. Two rows with the same product
// and store collapse to the same entry; comparison is structural, so names
// containing delimiter characters cannot collide.
type SelectionKey struct {
	Produto string `json:"produto"`
	Mercado string `json:"mercado"`
}

// SelectionKeyFor derives the key for a catalog row.
func SelectionKeyFor(row CatalogRow) SelectionKey {
	return SelectionKey{Produto: row.Produto, Mercado: row.Mercado}
}

// SelectionEntry is one chosen offering. The unit price is snapshotted when
// the row is first selected and is not re-read from later catalog refreshes.
// Quantity never drops below 1; removal is the only way out of the set.
type SelectionEntry struct {
	Key       SelectionKey    `json:"key"`
	UnitPrice decimal.Decimal `json:"valor_unitario"`
	Quantity  int             `json:"quantidade"`
}

// Subtotal returns unit price times quantity.
func (e SelectionEntry) Subtotal() decimal.Decimal {
	return e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity)))
}
