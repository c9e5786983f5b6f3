// Package catalog turns the raw spreadsheet feed into a clean, queryable
// record set and filters it for display.
package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"log/slog"
	"strings"

	"github.com/superprecos/go-compara-precos/models"
	"github.com/superprecos/go-compara-precos/parser"
)

// Load parses the feed bytes as UTF-8 CSV with a header row and maps them
// onto the canonical {produto, mercado, valor} schema. Rows missing any
// field or carrying an unparseable price are dropped individually; the load
// as a whole only fails when the feed itself is unusable. An empty catalog
// is a valid result.
func Load(raw []byte) (models.Catalog, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, ErrMalformedFeed{Err: err}
	}
	if len(records) == 0 {
		return nil, ErrMalformedFeed{Err: errors.New("feed has no header row")}
	}

	header := records[0]
	if len(header) > 0 {
		// Spreadsheet exports often prepend a UTF-8 BOM to the first cell.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	cols, missing := resolveColumns(header)
	if len(missing) > 0 {
		return nil, ErrMissingColumns{Missing: missing}
	}

	rows := make(models.Catalog, 0, len(records)-1)
	dropped := map[string]int{}

	for _, record := range records[1:] {
		if len(record) <= cols.produto || len(record) <= cols.mercado || len(record) <= cols.valor {
			dropped["short_row"]++
			continue
		}

		produto := strings.TrimSpace(record[cols.produto])
		mercado := strings.TrimSpace(record[cols.mercado])
		if produto == "" || mercado == "" {
			dropped["missing_field"]++
			continue
		}

		valor, err := parser.ParseMoney(record[cols.valor])
		if err != nil {
			dropped["invalid_price"]++
			continue
		}
		if valor.IsNegative() {
			dropped["negative_price"]++
			continue
		}

		rows = append(rows, models.CatalogRow{
			Produto:     produto,
			Mercado:     mercado,
			Valor:       valor,
			ProdutoNorm: parser.Normalize(produto),
		})
	}

	if len(dropped) > 0 {
		slog.Debug("feed rows dropped", slog.Any("reasons", dropped))
	}
	return rows, nil
}
