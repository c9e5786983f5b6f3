package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/superprecos/go-compara-precos/models"
	"github.com/superprecos/go-compara-precos/selection"
)

func buildList(t *testing.T) (*selection.Set, []selection.StoreGroup, decimal.Decimal) {
	t.Helper()

	set := selection.NewSet()
	set.Toggle(models.CatalogRow{Produto: "Arroz", Mercado: "Mercado A", Valor: decimal.RequireFromString("25.90")}, true)
	set.Toggle(models.CatalogRow{Produto: "Feijão", Mercado: "Mercado B", Valor: decimal.RequireFromString("8.00")}, true)
	set.Increment(models.SelectionKey{Produto: "Arroz", Mercado: "Mercado A"})

	return set, set.GroupByStore(), set.GrandTotal()
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lista.csv")

	_, groups, total := buildList(t)

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write(groups, total); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	// header + 2 entries + total row
	if len(records) != 4 {
		t.Fatalf("records=%d, want 4: %v", len(records), records)
	}
	if records[0][0] != "mercado" || records[0][1] != "produto" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][2] != "2" || records[1][4] != "51.80" {
		t.Fatalf("unexpected first entry: %v", records[1])
	}
	if records[3][0] != "total" || records[3][4] != "59.80" {
		t.Fatalf("unexpected total row: %v", records[3])
	}
}

func TestJSONWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lista.json")

	_, groups, total := buildList(t)

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	if err := writer.Write(groups, total); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}

	var doc struct {
		Mercados []struct {
			Mercado  string `json:"mercado"`
			Subtotal string `json:"subtotal"`
			Itens    []struct {
				Produto    string `json:"produto"`
				Quantidade int    `json:"quantidade"`
			} `json:"itens"`
		} `json:"mercados"`
		Total string `json:"total"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("invalid json document: %v", err)
	}
	if doc.Total != "59.80" {
		t.Fatalf("total=%q, want 59.80", doc.Total)
	}
	if len(doc.Mercados) != 2 || doc.Mercados[0].Mercado != "Mercado A" {
		t.Fatalf("unexpected groups: %+v", doc.Mercados)
	}
	if doc.Mercados[0].Itens[0].Quantidade != 2 {
		t.Fatalf("quantidade=%d, want 2", doc.Mercados[0].Itens[0].Quantidade)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "lista.csv")
	jsonPath := filepath.Join(dir, "lista.json")

	_, groups, total := buildList(t)

	writer, err := NewDualWriter(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}
	if err := writer.Write(groups, total); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}

	if info, err := os.Stat(csvPath); err != nil || info.Size() == 0 {
		t.Fatalf("csv file missing or empty")
	}
	if info, err := os.Stat(jsonPath); err != nil || info.Size() == 0 {
		t.Fatalf("json file missing or empty")
	}
}
