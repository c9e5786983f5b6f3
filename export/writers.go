// Package export writes shopping-list snapshots to disk in CSV or JSON.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/superprecos/go-compara-precos/selection"
)

// ListWriter defines the interface for shopping-list output.
type ListWriter interface {
	Write(groups []selection.StoreGroup, grandTotal decimal.Decimal) error
	Close() error
	Validate() error
}

// CSVWriter writes the list to CSV, one row per entry plus a total row.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	header := []string{"mercado", "produto", "quantidade", "valor_unitario", "subtotal"}
	if err := writer.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends the grouped list and the grand total.
func (cw *CSVWriter) Write(groups []selection.StoreGroup, grandTotal decimal.Decimal) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, group := range groups {
		for _, entry := range group.Entries {
			record := []string{
				group.Mercado,
				entry.Key.Produto,
				strconv.Itoa(entry.Quantity),
				entry.UnitPrice.StringFixed(2),
				entry.Subtotal().StringFixed(2),
			}
			if err := cw.writer.Write(record); err != nil {
				return fmt.Errorf("write csv record: %w", err)
			}
		}
	}
	if err := cw.writer.Write([]string{"total", "", "", "", grandTotal.StringFixed(2)}); err != nil {
		return fmt.Errorf("write csv total: %w", err)
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content besides the header.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

type listDocument struct {
	Mercados []storeDocument `json:"mercados"`
	Total    string          `json:"total"`
}

type storeDocument struct {
	Mercado  string      `json:"mercado"`
	Itens    []itemEntry `json:"itens"`
	Subtotal string      `json:"subtotal"`
}

type itemEntry struct {
	Produto       string `json:"produto"`
	Quantidade    int    `json:"quantidade"`
	ValorUnitario string `json:"valor_unitario"`
	Subtotal      string `json:"subtotal"`
}

// JSONWriter writes the list as a single JSON document.
type JSONWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	return &JSONWriter{
		file:    f,
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}, nil
}

// Write encodes the grouped list with subtotals and the grand total.
func (jw *JSONWriter) Write(groups []selection.StoreGroup, grandTotal decimal.Decimal) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	doc := listDocument{
		Mercados: make([]storeDocument, 0, len(groups)),
		Total:    grandTotal.StringFixed(2),
	}
	for _, group := range groups {
		store := storeDocument{
			Mercado:  group.Mercado,
			Itens:    make([]itemEntry, 0, len(group.Entries)),
			Subtotal: group.Subtotal.StringFixed(2),
		}
		for _, entry := range group.Entries {
			store.Itens = append(store.Itens, itemEntry{
				Produto:       entry.Key.Produto,
				Quantidade:    entry.Quantity,
				ValorUnitario: entry.UnitPrice.StringFixed(2),
				Subtotal:      entry.Subtotal().StringFixed(2),
			})
		}
		doc.Mercados = append(doc.Mercados, store)
	}

	if err := jw.encoder.Encode(doc); err != nil {
		return fmt.Errorf("encode json document: %w", err)
	}
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
