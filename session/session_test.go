package session

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/superprecos/go-compara-precos/models"
)

func TestSessionsAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.Selection.Toggle(models.CatalogRow{Produto: "Arroz", Mercado: "Mercado A", Valor: decimal.New(10, 0)}, true)
	a.ActiveTab = TabList

	if b.Selection.Len() != 0 {
		t.Fatalf("second session sees first session's list")
	}
	if b.ActiveTab != TabSearch {
		t.Fatalf("second session tab=%v, want search", b.ActiveTab)
	}
}

func TestTabString(t *testing.T) {
	if TabSearch.String() != "busca" || TabList.String() != "lista" {
		t.Fatalf("tab labels: %q, %q", TabSearch.String(), TabList.String())
	}
}
