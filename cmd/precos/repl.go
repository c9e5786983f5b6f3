package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/superprecos/go-compara-precos/cache"
	"github.com/superprecos/go-compara-precos/catalog"
	"github.com/superprecos/go-compara-precos/export"
	"github.com/superprecos/go-compara-precos/models"
	"github.com/superprecos/go-compara-precos/parser"
	"github.com/superprecos/go-compara-precos/session"
)

const replHelp = `Comandos:
  buscar <termo>     pesquisa produtos (vazio lista tudo)
  add <n>            adiciona o resultado n à lista
  rm <n>             remove o item n da lista
  + <n> / - <n>      ajusta a quantidade do item n
  lista              mostra a lista agrupada por mercado
  total              mostra o total geral
  salvar <arquivo>   exporta a lista (.csv, .json ou ambos sem extensão)
  atualizar          força nova leitura da planilha
  ajuda              mostra esta mensagem
  sair               encerra`

// runREPL drives the search and shopping-list flows over stdin. All state
// lives in the session object, so each run starts clean.
func runREPL(ctx context.Context, service *cache.Service) int {
	sess := session.New()
	var results models.Catalog

	fmt.Println("Super Preços — compare preços entre supermercados e economize")
	fmt.Println(replHelp)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s]> ", sess.ActiveTab)
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		command, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch command {
		case "":
			continue
		case "buscar", "b":
			snapshot, err := service.Catalog(ctx)
			if err != nil {
				slog.Error("loading catalog", slog.Any("error", err))
				fmt.Println("Erro ao carregar dados da planilha. Tente novamente mais tarde.")
				continue
			}
			sess.ActiveTab = session.TabSearch
			results = catalog.Search(snapshot, arg)
			catalog.SortForDisplay(results)
			printResults(results, catalog.BestPrices(snapshot), sess)
		case "add":
			row, ok := pickRow(results, arg)
			if !ok {
				fmt.Println("Número inválido. Use o número de um resultado da busca.")
				continue
			}
			sess.Selection.Toggle(row, true)
			fmt.Printf("Adicionado: %s (%s)\n", row.Produto, row.Mercado)
		case "rm":
			key, ok := pickEntry(sess, arg)
			if !ok {
				fmt.Println("Número inválido. Use o número de um item da lista.")
				continue
			}
			sess.Selection.Remove(key)
			fmt.Println("Item removido.")
		case "+":
			if key, ok := pickEntry(sess, arg); ok {
				sess.Selection.Increment(key)
			}
			printList(sess)
		case "-":
			if key, ok := pickEntry(sess, arg); ok {
				sess.Selection.Decrement(key)
			}
			printList(sess)
		case "lista", "l":
			sess.ActiveTab = session.TabList
			printList(sess)
		case "total":
			fmt.Printf("Total geral: %s\n", parser.FormatBRL(sess.Selection.GrandTotal()))
		case "salvar":
			if arg == "" {
				fmt.Println("Informe o arquivo de destino, ex.: salvar lista.csv")
				continue
			}
			if err := saveList(sess, arg); err != nil {
				slog.Error("exporting list", slog.Any("error", err))
				fmt.Println("Erro ao salvar a lista.")
				continue
			}
			fmt.Printf("Lista salva em %s\n", arg)
		case "atualizar":
			service.Invalidate()
			fmt.Println("Cache limpo; a próxima busca lerá a planilha novamente.")
		case "ajuda", "help":
			fmt.Println(replHelp)
		case "sair", "quit", "q":
			return 0
		default:
			fmt.Printf("Comando desconhecido: %q (digite ajuda)\n", command)
		}
	}
	return 0
}

func pickRow(results models.Catalog, arg string) (models.CatalogRow, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(results) {
		return models.CatalogRow{}, false
	}
	return results[n-1], true
}

// pickEntry resolves a list position as printed by printList, i.e. in
// grouped display order.
func pickEntry(sess *session.Session, arg string) (models.SelectionKey, bool) {
	var keys []models.SelectionKey
	for _, group := range sess.Selection.GroupByStore() {
		for _, entry := range group.Entries {
			keys = append(keys, entry.Key)
		}
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(keys) {
		return models.SelectionKey{}, false
	}
	return keys[n-1], true
}

func printResults(results models.Catalog, best map[string]decimal.Decimal, sess *session.Session) {
	if len(results) == 0 {
		fmt.Println("Nenhum produto encontrado. Tente buscar por outro termo.")
		return
	}
	fmt.Printf("Melhores Preços (%d produtos)\n", len(results))
	for i, row := range results {
		badge := ""
		if price, ok := best[row.ProdutoNorm]; ok && row.Valor.Equal(price) {
			badge = "  * melhor preço"
		}
		marker := " "
		if sess.Selection.Contains(models.SelectionKeyFor(row)) {
			marker = "+"
		}
		fmt.Printf("%3d %s %-40s  %-20s  %10s%s\n", i+1, marker, row.Produto, row.Mercado, parser.FormatBRL(row.Valor), badge)
	}
}

func printList(sess *session.Session) {
	groups := sess.Selection.GroupByStore()
	if len(groups) == 0 {
		fmt.Println("Lista vazia. Use buscar e add para montar sua lista.")
		return
	}
	i := 0
	for _, group := range groups {
		fmt.Printf("%s (subtotal %s)\n", group.Mercado, parser.FormatBRL(group.Subtotal))
		for _, entry := range group.Entries {
			i++
			fmt.Printf("%3d  %dx %-40s  %10s\n", i, entry.Quantity, entry.Key.Produto, parser.FormatBRL(entry.Subtotal()))
		}
	}
	fmt.Printf("Total geral: %s\n", parser.FormatBRL(sess.Selection.GrandTotal()))
}

func saveList(sess *session.Session, path string) error {
	var (
		writer export.ListWriter
		err    error
	)
	switch {
	case strings.HasSuffix(path, ".csv"):
		writer, err = export.NewCSVWriter(path)
	case strings.HasSuffix(path, ".json"):
		writer, err = export.NewJSONWriter(path)
	default:
		writer, err = export.NewDualWriter(path+".csv", path+".json")
	}
	if err != nil {
		return err
	}

	if err := writer.Write(sess.Selection.GroupByStore(), sess.Selection.GrandTotal()); err != nil {
		writer.Close()
		return err
	}
	// Validate stats the open descriptor, so it must run before Close.
	if err := writer.Validate(); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
