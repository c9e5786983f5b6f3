// Package session scopes mutable user state to an explicit object owned by
// the caller, so independent sessions never share a shopping list.
package session

import "github.com/superprecos/go-compara-precos/selection"

// Tab identifies which view the session is on.
type Tab int

const (
	TabSearch Tab = iota
	TabList
)

func (t Tab) String() string {
	switch t {
	case TabList:
		return "lista"
	default:
		return "busca"
	}
}

// Session holds one user's shopping list and active tab. It lives for the
// session only; nothing is persisted across restarts.
type Session struct {
	Selection *selection.Set
	ActiveTab Tab
}

// New returns a session with an empty selection on the search tab.
func New() *Session {
	return &Session{Selection: selection.NewSet()}
}
