package contactbrowser

import (
	"strings"
	"time"
)

// matchesQuery reports whether a case-insensitive substring of name or
// email matches the query. An empty query matches everything.
func matchesQuery(name, email, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(name), q) {
		return true
	}
	return email != "" && strings.Contains(strings.ToLower(email), q)
}

// SetSearch updates the search query after the debounce quiet period.
// Rapid successive calls cancel each other so only the final query is
// applied.
func (b *Browser) SetSearch(query string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.searchTimer != nil {
		b.searchTimer.Stop()
	}
	b.searchGen++
	gen := b.searchGen

	b.searchTimer = time.AfterFunc(b.debounce, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// A stopped timer can still have fired; the generation check
		// keeps a superseded query from clobbering a newer one.
		if gen != b.searchGen {
			return
		}
		b.filter = query
	})
}

// ClearSearch drops the query immediately, bypassing the debounce.
func (b *Browser) ClearSearch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.searchTimer != nil {
		b.searchTimer.Stop()
	}
	b.searchGen++
	b.filter = ""
}

// Filter returns the currently applied search query.
func (b *Browser) Filter() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// VisibleCompanies returns the company list filtered by the applied
// search query.
func (b *Browser) VisibleCompanies() []Company {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Company, 0, len(b.companies))
	for _, c := range b.companies {
		if matchesQuery(c.Name, c.Email, b.filter) {
			out = append(out, c)
		}
	}
	return out
}

// VisiblePeople returns the people column: the active company's roster
// when a company is selected or the selected person carries a company
// context, otherwise the global people list. Either source is filtered
// by the applied search query.
func (b *Browser) VisiblePeople() []Person {
	b.mu.Lock()
	defer b.mu.Unlock()

	source := b.people
	if b.state == StateCompanySelected ||
		(b.state == StatePersonSelected && b.companyContext != "") {
		source = b.roster
	}

	out := make([]Person, 0, len(source))
	for _, p := range source {
		if matchesQuery(p.Name, p.Email, b.filter) {
			out = append(out, p)
		}
	}
	return out
}
