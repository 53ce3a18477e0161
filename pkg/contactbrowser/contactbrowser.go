// Package contactbrowser drives a three-pane contact browser: a company
// list, a people column, and a detail pane. It tracks the current
// selection, derives the visible people column from it, filters both
// lists against a debounced search query, and discards stale fetch
// responses with generation counters.
package contactbrowser

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the selection state of the browser.
type State int

const (
	// StateIdle means nothing is selected.
	StateIdle State = iota
	// StateCompanySelected means a company is selected and its roster
	// drives the people column.
	StateCompanySelected
	// StatePersonSelected means a person is selected, optionally
	// reached through a company roster.
	StatePersonSelected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCompanySelected:
		return "company_selected"
	case StatePersonSelected:
		return "person_selected"
	default:
		return "unknown"
	}
}

// Mode is the detail pane mode.
type Mode string

const (
	ModeView   Mode = "view"
	ModeEdit   Mode = "edit"
	ModeCreate Mode = "create"
)

// Company is a row in the company list.
type Company struct {
	ID    string
	Name  string
	Email string
}

// Person is a row in the people column.
type Person struct {
	ID    string
	Name  string
	Email string
}

// Fetcher loads browser data from the backend.
type Fetcher interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	ListPeople(ctx context.Context) ([]Person, error)
	ListRoster(ctx context.Context, companyID string) ([]Person, error)
}

// Selection is a snapshot of the current selection.
type Selection struct {
	State State
	// CompanyID is set in StateCompanySelected.
	CompanyID string
	// PersonID is set in StatePersonSelected.
	PersonID string
	// CompanyContextID is set in StatePersonSelected when the person
	// was reached through a company roster. It survives moving between
	// people of the same roster.
	CompanyContextID string
	Mode             Mode
}

const defaultDebounce = 300 * time.Millisecond

// Config configures a Browser.
type Config struct {
	Fetcher Fetcher
	// Debounce is the quiet period on search input before the filter
	// is applied (default 300ms).
	Debounce time.Duration
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Browser holds the state of the contact browser. All methods are safe
// for concurrent use.
type Browser struct {
	fetcher  Fetcher
	debounce time.Duration
	logger   *zap.Logger

	mu           sync.Mutex
	companies    []Company
	people       []Person
	roster       []Person
	rosterLoaded bool

	state            State
	selectedCompany  string
	selectedPerson   string
	companyContext   string
	mode             Mode

	filter      string
	searchTimer *time.Timer
	searchGen   uint64

	loadGen   uint64
	rosterGen uint64
}

// New creates a Browser.
func New(cfg Config) *Browser {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Browser{
		fetcher:  cfg.Fetcher,
		debounce: debounce,
		logger:   log,
		mode:     ModeView,
	}
}

// Load fetches the company list and the global people list concurrently
// and installs both. A Load that was superseded by a newer one discards
// its results.
func (b *Browser) Load(ctx context.Context) error {
	b.mu.Lock()
	b.loadGen++
	gen := b.loadGen
	b.mu.Unlock()

	var (
		companies []Company
		people    []Person
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companies, err = b.fetcher.ListCompanies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		people, err = b.fetcher.ListPeople(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.loadGen {
		b.logger.Debug("discarding superseded load")
		return nil
	}
	b.companies = companies
	b.people = people
	return nil
}

// SelectCompany selects a company and fetches its roster. Selecting the
// company that is already active (directly or as a person's roster
// context) deselects it and returns the browser to idle.
func (b *Browser) SelectCompany(ctx context.Context, companyID string) error {
	b.mu.Lock()

	active := b.state == StateCompanySelected && b.selectedCompany == companyID ||
		b.state == StatePersonSelected && b.companyContext == companyID
	if active {
		b.resetLocked()
		b.mu.Unlock()
		return nil
	}

	b.state = StateCompanySelected
	b.selectedCompany = companyID
	b.selectedPerson = ""
	b.companyContext = ""
	b.mode = ModeView
	b.roster = nil
	b.rosterLoaded = false
	b.rosterGen++
	gen := b.rosterGen
	b.mu.Unlock()

	roster, err := b.fetcher.ListRoster(ctx, companyID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.rosterGen {
		b.logger.Debug("discarding superseded roster response",
			zap.String("company_id", companyID))
		return nil
	}
	b.roster = roster
	b.rosterLoaded = true
	return nil
}

// SelectPerson selects a person. Selecting the person that is already
// selected toggles the selection off, falling back to the roster's
// company when the person was reached through one. A person picked from
// a loaded roster keeps that company as context, and the context sticks
// when moving directly between people of the same roster.
func (b *Browser) SelectPerson(personID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StatePersonSelected && b.selectedPerson == personID {
		if b.companyContext != "" {
			b.state = StateCompanySelected
			b.selectedCompany = b.companyContext
			b.selectedPerson = ""
			b.companyContext = ""
			b.mode = ModeView
		} else {
			b.resetLocked()
		}
		return
	}

	companyCtx := ""
	switch b.state {
	case StateCompanySelected:
		// Context only carries over once the roster has landed; a
		// person picked while the fetch is in flight came from the
		// global list.
		if b.rosterLoaded {
			companyCtx = b.selectedCompany
		}
	case StatePersonSelected:
		companyCtx = b.companyContext
	}

	b.state = StatePersonSelected
	b.selectedPerson = personID
	b.selectedCompany = ""
	b.companyContext = companyCtx
	b.mode = ModeView
}

// SetMode switches the detail pane mode for the current selection.
func (b *Browser) SetMode(mode Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
}

// Selection returns a snapshot of the current selection.
func (b *Browser) Selection() Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Selection{
		State:            b.state,
		CompanyID:        b.selectedCompany,
		PersonID:         b.selectedPerson,
		CompanyContextID: b.companyContext,
		Mode:             b.mode,
	}
}

// CompanyDeleted records that a company was deleted. If it was part of
// the current selection the browser resets to idle and reloads.
func (b *Browser) CompanyDeleted(ctx context.Context, companyID string) error {
	b.mu.Lock()
	selected := b.selectedCompany == companyID || b.companyContext == companyID
	if selected {
		b.resetLocked()
	} else {
		b.companies = removeCompany(b.companies, companyID)
	}
	b.mu.Unlock()

	if selected {
		return b.Load(ctx)
	}
	return nil
}

// PersonDeleted records that a person was deleted. If it was the
// selected person the browser resets to idle and reloads.
func (b *Browser) PersonDeleted(ctx context.Context, personID string) error {
	b.mu.Lock()
	selected := b.state == StatePersonSelected && b.selectedPerson == personID
	if selected {
		b.resetLocked()
	} else {
		b.people = removePerson(b.people, personID)
		b.roster = removePerson(b.roster, personID)
	}
	b.mu.Unlock()

	if selected {
		return b.Load(ctx)
	}
	return nil
}

// resetLocked returns the browser to idle. Callers must hold the lock.
func (b *Browser) resetLocked() {
	b.state = StateIdle
	b.selectedCompany = ""
	b.selectedPerson = ""
	b.companyContext = ""
	b.mode = ModeView
	b.roster = nil
	b.rosterLoaded = false
	b.rosterGen++
}

func removeCompany(companies []Company, id string) []Company {
	out := companies[:0]
	for _, c := range companies {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func removePerson(people []Person, id string) []Person {
	out := people[:0]
	for _, p := range people {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
