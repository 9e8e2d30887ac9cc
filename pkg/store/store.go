// Package store holds the authoritative in-memory account state and the
// pieces derived from it: the stage-grouped board, the drag gesture machine,
// and the sync controller that propagates accepted mutations to a
// persistence adapter without blocking the caller.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/alignment-automations/funnel/pkg/types"
)

// Observer is notified after a mutation has been applied and is observable.
// Notifications run on the mutating goroutine; implementations must not
// block (the sync controller hands the work to its own goroutines).
type Observer interface {
	AccountUpserted(a types.Account, p *types.AccountPatch)
	AccountDeleted(id string)
	SelectionChanged(id string)
}

// Store is the single source of truth for accounts during a session. All
// mutations run to completion atomically under one lock before the next
// begins; no operation observes a partially-applied other operation.
type Store struct {
	mu        sync.Mutex
	stages    []string
	accounts  map[string]types.Account
	selected  string
	observers []Observer
	now       func() time.Time
}

// Option configures a Store at construction.
type Option func(*Store)

// WithObserver registers an observer for accepted mutations.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a Store over the given ordered stage list. An empty list
// falls back to the default pipeline.
func New(stages []string, opts ...Option) *Store {
	if len(stages) == 0 {
		stages = types.DefaultStages
	}
	s := &Store{
		stages:   append([]string(nil), stages...),
		accounts: make(map[string]types.Account),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with accounts from the backing store.
// Called once at session start; the stored state supersedes anything held
// in memory and no sync notifications are emitted.
func (s *Store) Load(accounts []types.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts = make(map[string]types.Account, len(accounts))
	for _, a := range accounts {
		s.accounts[a.ID] = a.Clone()
	}
	if _, ok := s.accounts[s.selected]; !ok {
		s.selected = ""
	}
}

// Stages returns a copy of the configured stage list.
func (s *Store) Stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.stages...)
}

// Len returns the number of accounts held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts)
}

// Get returns the account with the given ID.
func (s *Store) Get(id string) (types.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return types.Account{}, types.ErrNotFound
	}
	return a.Clone(), nil
}

// All returns every account ordered by updated_at descending, most recently
// touched first. Ties break on created_at, then ID, so the order is stable.
func (s *Store) All() []types.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allLocked()
}

func (s *Store) allLocked() []types.Account {
	out := make([]types.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Search returns accounts matching the stage filter and free-text query,
// in display order. An empty stage means all stages; the query matches
// case-insensitively against name, email, and phone.
func (s *Store) Search(query, stage string) []types.Account {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []types.Account
	for _, a := range s.All() {
		if stage != "" && a.Status != stage {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(a.Name), q) &&
			!strings.Contains(strings.ToLower(a.Email), q) &&
			!strings.Contains(strings.ToLower(a.Phone), q) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Create validates the draft, seeds both checklists from the templates, and
// inserts the account as the most recently updated and the current
// selection. The draft status defaults to the first configured stage when
// absent or unrecognized.
func (s *Store) Create(d types.Draft) (types.Account, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return types.Account{}, types.ErrNameEmpty
	}

	s.mu.Lock()
	status := d.Status
	if !types.StageKnown(s.stages, status) {
		status = s.stages[0]
	}
	now := s.now()
	a := types.Account{
		ID:         types.NewID(),
		Name:       name,
		Status:     status,
		Phone:      strings.TrimSpace(d.Phone),
		Email:      strings.TrimSpace(d.Email),
		Website:    strings.TrimSpace(d.Website),
		Notes:      strings.TrimSpace(d.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
		Tasks:      types.NewChecklist(types.DefaultTaskTemplate),
		Onboarding: types.NewChecklist(types.DefaultOnboardingTemplate),
	}
	s.accounts[a.ID] = a
	s.selected = a.ID
	s.mu.Unlock()

	s.notifyUpsert(a, nil)
	s.notifySelection(a.ID)
	return a.Clone(), nil
}

// Patch shallow-merges the provided fields over the existing account and
// re-stamps updated_at. ID and created_at can never be overwritten. A name
// that trims to empty rejects the whole patch; no partial mutation occurs.
func (s *Store) Patch(id string, p types.AccountPatch) (types.Account, error) {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return types.Account{}, types.ErrNameEmpty
		}
		p.Name = &trimmed
	}

	s.mu.Lock()
	prev, ok := s.accounts[id]
	if !ok {
		s.mu.Unlock()
		return types.Account{}, types.ErrNotFound
	}
	a := p.Apply(prev)
	a.ID = prev.ID
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = s.stamp(prev.UpdatedAt)
	s.accounts[id] = a
	s.mu.Unlock()

	s.notifyUpsert(a, &p)
	return a.Clone(), nil
}

// Move transitions the account to the given stage. A move onto the current
// stage is still a valid write and advances updated_at; drop gestures fire
// on same-stage drops and must not be treated as errors.
func (s *Store) Move(id, stage string) (types.Account, error) {
	return s.Patch(id, types.AccountPatch{Status: &stage})
}

// Delete removes the account and reports the deletion to observers.
// Deleting an absent ID is a no-op. When the deleted account was selected,
// selection falls to the most recently updated survivor.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	if _, ok := s.accounts[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.accounts, id)

	selectionMoved := false
	if s.selected == id {
		s.selected = ""
		if rest := s.allLocked(); len(rest) > 0 {
			s.selected = rest[0].ID
		}
		selectionMoved = true
	}
	selected := s.selected
	s.mu.Unlock()

	s.notifyDelete(id)
	if selectionMoved {
		s.notifySelection(selected)
	}
}

// Select marks the account as the current selection.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	if _, ok := s.accounts[id]; !ok {
		s.mu.Unlock()
		return types.ErrNotFound
	}
	s.selected = id
	s.mu.Unlock()

	s.notifySelection(id)
	return nil
}

// Selected returns the currently selected account, if any.
func (s *Store) Selected() (types.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[s.selected]
	if !ok {
		return types.Account{}, false
	}
	return a.Clone(), true
}

// SelectedID returns the ID of the current selection, or "".
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// stamp returns the new updated_at value. The timestamp never moves
// backwards, even if the wall clock does, so repeated writes always
// advance recency ordering.
func (s *Store) stamp(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

func (s *Store) notifyUpsert(a types.Account, p *types.AccountPatch) {
	for _, o := range s.observers {
		o.AccountUpserted(a.Clone(), p)
	}
}

func (s *Store) notifyDelete(id string) {
	for _, o := range s.observers {
		o.AccountDeleted(id)
	}
}

func (s *Store) notifySelection(id string) {
	for _, o := range s.observers {
		o.SelectionChanged(id)
	}
}
