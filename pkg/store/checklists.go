package store

import (
	"strings"

	"github.com/alignment-automations/funnel/pkg/types"
)

// Checklist mutations delegate to the pure checklist engine in pkg/types
// and apply the returned list back onto the owning account, re-stamping
// updated_at. A toggle or remove against an unknown item ID leaves the
// account untouched and reports ErrNotFound; it is never fatal.

// AddTask appends a task to the account's general task list.
func (s *Store) AddTask(id, name string) (types.Account, error) {
	if strings.TrimSpace(name) == "" {
		return types.Account{}, types.ErrNameEmpty
	}
	return s.patchChecklist(id, taskList, func(list types.Checklist) types.Checklist {
		return types.AddItem(list, name)
	})
}

// ToggleTask flips the done flag of one task.
func (s *Store) ToggleTask(id, taskID string) (types.Account, error) {
	return s.patchChecklist(id, taskList, func(list types.Checklist) types.Checklist {
		return types.ToggleItem(list, taskID)
	})
}

// RemoveTask deletes one task from the list.
func (s *Store) RemoveTask(id, taskID string) (types.Account, error) {
	return s.patchChecklist(id, taskList, func(list types.Checklist) types.Checklist {
		return types.RemoveItem(list, taskID)
	})
}

// AddOnboardingItem appends an item to the onboarding checklist.
func (s *Store) AddOnboardingItem(id, name string) (types.Account, error) {
	if strings.TrimSpace(name) == "" {
		return types.Account{}, types.ErrNameEmpty
	}
	return s.patchChecklist(id, onboardingList, func(list types.Checklist) types.Checklist {
		return types.AddItem(list, name)
	})
}

// ToggleOnboardingItem flips the done flag of one onboarding item.
func (s *Store) ToggleOnboardingItem(id, itemID string) (types.Account, error) {
	return s.patchChecklist(id, onboardingList, func(list types.Checklist) types.Checklist {
		return types.ToggleItem(list, itemID)
	})
}

// RemoveOnboardingItem deletes one item from the onboarding checklist.
func (s *Store) RemoveOnboardingItem(id, itemID string) (types.Account, error) {
	return s.patchChecklist(id, onboardingList, func(list types.Checklist) types.Checklist {
		return types.RemoveItem(list, itemID)
	})
}

type checklistKind int

const (
	taskList checklistKind = iota
	onboardingList
)

// patchChecklist runs the engine operation against the selected checklist
// and writes the result back under a single lock acquisition, so two
// concurrent checklist mutations on one account cannot read the same list
// and overwrite each other. An operation that returns the list unchanged
// signals a missed item ID; nothing is written.
func (s *Store) patchChecklist(id string, kind checklistKind, op func(types.Checklist) types.Checklist) (types.Account, error) {
	s.mu.Lock()
	prev, ok := s.accounts[id]
	if !ok {
		s.mu.Unlock()
		return types.Account{}, types.ErrNotFound
	}

	var cur types.Checklist
	if kind == taskList {
		cur = prev.Tasks
	} else {
		cur = prev.Onboarding
	}

	next := op(cur)
	if sameItems(cur, next) {
		a := prev.Clone()
		s.mu.Unlock()
		return a, types.ErrNotFound
	}

	p := types.AccountPatch{}
	if kind == taskList {
		p.Tasks = &next
	} else {
		p.Onboarding = &next
	}

	a := p.Apply(prev)
	a.UpdatedAt = s.stamp(prev.UpdatedAt)
	s.accounts[id] = a
	s.mu.Unlock()

	s.notifyUpsert(a, &p)
	return a.Clone(), nil
}

// sameItems reports whether the engine returned the input list unchanged,
// which is how no-op toggles and removes are detected.
func sameItems(a, b types.Checklist) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
