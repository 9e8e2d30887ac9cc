package types

import (
	"math"
	"strings"
)

// ChecklistItem is one named boolean entry in a checklist. Item IDs are
// unique within their own checklist; no global uniqueness is required.
type ChecklistItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// Checklist is an ordered list of checklist items. All operations on it are
// copy-on-write: the input list is never modified.
type Checklist []ChecklistItem

// Progress summarizes checklist completion.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
	Pct   int `json:"pct"`
}

// NewChecklist builds a checklist from a list of item names. Each name
// becomes a fresh item with a generated ID and done=false.
func NewChecklist(names []string) Checklist {
	list := make(Checklist, 0, len(names))
	for _, name := range names {
		list = append(list, ChecklistItem{ID: NewID(), Name: name})
	}
	return list
}

// AddItem appends a new undone item with the given name. A name that trims
// to empty is rejected and the list is returned unchanged.
func AddItem(list Checklist, name string) Checklist {
	name = strings.TrimSpace(name)
	if name == "" {
		return list
	}
	next := make(Checklist, len(list), len(list)+1)
	copy(next, list)
	return append(next, ChecklistItem{ID: NewID(), Name: name})
}

// ToggleItem flips the done flag of the item with the given ID. An unknown
// ID is a no-op and the list is returned unchanged.
func ToggleItem(list Checklist, id string) Checklist {
	for i, item := range list {
		if item.ID == id {
			next := make(Checklist, len(list))
			copy(next, list)
			next[i].Done = !next[i].Done
			return next
		}
	}
	return list
}

// RemoveItem returns the list with the matching item excluded. An unknown
// ID is a no-op and the list is returned unchanged.
func RemoveItem(list Checklist, id string) Checklist {
	for i, item := range list {
		if item.ID == id {
			next := make(Checklist, 0, len(list)-1)
			next = append(next, list[:i]...)
			return append(next, list[i+1:]...)
		}
	}
	return list
}

// ProgressOf computes done/total counts and the rounded completion
// percentage. An empty list yields {0, 0, 0}.
func ProgressOf(list Checklist) Progress {
	total := len(list)
	if total == 0 {
		return Progress{}
	}
	done := 0
	for _, item := range list {
		if item.Done {
			done++
		}
	}
	pct := int(math.Round(float64(done) / float64(total) * 100))
	return Progress{Done: done, Total: total, Pct: pct}
}

// Clone returns a deep copy of the checklist.
func (c Checklist) Clone() Checklist {
	if c == nil {
		return nil
	}
	next := make(Checklist, len(c))
	copy(next, c)
	return next
}
