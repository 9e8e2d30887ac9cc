package store

import "github.com/alignment-automations/funnel/pkg/types"

// Column is one pipeline column: a configured stage and the accounts
// currently in it, in display order.
type Column struct {
	Stage    string          `json:"stage"`
	Accounts []types.Account `json:"accounts"`
}

// Board is the derived stage grouping used for pipeline rendering and
// drop-target resolution. It always carries one column per configured
// stage, empty columns included. Accounts whose status matches no
// configured stage land in Orphans rather than disappearing from view;
// losing an account over a stale status value would be a data-integrity
// bug, not a cosmetic one.
type Board struct {
	Columns []Column        `json:"columns"`
	Orphans []types.Account `json:"orphans,omitempty"`
}

// Board recomputes the stage grouping from current state. Within a column,
// accounts keep the store's display order (most recently updated first).
func (s *Store) Board() Board {
	stages := s.Stages()
	byStage := make(map[string]int, len(stages))

	b := Board{Columns: make([]Column, len(stages))}
	for i, stage := range stages {
		b.Columns[i] = Column{Stage: stage}
		byStage[stage] = i
	}

	for _, a := range s.All() {
		if i, ok := byStage[a.Status]; ok {
			b.Columns[i].Accounts = append(b.Columns[i].Accounts, a)
			continue
		}
		b.Orphans = append(b.Orphans, a)
	}
	return b
}
