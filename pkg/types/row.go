package types

import "time"

// Row is the persisted wire shape of an account, shared by the local cache
// and the remote store. Timestamps travel as RFC 3339 strings so that a
// malformed value degrades instead of failing to decode.
type Row struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Phone      string          `json:"phone,omitempty"`
	Email      string          `json:"email,omitempty"`
	Website    string          `json:"website,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Tasks      []ChecklistItem `json:"tasks"`
	Onboarding []ChecklistItem `json:"onboarding"`
	CreatedAt  string          `json:"created_at,omitempty"`
	UpdatedAt  string          `json:"updated_at,omitempty"`
}

// RowFromAccount serializes an account to its wire row. Checklist item
// order is preserved.
func RowFromAccount(a Account) Row {
	return Row{
		ID:         a.ID,
		Name:       a.Name,
		Status:     a.Status,
		Phone:      a.Phone,
		Email:      a.Email,
		Website:    a.Website,
		Notes:      a.Notes,
		Tasks:      a.Tasks.Clone(),
		Onboarding: a.Onboarding.Clone(),
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Normalize converts a row into a canonical Account. It is total: missing
// or malformed fields take defaults and never fail the caller. An absent
// status falls back to the first default stage; a foreign status value is
// kept as-is and degrades to the orphan bucket at display time. A missing
// created_at inherits updated_at, matching how rows written by partial
// updates are repaired on load.
func (r Row) Normalize(now time.Time) Account {
	updated := parseTime(r.UpdatedAt, now)
	created := parseTime(r.CreatedAt, updated)

	status := r.Status
	if status == "" {
		status = DefaultStages[0]
	}

	return Account{
		ID:         r.ID,
		Name:       r.Name,
		Status:     status,
		Phone:      r.Phone,
		Email:      r.Email,
		Website:    r.Website,
		Notes:      r.Notes,
		Tasks:      cloneItems(r.Tasks),
		Onboarding: cloneItems(r.Onboarding),
		CreatedAt:  created,
		UpdatedAt:  updated,
	}
}

func parseTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fallback
	}
	return t
}

func cloneItems(items []ChecklistItem) Checklist {
	list := make(Checklist, len(items))
	copy(list, items)
	return list
}
