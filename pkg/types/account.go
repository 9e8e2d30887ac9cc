package types

import "time"

// Account is a tracked business record moving through the pipeline.
type Account struct {
	ID        string    `json:"id"`      // UUID v7, generated on creation, never reused.
	Name      string    `json:"name"`    // Non-empty after trim.
	Status    string    `json:"status"`  // Current pipeline stage.
	Phone     string    `json:"phone"`   // Free-form contact fields; may be empty.
	Email     string    `json:"email"`
	Website   string    `json:"website"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"` // Set once at creation.
	UpdatedAt time.Time `json:"updated_at"` // Replaced on every mutation.

	Tasks      Checklist `json:"tasks"`
	Onboarding Checklist `json:"onboarding"`
}

// Clone returns a deep copy of the account, detaching its checklists from
// the receiver's backing arrays.
func (a Account) Clone() Account {
	a.Tasks = a.Tasks.Clone()
	a.Onboarding = a.Onboarding.Clone()
	return a
}

// Draft carries caller-supplied fields for account creation. Status and
// contact fields are optional; Name is required.
type Draft struct {
	Name    string
	Status  string
	Phone   string
	Email   string
	Website string
	Notes   string
}

// AccountPatch is a partial update. Nil fields are left untouched. ID and
// CreatedAt are deliberately absent; they can never be patched.
type AccountPatch struct {
	Name    *string
	Status  *string
	Phone   *string
	Email   *string
	Website *string
	Notes   *string

	Tasks      *Checklist
	Onboarding *Checklist
}

// Apply shallow-merges the patch over the account and returns the result.
// It does not stamp UpdatedAt; the store owns timestamps.
func (p AccountPatch) Apply(a Account) Account {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Phone != nil {
		a.Phone = *p.Phone
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Website != nil {
		a.Website = *p.Website
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Tasks != nil {
		a.Tasks = p.Tasks.Clone()
	}
	if p.Onboarding != nil {
		a.Onboarding = p.Onboarding.Clone()
	}
	return a
}

// StringPtr returns a pointer to s, for building patches.
func StringPtr(s string) *string { return &s }
