package types

import "context"

// Adapter is the persistence boundary for accounts. Two implementations are
// selectable at runtime: the local durable cache (file or sqlite, always
// available) and the optional Postgres remote store. Adapters hold no
// business logic; they normalize rows at the boundary and back.
type Adapter interface {
	// LoadAll returns every persisted account, most recently updated first,
	// normalized into the canonical Account shape.
	LoadAll(ctx context.Context) ([]Account, error)

	// Upsert writes a full account record. Safe to call repeatedly with the
	// same ID; the last write wins by the adapter's own ordering.
	Upsert(ctx context.Context, a Account) error

	// Patch writes only the provided fields. Patching an absent ID is a
	// no-op. Adapters without partial-write support may fall back to a full
	// rewrite of their copy of the record.
	Patch(ctx context.Context, id string, p AccountPatch) error

	// Delete removes the record. Deleting an absent ID is a no-op.
	Delete(ctx context.Context, id string) error
}

// Selector is implemented by local adapters that persist UI state alongside
// accounts: the configured stage list and the selected account.
type Selector interface {
	Stages() []string
	SetStages(stages []string) error
	SelectedID() string
	SaveSelection(id string) error
}
