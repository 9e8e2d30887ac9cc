// Package postgres implements the optional remote store adapter over a
// Postgres database (the hosted backends behind the original deployment are
// Postgres under the hood). The remote store is best-effort: a missing or
// unreachable DSN means local-only operation, never a startup failure.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alignment-automations/funnel/pkg/types"
)

// schemaSQL creates the accounts table on first contact. Checklists are
// jsonb columns; insert-or-replace goes through ON CONFLICT.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    status     TEXT NOT NULL,
    phone      TEXT NOT NULL DEFAULT '',
    email      TEXT NOT NULL DEFAULT '',
    website    TEXT NOT NULL DEFAULT '',
    notes      TEXT NOT NULL DEFAULT '',
    tasks      JSONB NOT NULL DEFAULT '[]',
    onboarding JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const connectTimeout = 5 * time.Second

// Adapter is the Postgres remote adapter.
type Adapter struct {
	pool *pgxpool.Pool
}

var _ types.Adapter = (*Adapter)(nil)

// Open connects to the remote store and ensures the schema exists. An empty
// DSN or a failed connection reports ErrRemoteUnavailable so callers can
// fall back to local-only operation.
func Open(ctx context.Context, dsn string) (*Adapter, error) {
	if dsn == "" {
		return nil, types.ErrRemoteUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRemoteUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", types.ErrRemoteUnavailable, err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ensure schema: %v", types.ErrRemoteUnavailable, err)
	}
	return &Adapter{pool: pool}, nil
}

// Close releases the connection pool.
func (a *Adapter) Close() {
	a.pool.Close()
}

// LoadAll returns every remote account ordered by updated_at descending.
func (a *Adapter) LoadAll(ctx context.Context) ([]types.Account, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT id, name, status, phone, email, website, notes,
		       tasks, onboarding, created_at, updated_at
		FROM accounts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	var out []types.Account
	for rows.Next() {
		var r types.Row
		var created, updated time.Time
		if err := rows.Scan(&r.ID, &r.Name, &r.Status, &r.Phone, &r.Email,
			&r.Website, &r.Notes, &r.Tasks, &r.Onboarding, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		r.CreatedAt = created.UTC().Format(time.RFC3339Nano)
		r.UpdatedAt = updated.UTC().Format(time.RFC3339Nano)
		out = append(out, r.Normalize(now))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

// Upsert writes the full account record with insert-or-replace semantics.
func (a *Adapter) Upsert(ctx context.Context, acct types.Account) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO accounts (id, name, status, phone, email, website, notes,
		                      tasks, onboarding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			notes = EXCLUDED.notes,
			tasks = EXCLUDED.tasks,
			onboarding = EXCLUDED.onboarding,
			updated_at = EXCLUDED.updated_at`,
		acct.ID, acct.Name, acct.Status, acct.Phone, acct.Email, acct.Website,
		acct.Notes, itemsOrEmpty(acct.Tasks), itemsOrEmpty(acct.Onboarding),
		acct.CreatedAt.UTC(), acct.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", acct.ID, err)
	}
	return nil
}

// Patch updates only the provided fields, leaving everything else alone on
// the remote row. Patching an absent ID is a no-op.
func (a *Adapter) Patch(ctx context.Context, id string, p types.AccountPatch) error {
	set, args := patchClauses(p)
	if len(set) == 0 {
		return nil
	}

	args = append(args, time.Now().UTC())
	set = append(set, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	q := fmt.Sprintf("UPDATE accounts SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args))
	if _, err := a.pool.Exec(ctx, q, args...); err != nil {
		return fmt.Errorf("patch account %s: %w", id, err)
	}
	return nil
}

// Delete removes the remote record. Deleting an absent ID is a no-op.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if _, err := a.pool.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

// patchClauses renders the non-nil patch fields as numbered SET clauses.
func patchClauses(p types.AccountPatch) ([]string, []any) {
	var set []string
	var args []any

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Website != nil {
		add("website", *p.Website)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}
	if p.Tasks != nil {
		add("tasks", itemsOrEmpty(*p.Tasks))
	}
	if p.Onboarding != nil {
		add("onboarding", itemsOrEmpty(*p.Onboarding))
	}
	return set, args
}

// itemsOrEmpty keeps nil checklists encoding as [] rather than SQL null.
func itemsOrEmpty(items []types.ChecklistItem) []types.ChecklistItem {
	if items == nil {
		return []types.ChecklistItem{}
	}
	return items
}
