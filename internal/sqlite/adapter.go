// Package sqlite implements the sqlite-backed local cache adapter. Unlike
// the file blob it can serve large account sets without rewriting the whole
// store on every change.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alignment-automations/funnel/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// DBName is the database file name inside the data directory.
const DBName = "funnel.db"

// Meta keys for session state.
const (
	metaStages   = "stages"
	metaSelected = "selected_id"
)

// Adapter is the sqlite persistence adapter.
type Adapter struct {
	db *sql.DB
}

var _ types.Adapter = (*Adapter)(nil)
var _ types.Selector = (*Adapter)(nil)

// Open creates the data directory if needed, opens the database, and
// applies the schema. The schema is idempotent; an existing database keeps
// its rows.
func Open(dataDir string) (*Adapter, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Adapter{db: db}, nil
}

// Close releases the database handle.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// LoadAll returns every stored account ordered by updated_at descending.
// Rows are normalized on the way out; a malformed checklist column decodes
// to an empty list instead of failing the load.
func (a *Adapter) LoadAll(ctx context.Context) ([]types.Account, error) {
	rows, err := a.db.QueryContext(ctx, `
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
		var tasks, onboarding string
		if err := rows.Scan(&r.ID, &r.Name, &r.Status, &r.Phone, &r.Email,
			&r.Website, &r.Notes, &tasks, &onboarding, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		r.Tasks = decodeItems(tasks)
		r.Onboarding = decodeItems(onboarding)
		out = append(out, r.Normalize(now))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	// Trimmed fractional seconds make the stored strings unsafe to compare
	// lexicographically, so the ORDER BY above is only approximate.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Upsert inserts or replaces the full account row. An upsert older than the
// stored row (by updated_at) is dropped, so racing async flushes share the
// file backend's last-write-wins ordering. The check runs in Go rather than
// in SQL; trimmed fractional seconds make the stored strings unsafe to
// compare lexicographically.
func (a *Adapter) Upsert(ctx context.Context, acct types.Account) error {
	r := types.RowFromAccount(acct)
	tasks, err := encodeItems(r.Tasks)
	if err != nil {
		return err
	}
	onboarding, err := encodeItems(r.Onboarding)
	if err != nil {
		return err
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", r.ID, err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, "SELECT updated_at FROM accounts WHERE id = ?", r.ID).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("upsert account %s: %w", r.ID, err)
	}
	if err == nil && newer(existing, r.UpdatedAt) {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (id, name, status, phone, email, website, notes,
		                      tasks, onboarding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			phone = excluded.phone,
			email = excluded.email,
			website = excluded.website,
			notes = excluded.notes,
			tasks = excluded.tasks,
			onboarding = excluded.onboarding,
			updated_at = excluded.updated_at`,
		r.ID, r.Name, r.Status, r.Phone, r.Email, r.Website, r.Notes,
		tasks, onboarding, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", r.ID, err)
	}
	return tx.Commit()
}

// newer reports whether the RFC 3339 timestamp a is strictly after b.
// Unparseable timestamps compare as not-newer, so malformed rows never
// block a fresh write.
func newer(a, b string) bool {
	ta, err := time.Parse(time.RFC3339Nano, a)
	if err != nil {
		return false
	}
	tb, err := time.Parse(time.RFC3339Nano, b)
	if err != nil {
		return false
	}
	return ta.After(tb)
}

// Patch updates only the provided columns. Patching an absent ID is a
// no-op.
func (a *Adapter) Patch(ctx context.Context, id string, p types.AccountPatch) error {
	set, args, err := patchClauses(p)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return nil
	}

	set = append(set, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), id)

	q := "UPDATE accounts SET " + strings.Join(set, ", ") + " WHERE id = ?"
	if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("patch account %s: %w", id, err)
	}
	return nil
}

// Delete removes the account row. Deleting an absent ID is a no-op.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

// Stages returns the stored stage list, or the defaults when none has been
// saved yet.
func (a *Adapter) Stages() []string {
	var raw string
	err := a.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaStages).Scan(&raw)
	if err != nil {
		return append([]string(nil), types.DefaultStages...)
	}
	var stages []string
	if err := json.Unmarshal([]byte(raw), &stages); err != nil || len(stages) == 0 {
		return append([]string(nil), types.DefaultStages...)
	}
	return stages
}

// SetStages stores the stage list.
func (a *Adapter) SetStages(stages []string) error {
	raw, err := json.Marshal(stages)
	if err != nil {
		return fmt.Errorf("marshal stages: %w", err)
	}
	return a.setMeta(metaStages, string(raw))
}

// SelectedID returns the stored selection, or "".
func (a *Adapter) SelectedID() string {
	var id string
	if err := a.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaSelected).Scan(&id); err != nil {
		return ""
	}
	return id
}

// SaveSelection stores the selected account ID.
func (a *Adapter) SaveSelection(id string) error {
	return a.setMeta(metaSelected, id)
}

func (a *Adapter) setMeta(key, value string) error {
	_, err := a.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// patchClauses renders the non-nil patch fields as SET clauses.
func patchClauses(p types.AccountPatch) ([]string, []any, error) {
	var set []string
	var args []any

	add := func(col string, v string) {
		set = append(set, col+" = ?")
		args = append(args, v)
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
		raw, err := encodeItems(*p.Tasks)
		if err != nil {
			return nil, nil, err
		}
		add("tasks", raw)
	}
	if p.Onboarding != nil {
		raw, err := encodeItems(*p.Onboarding)
		if err != nil {
			return nil, nil, err
		}
		add("onboarding", raw)
	}
	return set, args, nil
}

func encodeItems(items []types.ChecklistItem) (string, error) {
	if items == nil {
		items = []types.ChecklistItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal checklist: %w", err)
	}
	return string(raw), nil
}

// decodeItems tolerates malformed stored JSON; a bad column yields an empty
// checklist rather than a failed load.
func decodeItems(raw string) []types.ChecklistItem {
	var items []types.ChecklistItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
