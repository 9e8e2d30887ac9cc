// Package file implements the local durable cache: one JSON blob holding
// every account row plus the configured stage list and the selected account.
// The blob is loaded once at startup and rewritten atomically on every
// observable change.
package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alignment-automations/funnel/pkg/types"
)

// BlobName is the cache file name inside the data directory.
const BlobName = "funnel.json"

// blob is the serialized cache shape.
type blob struct {
	Entities   []types.Row `json:"entities"`
	Stages     []string    `json:"stages"`
	SelectedID string      `json:"selected_id,omitempty"`
}

// Adapter is the file-backed persistence adapter. It keeps its own copy of
// the blob in memory and serializes all writes behind one mutex; last write
// wins by the account's updated_at, so out-of-order async flushes cannot
// regress the cache.
type Adapter struct {
	mu   sync.Mutex
	path string
	data blob
}

var _ types.Adapter = (*Adapter)(nil)
var _ types.Selector = (*Adapter)(nil)

// Open loads the blob from dataDir, creating the directory if needed. A
// missing blob yields an empty state. A blob that fails to parse is
// recovered as an empty state and reported via ErrCorruptState; the
// returned adapter is usable either way, so startup never fails on a bad
// cache.
func Open(dataDir string) (*Adapter, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	a := &Adapter{path: filepath.Join(dataDir, BlobName)}

	raw, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		a.data.Stages = append([]string(nil), types.DefaultStages...)
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.path, err)
	}

	if err := json.Unmarshal(raw, &a.data); err != nil {
		a.data = blob{Stages: append([]string(nil), types.DefaultStages...)}
		return a, fmt.Errorf("%w: %v", types.ErrCorruptState, err)
	}
	if len(a.data.Stages) == 0 {
		a.data.Stages = append([]string(nil), types.DefaultStages...)
	}
	return a, nil
}

// LoadAll returns every cached account, most recently updated first,
// normalized into the canonical shape.
func (a *Adapter) LoadAll(ctx context.Context) ([]types.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	out := make([]types.Account, 0, len(a.data.Entities))
	for _, row := range a.data.Entities {
		out = append(out, row.Normalize(now))
	}
	sortByRecency(out)
	return out, nil
}

// Upsert writes a full account row and rewrites the blob. An upsert older
// than the cached row (by updated_at) is dropped; that is this adapter's
// last-write-wins ordering under racing async flushes.
func (a *Adapter) Upsert(ctx context.Context, acct types.Account) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	row := types.RowFromAccount(acct)
	replaced := false
	for i, existing := range a.data.Entities {
		if existing.ID != row.ID {
			continue
		}
		if newer(existing.UpdatedAt, row.UpdatedAt) {
			return nil
		}
		a.data.Entities[i] = row
		replaced = true
		break
	}
	if !replaced {
		a.data.Entities = append([]types.Row{row}, a.data.Entities...)
	}
	return a.write()
}

// Patch applies the provided fields to the cached row. Patching an absent
// ID is a no-op.
func (a *Adapter) Patch(ctx context.Context, id string, p types.AccountPatch) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, existing := range a.data.Entities {
		if existing.ID != id {
			continue
		}
		acct := p.Apply(existing.Normalize(time.Now()))
		acct.UpdatedAt = time.Now()
		a.data.Entities[i] = types.RowFromAccount(acct)
		return a.write()
	}
	return nil
}

// Delete removes the cached row. Deleting an absent ID is a no-op.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, existing := range a.data.Entities {
		if existing.ID != id {
			continue
		}
		a.data.Entities = append(a.data.Entities[:i], a.data.Entities[i+1:]...)
		return a.write()
	}
	return nil
}

// Stages returns the cached stage list.
func (a *Adapter) Stages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.data.Stages...)
}

// SetStages replaces the cached stage list.
func (a *Adapter) SetStages(stages []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.Stages = append([]string(nil), stages...)
	return a.write()
}

// SelectedID returns the cached selection, or "".
func (a *Adapter) SelectedID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.data.SelectedID
}

// SaveSelection persists the selected account ID.
func (a *Adapter) SaveSelection(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data.SelectedID = id
	return a.write()
}

// write rewrites the blob atomically: temp file, fsync, rename. A crash
// mid-write leaves the previous blob intact.
func (a *Adapter) write() error {
	raw, err := json.MarshalIndent(a.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal blob: %w", err)
	}

	dir := filepath.Dir(a.path)
	tmp, err := os.CreateTemp(dir, ".funnel-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write blob: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flush blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename blob: %w", err)
	}
	return nil
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

func sortByRecency(accounts []types.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].UpdatedAt.After(accounts[j].UpdatedAt)
	})
}
