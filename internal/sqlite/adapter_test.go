package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alignment-automations/funnel/pkg/types"
)

func openTest(t *testing.T) (*Adapter, string) {
	t.Helper()
	dir := t.TempDir()
	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, dir
}

func testAccount(id, name string, updated time.Time) types.Account {
	return types.Account{
		ID:        id,
		Name:      name,
		Status:    "Lead",
		Phone:     "555-0100",
		CreatedAt: updated,
		UpdatedAt: updated,
		Tasks: types.Checklist{
			{ID: id + "-t1", Name: "alpha"},
			{ID: id + "-t2", Name: "beta", Done: true},
		},
		Onboarding: types.Checklist{
			{ID: id + "-o1", Name: "gamma"},
		},
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	_, dir := openTest(t)
	if _, err := os.Stat(filepath.Join(dir, DBName)); os.IsNotExist(err) {
		t.Errorf("%s not created", DBName)
	}
}

func TestUpsertAndLoadAll(t *testing.T) {
	a, _ := openTest(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	older := testAccount("a1", "Older", now.Add(-time.Hour))
	newer := testAccount("a2", "Newer", now)

	if err := a.Upsert(ctx, older); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := a.Upsert(ctx, newer); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	accounts, err := a.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].ID != "a2" {
		t.Errorf("expected updated_at descending order, got %s first", accounts[0].ID)
	}

	got := accounts[1]
	if got.Name != "Older" || got.Phone != "555-0100" {
		t.Errorf("fields lost: %+v", got)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].ID != "a1-t1" || !got.Tasks[1].Done {
		t.Errorf("checklist not round-tripped in order: %+v", got.Tasks)
	}
	if !got.CreatedAt.Equal(older.CreatedAt) || !got.UpdatedAt.Equal(older.UpdatedAt) {
		t.Errorf("timestamps not preserved: %+v", got)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	a, _ := openTest(t)
	ctx := context.Background()

	acct := testAccount("a1", "Before", time.Now().UTC())
	if err := a.Upsert(ctx, acct); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	acct.Name = "After"
	acct.UpdatedAt = acct.UpdatedAt.Add(time.Minute)
	if err := a.Upsert(ctx, acct); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	accounts, _ := a.LoadAll(ctx)
	if len(accounts) != 1 {
		t.Fatalf("upsert duplicated the row: %d accounts", len(accounts))
	}
	if accounts[0].Name != "After" {
		t.Errorf("name = %q, want After", accounts[0].Name)
	}
}

func TestStaleUpsertDropped(t *testing.T) {
	a, _ := openTest(t)
	ctx := context.Background()

	now := time.Now().UTC()
	fresh := testAccount("a1", "Fresh", now)
	stale := testAccount("a1", "Stale", now.Add(-time.Minute))

	if err := a.Upsert(ctx, fresh); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := a.Upsert(ctx, stale); err != nil {
		t.Fatalf("stale Upsert failed: %v", err)
	}

	accounts, _ := a.LoadAll(ctx)
	if len(accounts) != 1 || accounts[0].Name != "Fresh" {
		t.Errorf("stale write overwrote a newer row: %+v", accounts)
	}
}

func TestPatch(t *testing.T) {
	a, _ := openTest(t)
	ctx := context.Background()

	acct := testAccount("a1", "Acme Clinic", time.Now().UTC().Add(-time.Hour))
	if err := a.Upsert(ctx, acct); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	notes := "intro call done"
	status := "Demo booked"
	if err := a.Patch(ctx, "a1", types.AccountPatch{Notes: &notes, Status: &status}); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	accounts, _ := a.LoadAll(ctx)
	got := accounts[0]
	if got.Notes != notes || got.Status != status {
		t.Errorf("patched fields missing: %+v", got)
	}
	if got.Phone != "555-0100" {
		t.Errorf("untouched field clobbered: phone = %q", got.Phone)
	}
	if !got.UpdatedAt.After(acct.UpdatedAt) {
		t.Errorf("patch did not advance updated_at")
	}

	// Absent ID and empty patch are both no-ops.
	if err := a.Patch(ctx, "missing", types.AccountPatch{Notes: &notes}); err != nil {
		t.Errorf("patch of absent ID should be a no-op, got %v", err)
	}
	if err := a.Patch(ctx, "a1", types.AccountPatch{}); err != nil {
		t.Errorf("empty patch should be a no-op, got %v", err)
	}
}

func TestPatchChecklist(t *testing.T) {
	a, _ := openTest(t)
	ctx := context.Background()

	acct := testAccount("a1", "Acme Clinic", time.Now().UTC())
	if err := a.Upsert(ctx, acct); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	toggled := acct.Tasks.Clone()
	toggled[0].Done = true
	if err := a.Patch(ctx, "a1", types.AccountPatch{Tasks: &toggled}); err != nil {
		t.Fatalf("Patch failed: %v", err)
	}

	accounts, _ := a.LoadAll(ctx)
	if !accounts[0].Tasks[0].Done {
		t.Error("checklist patch not persisted")
	}
	if len(accounts[0].Onboarding) != 1 {
		t.Error("other checklist clobbered")
	}
}

func TestDelete(t *testing.T) {
	a, _ := openTest(t)
	ctx := context.Background()

	if err := a.Upsert(ctx, testAccount("doomed", "Doomed", time.Now())); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := a.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := a.Delete(ctx, "doomed"); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}

	accounts, _ := a.LoadAll(ctx)
	if len(accounts) != 0 {
		t.Errorf("deleted account still present")
	}
}

func TestDurabilityAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := a.Upsert(ctx, testAccount("a1", "Persistent", time.Now())); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := a.SaveSelection("a1"); err != nil {
		t.Fatalf("SaveSelection failed: %v", err)
	}
	if err := a.SetStages([]string{"One", "Two"}); err != nil {
		t.Fatalf("SetStages failed: %v", err)
	}
	a.Close()

	b, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer b.Close()

	accounts, err := b.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Persistent" {
		t.Errorf("rows lost across reopen: %+v", accounts)
	}
	if b.SelectedID() != "a1" {
		t.Errorf("selection lost across reopen")
	}
	if got := b.Stages(); len(got) != 2 || got[0] != "One" {
		t.Errorf("stages lost across reopen: %v", got)
	}
}

func TestStagesDefaultWhenUnset(t *testing.T) {
	a, _ := openTest(t)
	got := a.Stages()
	if len(got) != len(types.DefaultStages) || got[0] != types.DefaultStages[0] {
		t.Errorf("expected default stages, got %v", got)
	}
}
