package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignment-automations/funnel/pkg/types"
)

// fakeAdapter records calls and can be told to fail every write.
type fakeAdapter struct {
	mu       sync.Mutex
	upserts  []string
	patches  []string
	deletes  []string
	selected string
	fail     error
}

var _ types.Adapter = (*fakeAdapter)(nil)
var _ types.Selector = (*fakeAdapter)(nil)

func (f *fakeAdapter) LoadAll(ctx context.Context) ([]types.Account, error) {
	return nil, f.fail
}

func (f *fakeAdapter) Upsert(ctx context.Context, a types.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, a.ID)
	return f.fail
}

func (f *fakeAdapter) Patch(ctx context.Context, id string, p types.AccountPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, id)
	return f.fail
}

func (f *fakeAdapter) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.fail
}

func (f *fakeAdapter) Stages() []string            { return nil }
func (f *fakeAdapter) SetStages([]string) error    { return nil }
func (f *fakeAdapter) SelectedID() string          { return f.selected }
func (f *fakeAdapter) SaveSelection(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = id
	return f.fail
}

func (f *fakeAdapter) counts() (upserts, patches, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts), len(f.patches), len(f.deletes)
}

func TestSyncerPropagatesMutations(t *testing.T) {
	local := &fakeAdapter{}
	remote := &fakeAdapter{}
	syncer := NewSyncer(local, remote, nil)

	s := New(nil, WithObserver(syncer))

	a, err := s.Create(types.Draft{Name: "Acme Clinic"})
	require.NoError(t, err)
	_, err = s.Move(a.ID, "Live")
	require.NoError(t, err)
	s.Delete(a.ID)
	syncer.Wait()

	lu, lp, ld := local.counts()
	assert.Equal(t, 2, lu, "local cache takes a full upsert per write")
	assert.Equal(t, 0, lp)
	assert.Equal(t, 1, ld)

	ru, rp, rd := remote.counts()
	assert.Equal(t, 1, ru, "create goes remote as a full upsert")
	assert.Equal(t, 1, rp, "move goes remote as a field patch")
	assert.Equal(t, 1, rd)
}

func TestSyncerPersistsSelection(t *testing.T) {
	local := &fakeAdapter{}
	syncer := NewSyncer(local, nil, nil)
	s := New(nil, WithObserver(syncer))

	a, err := s.Create(types.Draft{Name: "Acme Clinic"})
	require.NoError(t, err)
	syncer.Wait()

	assert.Equal(t, a.ID, local.selected, "selection persisted to local cache")
}

func TestSyncerFailureLeavesOptimisticState(t *testing.T) {
	boom := errors.New("network down")
	local := &fakeAdapter{}
	remote := &fakeAdapter{fail: boom}

	var mu sync.Mutex
	var reported []error
	notify := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}

	syncer := NewSyncer(local, remote, notify)
	s := New(nil, WithObserver(syncer))

	a, err := s.Create(types.Draft{Name: "Acme Clinic"})
	require.NoError(t, err)
	syncer.Wait()

	// The optimistic write stands; nothing is rolled back.
	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Name, got.Name)
	assert.Equal(t, a.UpdatedAt, got.UpdatedAt, "state identical to the moment after the local mutation")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, 1, "failure reported exactly once, no retry")
	var syncErr *types.SyncError
	require.ErrorAs(t, reported[0], &syncErr)
	assert.Equal(t, "upsert", syncErr.Op)
	assert.Equal(t, a.ID, syncErr.ID)
	assert.ErrorIs(t, reported[0], boom)

	ru, _, _ := remote.counts()
	assert.Equal(t, 1, ru, "at-most-once: a failed write is not re-queued")
}

func TestSyncerLocalOnly(t *testing.T) {
	local := &fakeAdapter{}
	syncer := NewSyncer(local, nil, nil)
	s := New(nil, WithObserver(syncer))

	a, err := s.Create(types.Draft{Name: "Acme Clinic"})
	require.NoError(t, err)
	s.Delete(a.ID)
	syncer.Wait()

	lu, _, ld := local.counts()
	assert.Equal(t, 1, lu)
	assert.Equal(t, 1, ld)
}

func TestSyncerMutationsDoNotWaitOnAdapter(t *testing.T) {
	// An adapter that blocks until released. Mutations must return while it
	// is still stuck.
	release := make(chan struct{})
	local := &blockingAdapter{release: release}
	syncer := NewSyncer(local, nil, nil)
	s := New(nil, WithObserver(syncer))

	done := make(chan struct{})
	go func() {
		_, err := s.Create(types.Draft{Name: "Acme Clinic"})
		assert.NoError(t, err)
		close(done)
	}()

	<-done // returns without the adapter ever completing
	close(release)
	syncer.Wait()
}

type blockingAdapter struct {
	release chan struct{}
}

func (b *blockingAdapter) LoadAll(ctx context.Context) ([]types.Account, error) { return nil, nil }

func (b *blockingAdapter) Upsert(ctx context.Context, a types.Account) error {
	<-b.release
	return nil
}

func (b *blockingAdapter) Patch(ctx context.Context, id string, p types.AccountPatch) error {
	<-b.release
	return nil
}

func (b *blockingAdapter) Delete(ctx context.Context, id string) error {
	<-b.release
	return nil
}
