package store

import (
	"context"
	"sync"

	"github.com/alignment-automations/funnel/pkg/types"
)

// Syncer drives accepted store mutations into the persistence adapters
// asynchronously. Policy: at-most-once, fire-and-forget, no retry, no
// rollback. A failed write leaves the optimistic local state standing and
// is reported through the notify callback as a *types.SyncError; on the
// next full load the backing store becomes authoritative again, so the
// write is lost unless the user repeats the action.
type Syncer struct {
	local  types.Adapter
	remote types.Adapter // nil when running local-only
	notify func(error)
	wg     sync.WaitGroup
}

var _ Observer = (*Syncer)(nil)

// NewSyncer builds a sync controller over the local adapter and an optional
// remote one. notify receives write failures; it may be nil.
func NewSyncer(local, remote types.Adapter, notify func(error)) *Syncer {
	return &Syncer{local: local, remote: remote, notify: notify}
}

// AccountUpserted propagates a create or update. The remote store receives
// a field-level patch when one is available, so fields the caller did not
// touch are not clobbered; the local cache always rewrites the full record.
func (s *Syncer) AccountUpserted(a types.Account, p *types.AccountPatch) {
	s.launch(func(ctx context.Context) {
		s.report("upsert", a.ID, s.local.Upsert(ctx, a))
		if s.remote == nil {
			return
		}
		if p != nil {
			s.report("patch", a.ID, s.remote.Patch(ctx, a.ID, *p))
			return
		}
		s.report("upsert", a.ID, s.remote.Upsert(ctx, a))
	})
}

// AccountDeleted propagates a deletion.
func (s *Syncer) AccountDeleted(id string) {
	s.launch(func(ctx context.Context) {
		s.report("delete", id, s.local.Delete(ctx, id))
		if s.remote != nil {
			s.report("delete", id, s.remote.Delete(ctx, id))
		}
	})
}

// SelectionChanged persists the selected account ID when the local adapter
// tracks UI state. Selection is session state; it never goes remote.
func (s *Syncer) SelectionChanged(id string) {
	sel, ok := s.local.(types.Selector)
	if !ok {
		return
	}
	s.launch(func(ctx context.Context) {
		s.report("selection", id, sel.SaveSelection(id))
	})
}

// Wait blocks until all in-flight writes have finished. It exists for
// process shutdown and tests only; mutation callers never wait on it.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

func (s *Syncer) launch(fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(context.Background())
	}()
}

func (s *Syncer) report(op, id string, err error) {
	if err == nil || s.notify == nil {
		return
	}
	s.notify(&types.SyncError{Op: op, ID: id, Err: err})
}
