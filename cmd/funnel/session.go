// Session wiring for the funnel CLI: opens the configured local adapter and
// the optional remote store, loads state, and attaches the sync controller.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alignment-automations/funnel/internal/file"
	"github.com/alignment-automations/funnel/internal/postgres"
	"github.com/alignment-automations/funnel/internal/sqlite"
	"github.com/alignment-automations/funnel/pkg/store"
	"github.com/alignment-automations/funnel/pkg/types"
)

// loadTimeout bounds the initial load from the remote store.
const loadTimeout = 10 * time.Second

// localAdapter is what both local backends provide: account persistence
// plus stage list and selection state.
type localAdapter interface {
	types.Adapter
	types.Selector
}

// session holds everything a subcommand needs: the in-memory store, the
// sync controller behind it, and the adapters to close on the way out.
type session struct {
	store  *store.Store
	syncer *store.Syncer
	local  localAdapter
	remote *postgres.Adapter

	closeLocal func() error
}

// openSession builds a ready-to-use session from the resolved configuration.
// A corrupt local cache or an unreachable remote degrades to a warning;
// only an unusable local backend fails the session.
func openSession() (*session, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:   configBackend,
		DataDir:   dataDir,
		RemoteDSN: configRemoteDSN,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	sess := &session{closeLocal: func() error { return nil }}

	switch cfg.Backend {
	case types.BackendFile:
		a, err := file.Open(dataDir)
		if err != nil && !errors.Is(err, types.ErrCorruptState) {
			return nil, fmt.Errorf("open file backend: %w", err)
		}
		if err != nil {
			slog.Warn("local cache unreadable, starting empty", "err", err)
		}
		sess.local = a
	case types.BackendSQLite:
		a, err := sqlite.Open(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		sess.local = a
		sess.closeLocal = a.Close
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if cfg.RemoteDSN != "" {
		remote, err := postgres.Open(ctx, cfg.RemoteDSN)
		if err != nil {
			slog.Warn("remote store unavailable, running local-only", "err", err)
		} else {
			sess.remote = remote
		}
	}

	accounts, err := sess.loadAccounts(ctx)
	if err != nil {
		sess.shutdown()
		return nil, err
	}

	var remoteAdapter types.Adapter
	if sess.remote != nil {
		remoteAdapter = sess.remote
	}
	sess.syncer = store.NewSyncer(sess.local, remoteAdapter, func(err error) {
		slog.Warn("background write failed", "err", err)
	})

	sess.store = store.New(sess.local.Stages(), store.WithObserver(sess.syncer))
	sess.store.Load(accounts)

	// Restore the previous selection if the account still exists.
	if id := sess.local.SelectedID(); id != "" {
		_ = sess.store.Select(id)
	}

	return sess, nil
}

// loadAccounts returns the session's starting state. The remote store is
// authoritative when reachable; its snapshot also refreshes the local cache
// so later local-only runs see the same data. Otherwise the local cache is
// loaded as-is.
func (s *session) loadAccounts(ctx context.Context) ([]types.Account, error) {
	if s.remote != nil {
		accounts, err := s.remote.LoadAll(ctx)
		if err == nil {
			for _, a := range accounts {
				if err := s.local.Upsert(ctx, a); err != nil {
					slog.Warn("local cache refresh failed", "id", a.ID, "err", err)
					break
				}
			}
			return accounts, nil
		}
		slog.Warn("remote load failed, falling back to local cache", "err", err)
	}

	accounts, err := s.local.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	return accounts, nil
}

// close drains in-flight background writes and releases the adapters.
// Must run after every successful command so fire-and-forget writes land
// before the process exits.
func (s *session) close() {
	if s.syncer != nil {
		s.syncer.Wait()
	}
	s.shutdown()
}

func (s *session) shutdown() {
	if err := s.closeLocal(); err != nil {
		slog.Warn("close local backend", "err", err)
	}
	if s.remote != nil {
		s.remote.Close()
	}
}
