package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/alignment-automations/funnel/pkg/types"
)

func TestOpenEmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	if !errors.Is(err, types.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestOpenBadDSN(t *testing.T) {
	_, err := Open(context.Background(), "not a dsn")
	if !errors.Is(err, types.ErrRemoteUnavailable) {
		t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestPatchClauses(t *testing.T) {
	tests := []struct {
		name     string
		patch    types.AccountPatch
		wantSet  []string
		wantArgs int
	}{
		{
			name:    "empty patch",
			patch:   types.AccountPatch{},
			wantSet: nil,
		},
		{
			name:     "single field",
			patch:    types.AccountPatch{Notes: types.StringPtr("hi")},
			wantSet:  []string{"notes = $1"},
			wantArgs: 1,
		},
		{
			name: "placeholders numbered in field order",
			patch: types.AccountPatch{
				Name:   types.StringPtr("Acme"),
				Status: types.StringPtr("Live"),
				Email:  types.StringPtr("a@b.c"),
			},
			wantSet:  []string{"name = $1", "status = $2", "email = $3"},
			wantArgs: 3,
		},
		{
			name: "checklist field",
			patch: types.AccountPatch{
				Tasks: &types.Checklist{{ID: "t1", Name: "x"}},
			},
			wantSet:  []string{"tasks = $1"},
			wantArgs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, args := patchClauses(tt.patch)
			if len(set) != len(tt.wantSet) {
				t.Fatalf("set = %v, want %v", set, tt.wantSet)
			}
			for i := range set {
				if set[i] != tt.wantSet[i] {
					t.Errorf("set[%d] = %q, want %q", i, set[i], tt.wantSet[i])
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("got %d args, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestItemsOrEmpty(t *testing.T) {
	if got := itemsOrEmpty(nil); got == nil || len(got) != 0 {
		t.Errorf("nil checklist must encode as empty, got %v", got)
	}
	items := []types.ChecklistItem{{ID: "t1", Name: "x"}}
	if got := itemsOrEmpty(items); len(got) != 1 {
		t.Errorf("non-nil checklist passed through, got %v", got)
	}
}
