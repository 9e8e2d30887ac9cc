package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alignment-automations/funnel/pkg/types"
)

func TestBoardAlwaysCarriesEveryStage(t *testing.T) {
	s := New([]string{"Lead", "Demo", "Won"})

	b := s.Board()
	require.Len(t, b.Columns, 3, "empty store still yields every column")
	for i, stage := range []string{"Lead", "Demo", "Won"} {
		assert.Equal(t, stage, b.Columns[i].Stage, "configured order preserved")
		assert.Empty(t, b.Columns[i].Accounts)
	}
	assert.Empty(t, b.Orphans)
}

func TestBoardMarshalsSnakeCase(t *testing.T) {
	s := New([]string{"Lead"})
	_, err := s.Create(types.Draft{Name: "One"})
	require.NoError(t, err)

	out, err := json.Marshal(s.Board())
	require.NoError(t, err)

	// The board is CLI-visible JSON and follows the account wire shape.
	assert.Contains(t, string(out), `"columns"`)
	assert.Contains(t, string(out), `"stage"`)
	assert.Contains(t, string(out), `"accounts"`)
	assert.NotContains(t, string(out), `"Columns"`)
}

func TestBoardGroupsByStage(t *testing.T) {
	s := New([]string{"Lead", "Demo", "Won"})

	a, err := s.Create(types.Draft{Name: "One"})
	require.NoError(t, err)
	b, err := s.Create(types.Draft{Name: "Two"})
	require.NoError(t, err)
	c, err := s.Create(types.Draft{Name: "Three"})
	require.NoError(t, err)

	_, err = s.Move(b.ID, "Demo")
	require.NoError(t, err)
	_, err = s.Move(c.ID, "Demo")
	require.NoError(t, err)

	board := s.Board()
	require.Len(t, board.Columns[0].Accounts, 1)
	assert.Equal(t, a.ID, board.Columns[0].Accounts[0].ID)

	require.Len(t, board.Columns[1].Accounts, 2)
	assert.Equal(t, c.ID, board.Columns[1].Accounts[0].ID, "column keeps recency order")
	assert.Equal(t, b.ID, board.Columns[1].Accounts[1].ID)

	assert.Empty(t, board.Columns[2].Accounts)
}

func TestBoardParksForeignStatusInOrphans(t *testing.T) {
	s := New([]string{"Lead", "Won"})

	stale := types.Row{
		ID:        "stale-1",
		Name:      "Imported",
		Status:    "Negotiation", // from an older stage configuration
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}.Normalize(time.Now())
	s.Load([]types.Account{stale})

	b := s.Board()
	require.Len(t, b.Columns, 2)
	assert.Empty(t, b.Columns[0].Accounts)
	assert.Empty(t, b.Columns[1].Accounts)

	require.Len(t, b.Orphans, 1, "foreign status must not drop the account")
	assert.Equal(t, "stale-1", b.Orphans[0].ID)

	// A move out of the orphan bucket is an ordinary stage change.
	_, err := s.Move("stale-1", "Won")
	require.NoError(t, err)
	b = s.Board()
	assert.Empty(t, b.Orphans)
	require.Len(t, b.Columns[1].Accounts, 1)
}
