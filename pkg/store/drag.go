package store

import "github.com/alignment-automations/funnel/pkg/types"

// Drag is the direct-manipulation gesture machine for stage changes:
// idle, dragging, then back to idle on drop or cancel. It tracks transient
// gesture state only; the committed mutation goes through Store.Move, which
// stays a plain, gesture-agnostic operation.
type Drag struct {
	store    *Store
	active   bool
	sourceID string
	target   string
}

// NewDrag creates an idle gesture machine bound to the store.
func NewDrag(s *Store) *Drag {
	return &Drag{store: s}
}

// Start begins a drag from the given account. Starting over an unknown
// account fails and the machine stays idle.
func (d *Drag) Start(id string) error {
	if _, err := d.store.Get(id); err != nil {
		return err
	}
	d.active = true
	d.sourceID = id
	d.target = ""
	return nil
}

// Hover records the candidate drop stage. It mutates no store state and is
// ignored while idle.
func (d *Drag) Hover(stage string) {
	if !d.active {
		return
	}
	d.target = stage
}

// Dragging reports whether a gesture is in progress.
func (d *Drag) Dragging() bool { return d.active }

// Source returns the dragged account ID, or "" while idle.
func (d *Drag) Source() string { return d.sourceID }

// Drop commits the gesture via Store.Move and clears the transient state
// regardless of outcome. Dropping with no recorded target, or after the
// account vanished mid-gesture, performs no mutation. A drop onto the
// account's current stage is a valid write that advances updated_at.
func (d *Drag) Drop() (types.Account, error) {
	if !d.active {
		return types.Account{}, types.ErrNotDragging
	}
	sourceID, target := d.sourceID, d.target
	d.reset()

	if target == "" {
		return types.Account{}, types.ErrNoDropTarget
	}
	return d.store.Move(sourceID, target)
}

// Cancel abandons the gesture with no mutation.
func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.active = false
	d.sourceID = ""
	d.target = ""
}
