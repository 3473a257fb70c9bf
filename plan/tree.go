// Copyright 2024 The sqlg authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plan

import (
	"fmt"

	"github.com/prabu701/sqlg/traversal"
)

// ReplacedStepTree is the arena-indexed plan tree: replaced-steps are
// owned by the arena with stable integer handles, never by pointers from
// the host pipeline, so the tree can outlive (or be walked independently
// of) the host steps it was folded from.
type ReplacedStepTree struct {
	arena  []*ReplacedStep
	root   int
	cursor int
}

// NewReplacedStepTree returns an empty tree. The first AddReplaced call
// establishes the root.
func NewReplacedStepTree() *ReplacedStepTree {
	return &ReplacedStepTree{root: -1, cursor: -1}
}

// AddReplaced appends a replaced-step as a child of the current cursor and
// advances the cursor to it. The first call in a tree's lifetime has no
// cursor yet and establishes the root; it ignores any IsSource / Depth
// the caller set and assigns IsSource=true, Depth=0 itself.
func (t *ReplacedStepTree) AddReplaced(step *ReplacedStep) int {
	step.parent = -1
	handle := len(t.arena)

	if t.root == -1 {
		step.IsSource = true
		step.Depth = 0
		t.arena = append(t.arena, step)
		t.root = handle
		t.cursor = handle
		return handle
	}

	parent := t.arena[t.cursor]
	step.IsSource = false
	step.Depth = parent.Depth + 1
	step.parent = t.cursor
	t.arena = append(t.arena, step)
	parent.children = append(parent.children, handle)
	t.cursor = handle
	return handle
}

// Cursor returns the handle the next AddReplaced call will attach under.
func (t *ReplacedStepTree) Cursor() int { return t.cursor }

// SetCursor repositions the insertion cursor, used when strategy rewriting
// branches (e.g. resuming a sibling prefix after a child pipeline).
func (t *ReplacedStepTree) SetCursor(handle int) { t.cursor = handle }

// Root returns the root handle, or -1 if the tree is empty.
func (t *ReplacedStepTree) Root() int { return t.root }

// Empty reports whether any replaced-step has been added yet.
func (t *ReplacedStepTree) Empty() bool { return t.root == -1 }

// Get returns the replaced-step at handle.
func (t *ReplacedStepTree) Get(handle int) *ReplacedStep { return t.arena[handle] }

// Parent returns the parent handle of handle, or -1 for the root.
func (t *ReplacedStepTree) Parent(handle int) int { return t.arena[handle].parent }

// Children returns the child handles of handle, in insertion order.
func (t *ReplacedStepTree) Children(handle int) []int {
	return append([]int(nil), t.arena[handle].children...)
}

// AddFilter appends has-containers to a step's absorbed list.
func (t *ReplacedStepTree) AddFilter(handle int, containers ...traversal.HasContainer) {
	t.arena[handle].Filters = append(t.arena[handle].Filters, containers...)
}

// AddLabel records a traversal-label that was originally on a folded host
// step, so the result emitter re-emits it at the correct path position.
func (t *ReplacedStepTree) AddLabel(handle int, label string) {
	t.arena[handle].TravLabels = append(t.arena[handle].TravLabels, label)
}

// WalkDepthFirst visits every replaced-step in pre-order, root first. The
// visitor returning an error stops the walk and the error propagates.
func (t *ReplacedStepTree) WalkDepthFirst(visit func(handle int, step *ReplacedStep) error) error {
	if t.root == -1 {
		return nil
	}
	return t.walk(t.root, visit)
}

func (t *ReplacedStepTree) walk(handle int, visit func(int, *ReplacedStep) error) error {
	if err := visit(handle, t.arena[handle]); err != nil {
		return err
	}
	for _, c := range t.arena[handle].children {
		if err := t.walk(c, visit); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the depth-monotonicity invariant: every child's depth
// must be exactly one more than its parent's, and every non-root step
// must have IsSource=false.
func (t *ReplacedStepTree) Validate() error {
	return t.WalkDepthFirst(func(handle int, step *ReplacedStep) error {
		if handle == t.root {
			if !step.IsSource || step.Depth != 0 {
				return fmt.Errorf("plan: root step must have IsSource=true, Depth=0")
			}
			return nil
		}
		parent := t.arena[step.parent]
		if step.IsSource {
			return fmt.Errorf("plan: non-root step %d marked IsSource", handle)
		}
		if step.Depth != parent.Depth+1 {
			return fmt.Errorf("plan: step %d depth %d is not parent depth %d + 1", handle, step.Depth, parent.Depth)
		}
		return nil
	})
}
