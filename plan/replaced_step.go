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

// Package plan holds the in-memory compilation plan: ReplacedStep and
// ReplacedStepTree. The tree is built once by the strategy rewriter and
// handed, unmodified from then on, to the SQL builder.
package plan

import "github.com/prabu701/sqlg/traversal"

// StepKind tags what a ReplacedStep stands in for.
type StepKind int

const (
	KindSourceV StepKind = iota
	KindSourceE
	KindOutEdge
	KindInEdge
	KindBothEdge
	KindOutVertex
	KindInVertex
	KindProperties
)

func (k StepKind) String() string {
	switch k {
	case KindSourceV:
		return "source-V"
	case KindSourceE:
		return "source-E"
	case KindOutEdge:
		return "out-edge"
	case KindInEdge:
		return "in-edge"
	case KindBothEdge:
		return "both-edge"
	case KindOutVertex:
		return "out-vertex"
	case KindInVertex:
		return "in-vertex"
	case KindProperties:
		return "properties"
	default:
		return "unknown"
	}
}

// Emits reports whether this step kind produces graph elements into the
// result stream (property-projection steps do not: they narrow the
// column list instead).
func (k StepKind) Emits() bool {
	return k != KindProperties
}

// ReplacedStep is one node of the compilation plan: the original step
// kind, the labels constraining which concrete tables it may resolve to,
// the filters it absorbed, and the traversal-labels carried over from
// folded host steps.
type ReplacedStep struct {
	Kind StepKind

	// TargetLabels constrains which vertex/edge labels this step may
	// navigate to or resolve from; empty means unconstrained.
	TargetLabels []string

	// Filters is the ordered list of has-containers absorbed into this
	// step.
	Filters []traversal.HasContainer

	// TravLabels are traversal-labels (as('x')) carried over from folded
	// host steps, in insertion order.
	TravLabels []string

	// Depth is the distance from the source step; the source step has
	// depth 0.
	Depth int

	// IsSource is true only for the root of the tree.
	IsSource bool

	// OrderBy is set when a trivially-expressible order().by(key) step
	// was folded in immediately after this step.
	OrderBy *OrderSpec

	// parent/children are arena indices; -1 means none. Set by the tree,
	// never directly.
	parent   int
	children []int
}

// OrderSpec is a single, SQL-trivial ordering key.
type OrderSpec struct {
	Key       string
	Ascending bool
}

// Emits reports whether this step emits elements into the result stream.
func (s *ReplacedStep) Emits() bool { return s.Kind.Emits() }
