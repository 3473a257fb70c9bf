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

// Package predicate recognizes the foldable has-container shapes: the
// six patterns whose SQL WHERE form is predictable enough to push down.
// Anything else is left for the host interpreter.
package predicate

import "github.com/prabu701/sqlg/traversal"

// Shape is one of the foldable has-container patterns.
type Shape int

const (
	ShapeComparison Shape = iota
	ShapeHalfOpenRange
	ShapeOpenRange
	ShapeExterior
	ShapeMembership
	ShapeText
)

func (s Shape) String() string {
	switch s {
	case ShapeComparison:
		return "comparison"
	case ShapeHalfOpenRange:
		return "half-open-range"
	case ShapeOpenRange:
		return "open-range"
	case ShapeExterior:
		return "exterior"
	case ShapeMembership:
		return "membership"
	case ShapeText:
		return "text"
	default:
		return "unknown"
	}
}

var comparisonOps = map[traversal.Op]bool{
	traversal.OpEq: true, traversal.OpNeq: true,
	traversal.OpLt: true, traversal.OpLte: true,
	traversal.OpGt: true, traversal.OpGte: true,
}

var textOps = map[traversal.Op]bool{
	traversal.OpContains: true, traversal.OpNContains: true,
	traversal.OpContainsCIS: true, traversal.OpNContainsCIS: true,
	traversal.OpStartsWith: true, traversal.OpNStartsWith: true,
	traversal.OpEndsWith: true, traversal.OpNEndsWith: true,
}

func isReserved(key string) bool {
	return key == traversal.KeyLabel || key == traversal.KeyID
}

// Classify inspects the has-containers absorbed by a single host filter
// step and reports the one foldable shape they match, if any. Multiple
// containers classify together only for the two range shapes; every
// other shape requires exactly one container.
func Classify(containers []traversal.HasContainer) (Shape, bool) {
	switch len(containers) {
	case 1:
		return classifySingle(containers[0])
	case 2:
		return classifyPair(containers[0], containers[1])
	default:
		return 0, false
	}
}

func classifySingle(c traversal.HasContainer) (Shape, bool) {
	op := c.Pred.Op

	if op == traversal.OpOr {
		preds, ok := c.Pred.Value.([]traversal.Predicate)
		if !ok || len(preds) != 2 {
			return 0, false
		}
		if preds[0].Op == traversal.OpLt && preds[1].Op == traversal.OpGt {
			return ShapeExterior, true
		}
		if preds[0].Op == traversal.OpGt && preds[1].Op == traversal.OpLt {
			return ShapeExterior, true
		}
		return 0, false
	}

	if comparisonOps[op] {
		return ShapeComparison, true
	}

	if op == traversal.OpWithin || op == traversal.OpWithout {
		if isReserved(c.Key) {
			return 0, false
		}
		return ShapeMembership, true
	}

	if textOps[op] {
		if isReserved(c.Key) {
			return 0, false
		}
		return ShapeText, true
	}

	return 0, false
}

func classifyPair(a, b traversal.HasContainer) (Shape, bool) {
	if a.Key != b.Key {
		return 0, false
	}
	if a.Pred.Op == traversal.OpGte && b.Pred.Op == traversal.OpLt {
		return ShapeHalfOpenRange, true
	}
	if a.Pred.Op == traversal.OpGt && b.Pred.Op == traversal.OpLt {
		return ShapeOpenRange, true
	}
	return 0, false
}
