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

package predicate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prabu701/sqlg/traversal"
)

func TestClassifySingleContainerShapes(t *testing.T) {
	testCases := []struct {
		name      string
		container traversal.HasContainer
		shape     Shape
		ok        bool
	}{
		{"equals", traversal.NewHasContainer("name", traversal.OpEq, "marko"), ShapeComparison, true},
		{"not equals", traversal.NewHasContainer("name", traversal.OpNeq, "marko"), ShapeComparison, true},
		{"less than", traversal.NewHasContainer("age", traversal.OpLt, int64(30)), ShapeComparison, true},
		{"membership", traversal.NewHasContainer("name", traversal.OpWithin, []string{"marko", "josh"}), ShapeMembership, true},
		{"negated membership", traversal.NewHasContainer("name", traversal.OpWithout, []string{"marko"}), ShapeMembership, true},
		{"membership on reserved key rejected", traversal.NewHasContainer(traversal.KeyID, traversal.OpWithin, []int64{1, 2}), 0, false},
		{"starts with", traversal.NewHasContainer("name", traversal.OpStartsWith, "mar"), ShapeText, true},
		{"text on reserved key rejected", traversal.NewHasContainer(traversal.KeyLabel, traversal.OpContains, "person"), 0, false},
		{"exterior disjunction", traversal.NewOrHasContainer("age", traversal.Predicate{Op: traversal.OpLt, Value: int64(10)}, traversal.Predicate{Op: traversal.OpGt, Value: int64(20)}), ShapeExterior, true},
		{"exterior disjunction, reversed operand order", traversal.NewOrHasContainer("age", traversal.Predicate{Op: traversal.OpGt, Value: int64(20)}, traversal.Predicate{Op: traversal.OpLt, Value: int64(10)}), ShapeExterior, true},
		{"disjunction of two comparisons is not an exterior shape", traversal.NewOrHasContainer("age", traversal.Predicate{Op: traversal.OpLt, Value: int64(10)}, traversal.Predicate{Op: traversal.OpLt, Value: int64(20)}), 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			shape, ok := Classify([]traversal.HasContainer{tc.container})
			require.Equal(tc.ok, ok)
			if ok {
				require.Equal(tc.shape, shape)
			}
		})
	}
}

func TestComparisonFoldsToWhereEquals(t *testing.T) {
	require := require.New(t)
	shape, ok := Classify([]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpEq, "marko")})
	require.True(ok)
	require.Equal(ShapeComparison, shape)
}

func TestHalfOpenRangeFolds(t *testing.T) {
	require := require.New(t)
	containers := []traversal.HasContainer{
		traversal.NewHasContainer("age", traversal.OpGte, int64(29)),
		traversal.NewHasContainer("age", traversal.OpLt, int64(35)),
	}
	shape, ok := Classify(containers)
	require.True(ok)
	require.Equal(ShapeHalfOpenRange, shape)
}

func TestOpenRangeFolds(t *testing.T) {
	require := require.New(t)
	containers := []traversal.HasContainer{
		traversal.NewHasContainer("age", traversal.OpGt, int64(29)),
		traversal.NewHasContainer("age", traversal.OpLt, int64(35)),
	}
	shape, ok := Classify(containers)
	require.True(ok)
	require.Equal(ShapeOpenRange, shape)
}

func TestRangePairOnDifferentKeysDoesNotFold(t *testing.T) {
	require := require.New(t)
	containers := []traversal.HasContainer{
		traversal.NewHasContainer("age", traversal.OpGte, int64(29)),
		traversal.NewHasContainer("weight", traversal.OpLt, 35.0),
	}
	_, ok := Classify(containers)
	require.False(ok)
}

func TestMoreThanTwoContainersNeverFold(t *testing.T) {
	require := require.New(t)
	containers := []traversal.HasContainer{
		traversal.NewHasContainer("age", traversal.OpGte, int64(1)),
		traversal.NewHasContainer("age", traversal.OpLt, int64(2)),
		traversal.NewHasContainer("age", traversal.OpLt, int64(3)),
	}
	_, ok := Classify(containers)
	require.False(ok)
}

func TestZeroContainersNeverFold(t *testing.T) {
	require := require.New(t)
	_, ok := Classify(nil)
	require.False(ok)
}

func TestShapeStringCoversEveryVariant(t *testing.T) {
	require := require.New(t)
	shapes := []Shape{ShapeComparison, ShapeHalfOpenRange, ShapeOpenRange, ShapeExterior, ShapeMembership, ShapeText}
	seen := map[string]bool{}
	for _, s := range shapes {
		str := s.String()
		require.NotEqual("unknown", str)
		require.False(seen[str], "duplicate shape string %q", str)
		seen[str] = true
	}
	require.Equal("unknown", Shape(99).String())
}
