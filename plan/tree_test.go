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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prabu701/sqlg/traversal"
)

func TestEmptyTreeHasNoRoot(t *testing.T) {
	require := require.New(t)
	tree := NewReplacedStepTree()
	require.True(tree.Empty())
	require.Equal(-1, tree.Root())
	require.NoError(tree.Validate())
}

func TestFirstAddReplacedEstablishesSourceRoot(t *testing.T) {
	require := require.New(t)
	tree := NewReplacedStepTree()
	root := tree.AddReplaced(&ReplacedStep{Kind: KindSourceV, IsSource: false, Depth: 99})
	require.Equal(root, tree.Root())
	step := tree.Get(root)
	require.True(step.IsSource)
	require.Equal(0, step.Depth)
	require.Equal(-1, tree.Parent(root))
}

func TestAddReplacedChainsUnderCursorWithMonotonicDepth(t *testing.T) {
	require := require.New(t)
	tree := NewReplacedStepTree()
	root := tree.AddReplaced(&ReplacedStep{Kind: KindSourceV})
	edge := tree.AddReplaced(&ReplacedStep{Kind: KindOutEdge, TargetLabels: []string{"knows"}})
	vertex := tree.AddReplaced(&ReplacedStep{Kind: KindOutVertex})

	require.Equal(root, tree.Parent(edge))
	require.Equal(edge, tree.Parent(vertex))
	require.Equal(1, tree.Get(edge).Depth)
	require.Equal(2, tree.Get(vertex).Depth)
	require.Equal([]int{edge}, tree.Children(root))
	require.Equal([]int{vertex}, tree.Children(edge))
	require.NoError(tree.Validate())
}

func TestSetCursorBranchesASibling(t *testing.T) {
	require := require.New(t)
	tree := NewReplacedStepTree()
	root := tree.AddReplaced(&ReplacedStep{Kind: KindSourceV})
	left := tree.AddReplaced(&ReplacedStep{Kind: KindOutEdge})
	tree.SetCursor(root)
	right := tree.AddReplaced(&ReplacedStep{Kind: KindInEdge})

	children := tree.Children(root)
	require.ElementsMatch([]int{left, right}, children)
	require.Equal(1, tree.Get(left).Depth)
	require.Equal(1, tree.Get(right).Depth)
	require.NoError(tree.Validate())
}

func TestAddFilterAndAddLabelAccumulate(t *testing.T) {
	require := require.New(t)
	tree := NewReplacedStepTree()
	root := tree.AddReplaced(&ReplacedStep{Kind: KindSourceV})

	tree.AddFilter(root, traversal.NewHasContainer("name", traversal.OpEq, "marko"))
	tree.AddFilter(root, traversal.NewHasContainer("age", traversal.OpGte, int64(29)))
	tree.AddLabel(root, "a")
	tree.AddLabel(root, "b")

	step := tree.Get(root)
	require.Len(step.Filters, 2)
	require.Equal([]string{"a", "b"}, step.TravLabels)
}

func TestWalkDepthFirstVisitsRootFirstThenChildrenInOrder(t *testing.T) {
	require := require.New(t)
	tree := NewReplacedStepTree()
	root := tree.AddReplaced(&ReplacedStep{Kind: KindSourceV})
	edge := tree.AddReplaced(&ReplacedStep{Kind: KindOutEdge})
	tree.SetCursor(root)
	props := tree.AddReplaced(&ReplacedStep{Kind: KindProperties})

	var visited []int
	err := tree.WalkDepthFirst(func(h int, _ *ReplacedStep) error {
		visited = append(visited, h)
		return nil
	})
	require.NoError(err)
	require.Equal([]int{root, edge, props}, visited)
}

func TestValidateCatchesDepthMismatch(t *testing.T) {
	require := require.New(t)
	tree := NewReplacedStepTree()
	root := tree.AddReplaced(&ReplacedStep{Kind: KindSourceV})
	child := tree.AddReplaced(&ReplacedStep{Kind: KindOutEdge})

	tree.Get(child).Depth = 5
	require.Error(tree.Validate())
	_ = root
}

func TestStepKindEmitsExcludesOnlyProperties(t *testing.T) {
	require := require.New(t)
	for _, k := range []StepKind{KindSourceV, KindSourceE, KindOutEdge, KindInEdge, KindBothEdge, KindOutVertex, KindInVertex} {
		require.True(k.Emits(), k.String())
	}
	require.False(KindProperties.Emits())
}

func TestStepKindStringCoversEveryVariant(t *testing.T) {
	require := require.New(t)
	kinds := []StepKind{KindSourceV, KindSourceE, KindOutEdge, KindInEdge, KindBothEdge, KindOutVertex, KindInVertex, KindProperties}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		require.NotEqual("unknown", s)
		require.False(seen[s])
		seen[s] = true
	}
	require.Equal("unknown", StepKind(99).String())
}
