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

package sqlbuild

import "github.com/prabu701/sqlg/traversal"

// splitTree implements statement splitting: if t's join count
// (node count - 1) exceeds maxJoins, it is cut at its deepest branching
// node into a head partition (the branch node kept as a leaf) and one
// tail partition per branch child (each re-rooted at a copy of the
// branch node, to be rejoined by element id in the emitter). Splitting
// recurses until every partition fits, or until no branching node
// remains to cut at (a single over-long chain is left whole, and Build
// rejects it with gerr.ErrDialectRejection rather than looping
// forever).
func splitTree(t *SchemaTableTree, maxJoins int) []*SchemaTableTree {
	if maxJoins <= 0 || joinCount(t) <= maxJoins {
		return []*SchemaTableTree{t}
	}

	branch := deepestBranch(t)
	if branch == -1 {
		return []*SchemaTableTree{t}
	}

	var out []*SchemaTableTree
	out = append(out, splitTree(headPartition(t, branch), maxJoins)...)
	for _, child := range t.arena[branch].children {
		out = append(out, splitTree(tailPartition(t, branch, child), maxJoins)...)
	}
	return out
}

func joinCount(t *SchemaTableTree) int { return t.Len() - 1 }

// deepestBranch returns the handle of the node with more than one child
// that has the greatest depth, or -1 if no node branches.
func deepestBranch(t *SchemaTableTree) int {
	best, bestDepth := -1, -1
	var walk func(h, depth int)
	walk = func(h, depth int) {
		if len(t.arena[h].children) > 1 && depth > bestDepth {
			best, bestDepth = h, depth
		}
		for _, c := range t.arena[h].children {
			walk(c, depth+1)
		}
	}
	if t.Root() != -1 {
		walk(t.Root(), 0)
	}
	return best
}

// headPartition clones the path from t's root down to and including cut,
// with cut stripped of its children.
func headPartition(t *SchemaTableTree, cut int) *SchemaTableTree {
	chain := pathToRoot(t, cut)
	nt := newSchemaTableTree()
	nt.cat = t.cat
	parent := -1
	for _, h := range chain {
		parent = nt.addNode(cloneNode(t.arena[h]), parent)
	}
	return nt
}

// tailPartition builds a new tree rooted at a copy of cut (carrying its
// own filters/properties again so the partition is independently
// evaluable, but without its traversal-labels, which the head partition
// already records), with only the given child subtree attached.
func tailPartition(t *SchemaTableTree, cut, child int) *SchemaTableTree {
	nt := newSchemaTableTree()
	nt.cat = t.cat
	rootClone := cloneNode(t.arena[cut])
	rootClone.TravLabels = nil
	rootHandle := nt.addNode(rootClone, -1)
	cloneSubtree(t, child, nt, rootHandle)
	return nt
}

func cloneSubtree(t *SchemaTableTree, orig int, nt *SchemaTableTree, parent int) {
	h := nt.addNode(cloneNode(t.arena[orig]), parent)
	for _, c := range t.arena[orig].children {
		cloneSubtree(t, c, nt, h)
	}
}

func cloneNode(n *tableNode) *tableNode {
	return &tableNode{
		Table:      n.Table,
		IsEdge:     n.IsEdge,
		Dir:        n.Dir,
		Filters:    append([]traversal.HasContainer(nil), n.Filters...),
		OrderBy:    n.OrderBy,
		TravLabels: append([]string(nil), n.TravLabels...),
		Properties: append([]string(nil), n.Properties...),
		FromColumn: n.FromColumn,
		ToColumn:   n.ToColumn,
	}
}

func pathToRoot(t *SchemaTableTree, handle int) []int {
	var rev []int
	for h := handle; h != -1; h = t.arena[h].parent {
		rev = append(rev, h)
	}
	chain := make([]int, len(rev))
	for i, h := range rev {
		chain[len(rev)-1-i] = h
	}
	return chain
}
