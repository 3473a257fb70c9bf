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

// Package sqlbuild is the SQL builder: it resolves a plan.ReplacedStepTree
// against a catalog.Catalog into one or more SchemaTableTrees, then
// projects each into a Statement, in the style of a query-plan tree
// built from small structs that assemble their own text bottom-up,
// composed by a root node.
package sqlbuild

import (
	"fmt"

	"github.com/prabu701/sqlg/catalog"
	"github.com/prabu701/sqlg/config"
	"github.com/prabu701/sqlg/gerr"
	"github.com/prabu701/sqlg/plan"
	"github.com/prabu701/sqlg/traversal"
)

// tableNode is one resolved node of a SchemaTableTree: a replaced-step
// bound to a concrete schema-qualified table.
type tableNode struct {
	Table   catalog.SchemaTable
	IsEdge  bool
	Dir     traversal.Direction
	Filters []traversal.HasContainer
	OrderBy *plan.OrderSpec

	// TravLabels carries over the replaced-step's labels, for the emitter.
	TravLabels []string

	// Properties, when non-empty, narrows this node's projected columns
	// to exactly these names (a values(...) step folded onto it);
	// otherwise projectedColumns falls back to id/label/filtered columns.
	Properties []string

	// FromColumn names the column on this node's own table, ToColumn the
	// column on the parent's table, that together form the join
	// predicate linking this node to its parent. Both empty for the root.
	FromColumn, ToColumn string

	parent   int
	children []int
}

// SchemaTableTree is one resolved candidate plan: a tree of tableNodes
// rooted at a single concrete vertex or edge table.
type SchemaTableTree struct {
	arena []*tableNode
	root  int

	// cat is the catalog this tree was resolved against, kept around so
	// the builder can tag each projected column with its column type.
	cat catalog.Catalog
}

func newSchemaTableTree() *SchemaTableTree {
	return &SchemaTableTree{root: -1}
}

func (t *SchemaTableTree) addNode(n *tableNode, parent int) int {
	handle := len(t.arena)
	n.parent = parent
	t.arena = append(t.arena, n)
	if parent == -1 {
		t.root = handle
	} else {
		t.arena[parent].children = append(t.arena[parent].children, handle)
	}
	return handle
}

// projectedColumns lists the logical column names this node contributes
// to the generated SELECT: an explicit values(...) projection if one was
// folded onto it, otherwise its id/label columns plus every column named
// by one of its own absorbed filters.
func (n *tableNode) projectedColumns() []string {
	if len(n.Properties) > 0 {
		return n.Properties
	}
	seen := map[string]bool{}
	var cols []string
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	add(n.Table.IDColumn)
	add(n.Table.LabelColumn)
	for _, f := range n.Filters {
		if f.Key != traversal.KeyLabel && f.Key != traversal.KeyID {
			add(f.Key)
		}
	}
	return cols
}

// Root returns the root node handle.
func (t *SchemaTableTree) Root() int { return t.root }

// Get returns the node at handle.
func (t *SchemaTableTree) Get(handle int) *tableNode { return t.arena[handle] }

// Len reports how many nodes the tree has.
func (t *SchemaTableTree) Len() int { return len(t.arena) }

// Resolve expands a ReplacedStepTree into every concrete SchemaTableTree
// it can bind to. A label filter resolves the root to a single table;
// with no label filter, every vertex label is a root candidate, and each
// candidate yields its own tree, which later yields its own Statement.
func Resolve(tree *plan.ReplacedStepTree, cat catalog.Catalog, cfg config.Config) ([]*SchemaTableTree, error) {
	if tree.Empty() {
		return nil, nil
	}
	rootHandle := tree.Root()
	rootStep := tree.Get(rootHandle)

	candidates, err := resolveRootCandidates(rootStep, cat, cfg)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, gerr.ErrTopologyMiss.New(labelFilterValue(rootStep))
	}

	var out []*SchemaTableTree
	for _, rootTable := range candidates {
		st := newSchemaTableTree()
		st.cat = cat
		filters, err := narrowFilters(cat, rootTable, rootStep.Filters, len(candidates) == 1)
		if err != nil {
			return nil, err
		}
		rootNode := &tableNode{
			Table:      rootTable,
			IsEdge:     rootStep.Kind == plan.KindSourceE,
			Filters:    filters,
			OrderBy:    rootStep.OrderBy,
			TravLabels: rootStep.TravLabels,
		}
		rootNodeHandle := st.addNode(rootNode, -1)
		if err := resolveChildren(st, rootNodeHandle, tree, rootHandle, rootTable, cat, cfg); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func resolveRootCandidates(rootStep *plan.ReplacedStep, cat catalog.Catalog, cfg config.Config) ([]catalog.SchemaTable, error) {
	if rootStep.Kind == plan.KindSourceE {
		if label := labelFilterValue(rootStep); label != "" && !cfg.IgnoreLabelOptimization {
			t, ok := cat.ResolveEdgeTable(label)
			if !ok {
				return nil, nil
			}
			return []catalog.SchemaTable{t}, nil
		}
		return nil, fmt.Errorf("sqlbuild: E() source without a label-keyed filter cannot be resolved against this catalog")
	}

	if label := labelFilterValue(rootStep); label != "" && !cfg.IgnoreLabelOptimization {
		t, ok := cat.ResolveVertexTable(label)
		if !ok {
			return nil, nil
		}
		return []catalog.SchemaTable{t}, nil
	}

	var out []catalog.SchemaTable
	for _, label := range cat.VertexLabels() {
		t, ok := cat.ResolveVertexTable(label)
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// labelFilterValue returns step's single target label when it has exactly
// one, otherwise the string value of a reserved label-keyed filter on
// step, or "" if neither is present.
func labelFilterValue(step *plan.ReplacedStep) string {
	if len(step.TargetLabels) == 1 {
		return step.TargetLabels[0]
	}
	for _, c := range step.Filters {
		if c.Key == traversal.KeyLabel {
			if s, ok := c.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// narrowFilters keeps only the containers a node can actually apply:
// reserved keys (label/id) pass through untouched since table selection
// handles them structurally, and every other key is kept only if cat
// reports a real column for it on table. strict marks table as the sole
// candidate this replaced-step resolved to (an explicit label, or a
// deterministic edge-to-vertex hop): there, a missing column is a schema
// error. When table is one of several candidates under label
// polymorphism, the same filter may simply not apply to this table, so
// it is dropped rather than rejected.
func narrowFilters(cat catalog.Catalog, table catalog.SchemaTable, filters []traversal.HasContainer, strict bool) ([]traversal.HasContainer, error) {
	if len(filters) == 0 {
		return filters, nil
	}
	out := make([]traversal.HasContainer, 0, len(filters))
	for _, f := range filters {
		if f.Key == traversal.KeyLabel || f.Key == traversal.KeyID {
			out = append(out, f)
			continue
		}
		if _, ok := cat.ColumnType(table, f.Key); ok {
			out = append(out, f)
			continue
		}
		if strict {
			return nil, gerr.ErrColumnMiss.New(f.Key, table.Table)
		}
	}
	return out, nil
}

// resolveChildren recurses over planHandle's children, expanding each
// into an edge node (plus, for out/in/both-edge kinds, an appended
// vertex node for the opposite endpoint) or a direct out-vertex/in-vertex
// node when planHandle's child is that kind.
func resolveChildren(
	st *SchemaTableTree,
	parentNodeHandle int,
	tree *plan.ReplacedStepTree,
	planHandle int,
	parentTable catalog.SchemaTable,
	cat catalog.Catalog,
	cfg config.Config,
) error {
	for _, childPlanHandle := range tree.Children(planHandle) {
		child := tree.Get(childPlanHandle)

		switch child.Kind {
		case plan.KindOutVertex, plan.KindInVertex:
			dir := traversal.DirOut
			if child.Kind == plan.KindInVertex {
				dir = traversal.DirIn
			}
			vTable, ok := cat.VertexTableForEdge(parentTable, dir)
			if !ok {
				return gerr.ErrTopologyMiss.New(parentTable.Table)
			}
			filters, err := narrowFilters(cat, vTable, child.Filters, true)
			if err != nil {
				return err
			}
			vHandle := st.addNode(&tableNode{
				Table:      vTable,
				Filters:    filters,
				OrderBy:    child.OrderBy,
				TravLabels: child.TravLabels,
			}, parentNodeHandle)
			if err := resolveChildren(st, vHandle, tree, childPlanHandle, vTable, cat, cfg); err != nil {
				return err
			}

		case plan.KindOutEdge, plan.KindInEdge, plan.KindBothEdge:
			dirs := edgeDirs(child.Kind)
			var endpoints []catalog.EdgeEndpoint
			var endpointDirs []traversal.Direction
			for _, dir := range dirs {
				for _, ep := range cat.EdgeTablesFrom(parentTable, dir, child.TargetLabels) {
					endpoints = append(endpoints, ep)
					endpointDirs = append(endpointDirs, dir)
				}
			}
			if len(endpoints) == 0 {
				return gerr.ErrTopologyMiss.New(labelConstraintDesc(child.TargetLabels))
			}
			for i, ep := range endpoints {
				dir := endpointDirs[i]
				filters, err := narrowFilters(cat, ep.EdgeTable, child.Filters, len(endpoints) == 1)
				if err != nil {
					return err
				}
				// Join convention: a child's (FromColumn on its own table)
				// equals its parent's (ToColumn on the parent's table).
				edgeHandle := st.addNode(&tableNode{
					Table:      ep.EdgeTable,
					IsEdge:     true,
					Dir:        dir,
					Filters:    filters,
					OrderBy:    child.OrderBy,
					TravLabels: child.TravLabels,
					FromColumn: ep.FromColumn,
					ToColumn:   parentTable.IDColumn,
				}, parentNodeHandle)

				vertexHandle := st.addNode(&tableNode{
					Table:      ep.OppositeTable,
					FromColumn: ep.OppositeTable.IDColumn,
					ToColumn:   ep.ToColumn,
				}, edgeHandle)

				if err := resolveChildren(st, vertexHandle, tree, childPlanHandle, ep.OppositeTable, cat, cfg); err != nil {
					return err
				}
			}

		case plan.KindProperties:
			// Properties steps narrow the projected column list of the
			// node they're folded onto rather than introducing a new one.
			st.Get(parentNodeHandle).Properties = append(st.Get(parentNodeHandle).Properties, child.TargetLabels...)
			if err := resolveChildren(st, parentNodeHandle, tree, childPlanHandle, parentTable, cat, cfg); err != nil {
				return err
			}

		default:
			return fmt.Errorf("sqlbuild: unexpected replaced-step kind %s as a non-root node", child.Kind)
		}
	}
	return nil
}

func edgeDirs(k plan.StepKind) []traversal.Direction {
	switch k {
	case plan.KindOutEdge:
		return []traversal.Direction{traversal.DirOut}
	case plan.KindInEdge:
		return []traversal.Direction{traversal.DirIn}
	default:
		return []traversal.Direction{traversal.DirOut, traversal.DirIn}
	}
}

func labelConstraintDesc(labels []string) string {
	if len(labels) == 0 {
		return "<unconstrained>"
	}
	return fmt.Sprintf("%v", labels)
}
