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

// Package memcatalog is an in-memory catalog.Catalog used by this
// module's own tests, built on the atomic-snapshot-swap idiom common to
// small in-memory stores, narrowed to the catalog's read shape rather
// than a full read/write table surface.
package memcatalog

import (
	"sync"
	"sync/atomic"

	"github.com/prabu701/sqlg/catalog"
	"github.com/prabu701/sqlg/sql/types"
	"github.com/prabu701/sqlg/traversal"
)

type edgeEnds struct {
	out catalog.SchemaTable
	in  catalog.SchemaTable
}

type snapshot struct {
	vertexTables map[string]catalog.SchemaTable
	// edgeLabelTables maps an edge label directly to its table, for
	// ResolveEdgeTable.
	edgeLabelTables map[string]catalog.SchemaTable
	// edges is keyed by (fromVertexTable.Table, direction, edgeLabel).
	edges map[edgeKey][]catalog.EdgeEndpoint
	// edgeEnds is keyed by edge table name, for VertexTableForEdge.
	edgeEnds map[string]edgeEnds
	columns  map[string]map[string]types.Type // table name -> column -> type
}

type edgeKey struct {
	fromTable string
	dir       traversal.Direction
	label     string
}

func emptySnapshot() *snapshot {
	return &snapshot{
		vertexTables:    map[string]catalog.SchemaTable{},
		edgeLabelTables: map[string]catalog.SchemaTable{},
		edges:           map[edgeKey][]catalog.EdgeEndpoint{},
		edgeEnds:        map[string]edgeEnds{},
		columns:         map[string]map[string]types.Type{},
	}
}

// Catalog is an in-memory catalog.Catalog. Reads never take a lock: they
// atomically load the current snapshot pointer. The single writer holds
// writeMu for the duration of a mutation and publishes its result with
// one atomic store, so a reader observes either the whole mutation or
// none of it, never a partial update.
type Catalog struct {
	current atomic.Pointer[snapshot]
	writeMu sync.Mutex
}

// New returns an empty catalog.
func New() *Catalog {
	c := &Catalog{}
	c.current.Store(emptySnapshot())
	return c
}

func (c *Catalog) VertexLabels() []string {
	snap := c.current.Load()
	out := make([]string, 0, len(snap.vertexTables))
	for label := range snap.vertexTables {
		out = append(out, label)
	}
	return out
}

func (c *Catalog) ResolveVertexTable(label string) (catalog.SchemaTable, bool) {
	t, ok := c.current.Load().vertexTables[label]
	return t, ok
}

func (c *Catalog) ResolveEdgeTable(label string) (catalog.SchemaTable, bool) {
	t, ok := c.current.Load().edgeLabelTables[label]
	return t, ok
}

func (c *Catalog) VertexTableForEdge(edgeTable catalog.SchemaTable, dir traversal.Direction) (catalog.SchemaTable, bool) {
	ends, ok := c.current.Load().edgeEnds[edgeTable.Table]
	if !ok {
		return catalog.SchemaTable{}, false
	}
	if dir == traversal.DirIn {
		return ends.in, true
	}
	return ends.out, true
}

func (c *Catalog) EdgeTablesFrom(vertexTable catalog.SchemaTable, dir traversal.Direction, labelConstraint []string) []catalog.EdgeEndpoint {
	snap := c.current.Load()
	if len(labelConstraint) == 0 {
		var out []catalog.EdgeEndpoint
		for k, v := range snap.edges {
			if k.fromTable == vertexTable.Table && k.dir == dir {
				out = append(out, v...)
			}
		}
		return out
	}
	var out []catalog.EdgeEndpoint
	for _, label := range labelConstraint {
		out = append(out, snap.edges[edgeKey{fromTable: vertexTable.Table, dir: dir, label: label}]...)
	}
	return out
}

func (c *Catalog) ColumnType(table catalog.SchemaTable, column string) (types.Type, bool) {
	cols, ok := c.current.Load().columns[table.Table]
	if !ok {
		return nil, false
	}
	t, ok := cols[column]
	return t, ok
}

// Mutation accumulates schema additions to apply atomically. Obtain one
// from Catalog.Begin; the zero value has no catalog or working snapshot
// and is not usable.
type Mutation struct {
	c    *Catalog
	next *snapshot
}

// Begin starts a mutation. The caller holds the catalog's write lock
// until Commit or Discard; every reader, the writer included, keeps
// seeing the pre-mutation snapshot through the Catalog's read methods
// until Commit. Mutation has no read methods of its own.
func (c *Catalog) Begin() *Mutation {
	c.writeMu.Lock()
	cur := c.current.Load()
	next := &snapshot{
		vertexTables:    copyVertexTables(cur.vertexTables),
		edgeLabelTables: copyVertexTables(cur.edgeLabelTables),
		edges:           copyEdges(cur.edges),
		edgeEnds:        copyEdgeEnds(cur.edgeEnds),
		columns:         copyColumns(cur.columns),
	}
	return &Mutation{c: c, next: next}
}

// AddVertexTable registers label as backed by table, with the given
// column types.
func (m *Mutation) AddVertexTable(label string, table catalog.SchemaTable, columns map[string]types.Type) {
	table.Label = label
	m.next.vertexTables[label] = table
	m.setColumns(table.Table, columns)
}

// AddEdgeTable registers an edge table reachable from fromVertexTable in
// dir under edgeLabel.
func (m *Mutation) AddEdgeTable(fromVertexTable catalog.SchemaTable, dir traversal.Direction, edgeLabel string, endpoint catalog.EdgeEndpoint, columns map[string]types.Type) {
	endpoint.EdgeTable.Label = edgeLabel
	k := edgeKey{fromTable: fromVertexTable.Table, dir: dir, label: edgeLabel}
	m.next.edges[k] = append(m.next.edges[k], endpoint)
	m.setColumns(endpoint.EdgeTable.Table, columns)
	m.next.edgeLabelTables[edgeLabel] = endpoint.EdgeTable

	ends := m.next.edgeEnds[endpoint.EdgeTable.Table]
	if dir == traversal.DirIn {
		ends.in, ends.out = fromVertexTable, endpoint.OppositeTable
	} else {
		ends.out, ends.in = fromVertexTable, endpoint.OppositeTable
	}
	m.next.edgeEnds[endpoint.EdgeTable.Table] = ends
}

func (m *Mutation) setColumns(table string, columns map[string]types.Type) {
	dst := map[string]types.Type{}
	for k, v := range columns {
		dst[k] = v
	}
	m.next.columns[table] = dst
}

// Commit publishes the mutation so every subsequent read (on any thread,
// including this one) observes it, and releases the write lock.
func (m *Mutation) Commit() {
	m.c.current.Store(m.next)
	m.c.writeMu.Unlock()
}

// Discard abandons the mutation and releases the write lock without
// publishing anything.
func (m *Mutation) Discard() {
	m.c.writeMu.Unlock()
}

func copyVertexTables(src map[string]catalog.SchemaTable) map[string]catalog.SchemaTable {
	dst := make(map[string]catalog.SchemaTable, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyEdges(src map[edgeKey][]catalog.EdgeEndpoint) map[edgeKey][]catalog.EdgeEndpoint {
	dst := make(map[edgeKey][]catalog.EdgeEndpoint, len(src))
	for k, v := range src {
		dst[k] = append([]catalog.EdgeEndpoint(nil), v...)
	}
	return dst
}

func copyEdgeEnds(src map[string]edgeEnds) map[string]edgeEnds {
	dst := make(map[string]edgeEnds, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyColumns(src map[string]map[string]types.Type) map[string]map[string]types.Type {
	dst := make(map[string]map[string]types.Type, len(src))
	for k, v := range src {
		inner := make(map[string]types.Type, len(v))
		for ck, cv := range v {
			inner[ck] = cv
		}
		dst[k] = inner
	}
	return dst
}
