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

// Package catalog declares the topology catalog contract: schema
// resolution and topology enumeration consumed only through this
// interface, never implemented here. memcatalog provides an in-memory
// reference implementation used by this module's own tests.
package catalog

import (
	"github.com/prabu701/sqlg/sql/types"
	"github.com/prabu701/sqlg/traversal"
)

// SchemaTable is the concrete (schema, table) pair backing a vertex- or
// edge-label.
type SchemaTable struct {
	Schema string
	Table  string

	// IDColumn and LabelColumn name the columns holding the element's id
	// and label, if the table stores label polymorphically (shared
	// table); LabelColumn is empty for single-label tables.
	IDColumn    string
	LabelColumn string

	// Label is the graph label this table was registered under, for
	// single-label tables (LabelColumn empty) where the label isn't
	// itself a row value.
	Label string
}

// EdgeEndpoint pairs an edge table with the vertex table at its opposite
// endpoint from the one resolution is navigating away from.
type EdgeEndpoint struct {
	EdgeTable     SchemaTable
	OppositeTable SchemaTable

	// FromColumn/ToColumn name the edge table's foreign-key columns
	// toward the origin and opposite vertex tables respectively.
	FromColumn string
	ToColumn   string
}

// Catalog resolves graph labels to concrete relational tables. It must
// tolerate concurrent readers alongside a single writer without the
// reader path taking any lock of its own.
type Catalog interface {
	// VertexLabels lists every known vertex label, for root resolution
	// when no label-keyed filter narrows the candidate set.
	VertexLabels() []string

	// ResolveVertexTable returns the table backing label, or ok=false if
	// no such vertex label is known.
	ResolveVertexTable(label string) (table SchemaTable, ok bool)

	// ResolveEdgeTable returns the table backing edge label, or ok=false if
	// no such edge label is known. Used to resolve an E() source directly
	// by a label-keyed absorbed filter, mirroring ResolveVertexTable for
	// V() sources.
	ResolveEdgeTable(label string) (table SchemaTable, ok bool)

	// EdgeTablesFrom enumerates the edge tables reachable from vertexTable
	// in dir (DirOut or DirIn; DirBoth is the builder's concern, resolved
	// as the union of both calls), narrowed to labelConstraint when
	// non-empty.
	EdgeTablesFrom(vertexTable SchemaTable, dir traversal.Direction, labelConstraint []string) []EdgeEndpoint

	// VertexTableForEdge resolves the vertex table at the dir end of
	// edgeTable directly, for the out-vertex/in-vertex replaced-step kind
	// (an outV()/inV() step taken directly off an edge, as from an E()
	// source) rather than via EdgeTablesFrom's vertex-to-edge direction.
	VertexTableForEdge(edgeTable SchemaTable, dir traversal.Direction) (table SchemaTable, ok bool)

	// ColumnType reports the type of column on table, or ok=false if the
	// column doesn't exist there.
	ColumnType(table SchemaTable, column string) (t types.Type, ok bool)
}
