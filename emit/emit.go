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

// Package emit is the result emitter: it drives a sqlbuild.Statement to
// completion row by row, decodes each row into path-preserving elements,
// and reconstructs the traversal-label bindings recorded on the
// replaced-step tree. The iterator shape (Next(ctx) (row, error),
// io.EOF-terminated) and resource-release-on-exhaustion-or-error idiom
// follow a row-iterator contract in the style of a SQL engine's
// execution-plan iterators.
package emit

import (
	"context"

	"github.com/dolthub/vitess/go/sqltypes"

	"github.com/prabu701/sqlg/sqlbuild"
)

// Element is one vertex or edge decoded from a row.
type Element struct {
	ID         interface{}
	Label      string
	IsEdge     bool
	Properties map[string]interface{}

	// PropertyTypes carries the catalog's wire type for each entry in
	// Properties, keyed the same way, so a caller can re-derive column
	// shape without going back to the catalog.
	PropertyTypes map[string]sqltypes.Type
}

// Emit is a single path-and-label unit: the path of elements in
// tree-traversal order, and the traversal-labels bound at each position.
type Emit struct {
	Path   []Element
	Labels [][]string
}

// Executor runs the SQL this package's Iterator was built from. It is a
// deliberately narrow slice of connection and transaction management: a
// single query surface and a single no-result-set exec surface for
// scratch-table setup/teardown.
type Executor interface {
	Query(ctx context.Context, sql string) (RowCursor, error)
	Exec(ctx context.Context, sql string) error
}

// RowCursor streams the rows of one executed statement.
type RowCursor interface {
	// Next advances to the next row and returns its column values in
	// statement column order, or io.EOF when exhausted.
	Next(ctx context.Context) ([]interface{}, error)
	Close() error
}

// Statement is the subset of sqlbuild.Statement this package consumes;
// kept as a type alias so callers pass sqlbuild.Build's result directly.
type Statement = sqlbuild.Statement

// Partition is the subset of sqlbuild.Partition this package consumes.
type Partition = sqlbuild.Partition
