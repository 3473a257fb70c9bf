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

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dolthub/vitess/go/sqltypes"

	"github.com/prabu701/sqlg/catalog"
	"github.com/prabu701/sqlg/config"
	"github.com/prabu701/sqlg/dialect"
	"github.com/prabu701/sqlg/gerr"
	"github.com/prabu701/sqlg/traversal"
)

// maxAliasLength is a conservative identifier-length bound shared by the
// dialects this module targets (Postgres's own limit is 63).
const maxAliasLength = 63

// AliasEntry lets the result emitter recover (nodeIndex, logicalColumn)
// from a generated column alias.
type AliasEntry struct {
	NodeIndex int
	Column    string
	Alias     string
	Table     catalog.SchemaTable
	IsEdge    bool

	// VitessType is the wire type of Column on Table, per the catalog
	// this statement was resolved against; the zero value means the
	// catalog had no type on record for it (a tree built without a
	// catalog, as in a hand-built test fixture).
	VitessType sqltypes.Type
}

// Partition is one executable SELECT and its alias map. A Statement has
// more than one Partition only when splitting (below) was required.
type Partition struct {
	SQL     string
	Aliases []AliasEntry
	// RootIDAlias is the alias of this partition's root node's id column,
	// used by the emitter to merge partitions by element id.
	RootIDAlias string
	// ScratchTables lists the temp tables this partition's SQL depends
	// on; the emitter creates them before querying and drops them on
	// DONE or FAILED.
	ScratchTables []ScratchTableSpec

	// NodeLabels carries each node's traversal-labels forward, keyed by
	// the same NodeIndex used in Aliases, for the emitter to attach to
	// the corresponding path element.
	NodeLabels map[int][]string
}

// Statement is the output of Build: one or more partitions that together
// answer a single resolved SchemaTableTree.
type Statement struct {
	Partitions []Partition

	// IsForMultipleQueries is true when Partitions has more than one
	// entry, so callers know ordering across partitions must be
	// re-imposed in memory if needed.
	IsForMultipleQueries bool

	// NeedsScratchTable is true when any partition's membership predicate
	// needs temp-table materialization before execution.
	NeedsScratchTable bool

	// MayQueryDuringBuild reports whether building this statement ran a
	// query against the backend. Build defers scratch-table creation to
	// the emitter, so it is always false.
	MayQueryDuringBuild bool
}

// Build projects a resolved SchemaTableTree into a Statement. It never
// touches a backend connection: large IN-lists are recorded via
// NeedsScratchTable rather than materialized here, so the builder itself
// never queries the backend during planning; table materialization is
// left to the emitter at actual execution time. The only catalog access
// is reading column types from the catalog the tree was resolved
// against, to tag each AliasEntry.
func Build(t *SchemaTableTree, dia dialect.Dialect, cfg config.Config) (Statement, error) {
	maxJoins := cfg.MaxJoinsPerStatement
	if maxJoins <= 0 {
		maxJoins = dia.MaxJoinsPerSelect()
	}

	parts := splitTree(t, maxJoins)
	stmt := Statement{IsForMultipleQueries: len(parts) > 1}

	for _, pt := range parts {
		if maxJoins > 0 && joinCount(pt) > maxJoins {
			root := pt.Get(pt.Root())
			return Statement{}, gerr.ErrDialectRejection.New(fmt.Sprintf(
				"partition rooted at %q needs %d joins but %s allows at most %d and has no branch left to split at",
				root.Table.Table, joinCount(pt), dia.Name(), maxJoins))
		}
		sql, aliases, scratch, rootIDAlias, nodeLabels, err := buildSinglePartition(pt, dia, cfg)
		if err != nil {
			return Statement{}, err
		}
		stmt.Partitions = append(stmt.Partitions, Partition{SQL: sql, Aliases: aliases, RootIDAlias: rootIDAlias, ScratchTables: scratch, NodeLabels: nodeLabels})
		stmt.NeedsScratchTable = stmt.NeedsScratchTable || len(scratch) > 0
	}
	return stmt, nil
}

func buildSinglePartition(t *SchemaTableTree, dia dialect.Dialect, cfg config.Config) (string, []AliasEntry, []ScratchTableSpec, string, map[int][]string, error) {
	order := preOrder(t)
	nodeAlias := make(map[int]string, len(order))
	for i, h := range order {
		nodeAlias[h] = fmt.Sprintf("n%d", i)
	}

	var columns []string
	var aliases []AliasEntry
	var joins []joinClause
	var whereConjuncts []string
	var orderExprs []string
	var scratchTables []ScratchTableSpec
	nodeLabels := map[int][]string{}
	rootIDAlias := ""

	for i, h := range order {
		n := t.Get(h)
		alias := nodeAlias[h]
		if len(n.TravLabels) > 0 {
			nodeLabels[i] = append([]string(nil), n.TravLabels...)
		}

		for _, col := range n.projectedColumns() {
			colAlias := boundedAlias(fmt.Sprintf("c%d_%s", i, col))
			columns = append(columns, fmt.Sprintf("%s.%s AS %s", alias, dia.Quote(col), dia.Quote(colAlias)))
			entry := AliasEntry{NodeIndex: i, Column: col, Alias: colAlias, Table: n.Table, IsEdge: n.IsEdge}
			if t.cat != nil {
				if ty, ok := t.cat.ColumnType(n.Table, col); ok {
					entry.VitessType = ty.VitessType()
				}
			}
			aliases = append(aliases, entry)
			if h == t.Root() && col == n.Table.IDColumn {
				rootIDAlias = colAlias
			}
		}

		if n.parent != -1 {
			parentAlias := nodeAlias[n.parent]
			table := fmt.Sprintf("%s.%s AS %s", dia.Quote(n.Table.Schema), dia.Quote(n.Table.Table), alias)
			on := fmt.Sprintf("%s.%s = %s.%s", alias, dia.Quote(n.FromColumn), parentAlias, dia.Quote(n.ToColumn))
			joins = append(joins, joinClause{Table: table, On: on})
		}

		for _, group := range groupFilters(columnFilters(n.Filters)) {
			colRef := fmt.Sprintf("%s.%s", alias, dia.Quote(group[0].Key))
			frag, scratchJoin, needsScratch, scratch, err := predicateSQL(colRef, group, dia, cfg.TempTableThreshold)
			if err != nil {
				return "", nil, nil, "", nil, err
			}
			whereConjuncts = append(whereConjuncts, frag)
			if needsScratch {
				scratchTables = append(scratchTables, *scratch)
				joins = append(joins, joinClause{Raw: scratchJoin})
			}
		}

		if n.OrderBy != nil {
			dir := "ASC"
			if !n.OrderBy.Ascending {
				dir = "DESC"
			}
			orderExprs = append(orderExprs, fmt.Sprintf("%s.%s %s", alias, dia.Quote(n.OrderBy.Key), dir))
		}
	}

	root := t.Get(t.Root())
	fromTable := fmt.Sprintf("%s.%s AS %s", dia.Quote(root.Table.Schema), dia.Quote(root.Table.Table), nodeAlias[t.Root()])

	sel := selectStmt{
		Columns:   columns,
		FromTable: fromTable,
		Joins:     joins,
	}
	if len(whereConjuncts) > 0 {
		sel.Where = &whereClause{Conjuncts: whereConjuncts}
	}
	if len(orderExprs) > 0 {
		sel.OrderBy = &orderByClause{Exprs: orderExprs}
	}

	sql := sel.String()
	if dia.NeedsSemicolon() {
		sql += ";"
	}
	return sql, aliases, scratchTables, rootIDAlias, nodeLabels, nil
}

// columnFilters drops the reserved label/id containers: those are
// handled structurally, by which table got selected, never as a WHERE
// predicate against a column literally named "label" or "id".
func columnFilters(containers []traversal.HasContainer) []traversal.HasContainer {
	var out []traversal.HasContainer
	for _, c := range containers {
		if c.Key == traversal.KeyLabel || c.Key == traversal.KeyID {
			continue
		}
		out = append(out, c)
	}
	return out
}

// groupFilters pairs adjacent range containers sharing a key (the
// half-open/open range shapes) and leaves every other container as its
// own singleton group, so predicateSQL can be invoked once per foldable
// shape rather than once per container.
func groupFilters(containers []traversal.HasContainer) [][]traversal.HasContainer {
	var groups [][]traversal.HasContainer
	for i := 0; i < len(containers); i++ {
		if i+1 < len(containers) && containers[i].Key == containers[i+1].Key && isRangePair(containers[i], containers[i+1]) {
			groups = append(groups, []traversal.HasContainer{containers[i], containers[i+1]})
			i++
			continue
		}
		groups = append(groups, []traversal.HasContainer{containers[i]})
	}
	return groups
}

func isRangePair(a, b traversal.HasContainer) bool {
	if a.Pred.Op == traversal.OpGte && b.Pred.Op == traversal.OpLt {
		return true
	}
	if a.Pred.Op == traversal.OpGt && b.Pred.Op == traversal.OpLt {
		return true
	}
	return false
}

func preOrder(t *SchemaTableTree) []int {
	var order []int
	var walk func(h int)
	walk = func(h int) {
		order = append(order, h)
		for _, c := range t.arena[h].children {
			walk(c)
		}
	}
	if t.Root() != -1 {
		walk(t.Root())
	}
	return order
}

func boundedAlias(name string) string {
	if len(name) <= maxAliasLength {
		return name
	}
	sum := sha1.Sum([]byte(name))
	suffix := "_" + hex.EncodeToString(sum[:])[:8]
	keep := maxAliasLength - len(suffix)
	if keep < 0 {
		keep = 0
	}
	return name[:keep] + suffix
}

// selectStmt, joinClause, whereClause, and orderByClause assemble their
// own SQL text bottom-up, each node rendering its own fragment the way a
// query plan's nodes render their own debug strings.
type selectStmt struct {
	Columns   []string
	FromTable string
	Joins     []joinClause
	Where     *whereClause
	OrderBy   *orderByClause
}

func (s selectStmt) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.FromTable)
	for _, j := range s.Joins {
		b.WriteString(" ")
		b.WriteString(j.String())
	}
	if s.Where != nil {
		b.WriteString(" ")
		b.WriteString(s.Where.String())
	}
	if s.OrderBy != nil {
		b.WriteString(" ")
		b.WriteString(s.OrderBy.String())
	}
	return b.String()
}

type joinClause struct {
	Table string
	On    string
	// Raw, when non-empty, is used verbatim instead of Table/On (used for
	// the scratch-table join whose text predicateSQL already assembled).
	Raw string
}

func (j joinClause) String() string {
	if j.Raw != "" {
		return j.Raw
	}
	return fmt.Sprintf("INNER JOIN %s ON %s", j.Table, j.On)
}

type whereClause struct {
	Conjuncts []string
}

func (w whereClause) String() string {
	return "WHERE " + strings.Join(w.Conjuncts, " AND ")
}

type orderByClause struct {
	Exprs []string
}

func (o orderByClause) String() string {
	return "ORDER BY " + strings.Join(o.Exprs, ", ")
}
