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

// This is an example of compiling a property-graph traversal down to SQL
// against an in-memory topology catalog.
//
// > go run ./cmd/sqlgc
// -- partition 0 --
// SELECT n0."id" AS "c0_id", n0."name" AS "c1_name", ... FROM "public"."person" AS n0
//   JOIN "public"."knows" AS n1 ON n1."from_id" = n0."id"
//   JOIN "public"."person" AS n2 ON n2."id" = n1."to_id"
//  WHERE n2."age" >= 30;
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/prabu701/sqlg/catalog"
	"github.com/prabu701/sqlg/catalog/memcatalog"
	"github.com/prabu701/sqlg/config"
	"github.com/prabu701/sqlg/dialect"
	"github.com/prabu701/sqlg/sql/types"
	"github.com/prabu701/sqlg/sqlbuild"
	"github.com/prabu701/sqlg/sqlgctx"
	"github.com/prabu701/sqlg/strategy"
	"github.com/prabu701/sqlg/traversal"
)

func main() {
	cfg := config.Default()
	fs := pflag.NewFlagSet("sqlgc", pflag.ExitOnError)
	cfg.RegisterFlags(fs)
	verbose := fs.Bool("verbose", false, "log each compile stage")
	_ = fs.Parse(os.Args[1:])

	log := logrus.NewEntry(logrus.StandardLogger())
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cat := seedCatalog()
	dia := dialectFor(cfg)

	p := buildSamplePipeline()
	if _, err := strategy.Compile(log, p); err != nil {
		fmt.Fprintln(os.Stderr, "compile:", err)
		os.Exit(1)
	}

	compiled, ok := p.Steps[0].(*strategy.CompiledSourceStep)
	if !ok {
		fmt.Fprintln(os.Stderr, "nothing foldable in the sample pipeline")
		os.Exit(1)
	}

	gctx := sqlgctx.New(context.Background(), log)
	_, span := gctx.Span("resolve")
	trees, err := sqlbuild.Resolve(compiled.Tree, cat, cfg)
	span()
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolve:", err)
		os.Exit(1)
	}

	for i, tree := range trees {
		stmt, err := sqlbuild.Build(tree, dia, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "build:", err)
			os.Exit(1)
		}
		fmt.Printf("-- candidate plan %d (%d partition(s)) --\n", i, len(stmt.Partitions))
		for j, part := range stmt.Partitions {
			fmt.Printf("-- partition %d --\n%s\n", j, part.SQL)
		}
	}
}

func dialectFor(cfg config.Config) dialect.Dialect {
	switch cfg.Dialect {
	case "postgres", "":
		return &dialect.Postgres{}
	default:
		logrus.Warnf("sqlgc: unknown dialect %q, falling back to postgres", cfg.Dialect)
		return &dialect.Postgres{}
	}
}

// buildSamplePipeline models V().hasLabel('person').out('knows').has('age', gte(30)).
func buildSamplePipeline() *traversal.Pipeline {
	source := traversal.NewSourceV()
	hasLabel := traversal.NewFilterStep(traversal.NewHasContainer(traversal.KeyLabel, traversal.OpEq, "person"))
	outKnows := traversal.NewEdgeNav(traversal.DirOut, "knows")
	hasAge := traversal.NewFilterStep(traversal.NewHasContainer("age", traversal.OpGte, int64(30)))
	return traversal.NewPipeline(source, hasLabel, outKnows, hasAge)
}

// seedCatalog registers a small person/knows social graph: one person
// vertex table and one knows edge table, registered for outgoing
// navigation from person back to person.
func seedCatalog() *memcatalog.Catalog {
	cat := memcatalog.New()
	m := cat.Begin()

	personTable := catalog.SchemaTable{Schema: "public", Table: "person", IDColumn: "id"}
	knowsTable := catalog.SchemaTable{Schema: "public", Table: "knows", IDColumn: "id"}

	m.AddVertexTable("person", personTable, map[string]types.Type{
		"id":   types.Int64,
		"name": types.Text,
		"age":  types.Int64,
	})

	m.AddEdgeTable(personTable, traversal.DirOut, "knows", catalog.EdgeEndpoint{
		EdgeTable:     knowsTable,
		OppositeTable: personTable,
		FromColumn:    "from_id",
		ToColumn:      "to_id",
	}, map[string]types.Type{
		"id":      types.Int64,
		"from_id": types.Int64,
		"to_id":   types.Int64,
		"since":   types.Timestamp,
	})

	m.Commit()
	return cat
}
