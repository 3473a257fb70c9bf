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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prabu701/sqlg/dialect"
	"github.com/prabu701/sqlg/traversal"
)

func TestPredicateSQLComparison(t *testing.T) {
	require := require.New(t)
	frag, join, needsScratch, scratch, err := predicateSQL(`"n0"."name"`,
		[]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpEq, "marko")},
		&dialect.Postgres{}, 64)
	require.NoError(err)
	require.Equal(`"n0"."name" = 'marko'`, frag)
	require.Empty(join)
	require.False(needsScratch)
	require.Nil(scratch)
}

func TestPredicateSQLHalfOpenRange(t *testing.T) {
	require := require.New(t)
	frag, _, needsScratch, _, err := predicateSQL(`"n0"."age"`,
		[]traversal.HasContainer{
			traversal.NewHasContainer("age", traversal.OpGte, int64(29)),
			traversal.NewHasContainer("age", traversal.OpLt, int64(35)),
		}, &dialect.Postgres{}, 64)
	require.NoError(err)
	require.Equal(`("n0"."age" >= 29 AND "n0"."age" < 35)`, frag)
	require.False(needsScratch)
}

func TestPredicateSQLExteriorDisjunction(t *testing.T) {
	require := require.New(t)
	container := traversal.NewOrHasContainer("age",
		traversal.Predicate{Op: traversal.OpLt, Value: int64(10)},
		traversal.Predicate{Op: traversal.OpGt, Value: int64(20)})
	frag, _, _, _, err := predicateSQL(`"n0"."age"`, []traversal.HasContainer{container}, &dialect.Postgres{}, 64)
	require.NoError(err)
	require.Equal(`("n0"."age" < 10 OR "n0"."age" > 20)`, frag)
}

func TestPredicateSQLMembershipInlineBelowThreshold(t *testing.T) {
	require := require.New(t)
	frag, join, needsScratch, scratch, err := predicateSQL(`"n0"."name"`,
		[]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpWithin, []string{"marko", "josh"})},
		&dialect.Postgres{}, 64)
	require.NoError(err)
	require.Equal(`"n0"."name" IN ('marko', 'josh')`, frag)
	require.Empty(join)
	require.False(needsScratch)
	require.Nil(scratch)
}

func TestPredicateSQLMembershipScratchTableAboveThreshold(t *testing.T) {
	require := require.New(t)
	frag, join, needsScratch, scratch, err := predicateSQL(`"n0"."name"`,
		[]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpWithin, []string{"a", "b", "c"})},
		&dialect.Postgres{}, 2)
	require.NoError(err)
	require.True(needsScratch)
	require.NotNil(scratch)
	require.NotEmpty(scratch.Setup)
	require.Contains(scratch.Drop, "DROP TABLE")
	require.Contains(join, "INNER JOIN")
	require.Contains(frag, "IS NOT NULL")
}

func TestPredicateSQLNegatedMembershipScratchTableUsesLeftJoin(t *testing.T) {
	require := require.New(t)
	_, join, needsScratch, _, err := predicateSQL(`"n0"."name"`,
		[]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpWithout, []string{"a", "b", "c"})},
		&dialect.Postgres{}, 2)
	require.NoError(err)
	require.True(needsScratch)
	require.Contains(join, "LEFT JOIN")
}

// likeDialect wraps Postgres but reports a LIKE-style regex operator, the
// way a MySQL-flavored dialect would, to exercise the LIKE branch of
// textSQL.
type likeDialect struct{ dialect.Postgres }

func (likeDialect) RegexOperator() string { return "LIKE" }

func TestPredicateSQLTextStartsWithLikeStyle(t *testing.T) {
	require := require.New(t)
	frag, _, _, _, err := predicateSQL(`"n0"."name"`,
		[]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpStartsWith, "mar")},
		&likeDialect{}, 64)
	require.NoError(err)
	require.Equal(`"n0"."name" LIKE 'mar%'`, frag)
}

func TestPredicateSQLTextEscapesLikeWildcards(t *testing.T) {
	require := require.New(t)
	frag, _, _, _, err := predicateSQL(`"n0"."name"`,
		[]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpContains, "50%_off")},
		&likeDialect{}, 64)
	require.NoError(err)
	require.Equal(`"n0"."name" LIKE '%50\%\_off%'`, frag)
}

func TestPredicateSQLTextStartsWithRegexStyleUnderPostgres(t *testing.T) {
	require := require.New(t)
	frag, _, _, _, err := predicateSQL(`"n0"."name"`,
		[]traversal.HasContainer{traversal.NewHasContainer("name", traversal.OpStartsWith, "mar")},
		&dialect.Postgres{}, 64)
	require.NoError(err)
	require.Equal(`"n0"."name" ~ '^mar'`, frag)
}

func TestPredicateSQLUnfoldableShapeErrors(t *testing.T) {
	require := require.New(t)
	_, _, _, _, err := predicateSQL(`"n0"."age"`,
		[]traversal.HasContainer{
			traversal.NewHasContainer("age", traversal.OpGte, int64(1)),
			traversal.NewHasContainer("weight", traversal.OpLt, 2.0),
		}, &dialect.Postgres{}, 64)
	require.Error(err)
}
