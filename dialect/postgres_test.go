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

package dialect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostgresQuoteWrapsAndEscapes(t *testing.T) {
	require := require.New(t)
	p := &Postgres{}
	require.Equal(`"name"`, p.Quote("name"))
	require.Equal(`"weird""name"`, p.Quote(`weird"name`))
}

func TestPostgresLimitClause(t *testing.T) {
	require := require.New(t)
	p := &Postgres{}
	require.Equal("LIMIT 10", p.LimitClause(10))
	require.Equal("", p.LimitClause(-1))
	require.Equal("LIMIT 0", p.LimitClause(0))
}

func TestPostgresScratchTableNameIsUniquePerCall(t *testing.T) {
	require := require.New(t)
	p := &Postgres{}
	first := p.ScratchTableName("Person Name!")
	second := p.ScratchTableName("Person Name!")
	require.NotEqual(first, second)
	require.Contains(first, "sqlg_scratch_person_name_")
}

func TestPostgresFixedProperties(t *testing.T) {
	require := require.New(t)
	p := &Postgres{}
	require.Equal("postgres", p.Name())
	require.True(p.NeedsSemicolon())
	require.True(p.SupportsCascade())
	require.Equal("~", p.RegexOperator())
	require.Greater(p.MaxJoinsPerSelect(), 0)
}
