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
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Postgres is the reference Dialect implementation, targeting Postgres
// (and Redshift, which speaks the same wire dialect for DDL/DML purposes
// this core cares about).
type Postgres struct{}

func (*Postgres) Name() string { return "postgres" }

func (*Postgres) Quote(identifier string) string {
	return pgx.Identifier{identifier}.Sanitize()
}

func (*Postgres) NeedsSemicolon() bool { return true }

func (*Postgres) LimitClause(n int) string {
	if n < 0 {
		return ""
	}
	return "LIMIT " + strconv.Itoa(n)
}

func (*Postgres) SupportsCascade() bool { return true }

func (*Postgres) MaxJoinsPerSelect() int { return 16 }

func (*Postgres) RegexOperator() string { return "~" }

// ScratchTableName derives a temp-table name from seed, suffixed with a
// uuid segment so concurrent compiles (even across processes sharing a
// backend) never collide on a name.
func (p *Postgres) ScratchTableName(seed string) string {
	clean := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, strings.ToLower(seed))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("sqlg_scratch_%s_%s", clean, suffix)
}
