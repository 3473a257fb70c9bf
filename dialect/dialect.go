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

// Package dialect declares the narrow SQL-dialect contract: identifier
// quoting, semicolon policy, LIMIT/OFFSET syntax, cascade support, join
// limits, and the regex operator. It is consumed, never implemented in
// full generality, by the SQL builder.
package dialect

// Dialect is the narrow SQL-dialect interface the SQL builder consumes.
type Dialect interface {
	Name() string

	// Quote renders identifier as a dialect-quoted SQL identifier.
	Quote(identifier string) string

	// NeedsSemicolon reports whether generated statements must be
	// terminated with a semicolon.
	NeedsSemicolon() bool

	// LimitClause renders a LIMIT/OFFSET (or dialect-equivalent) clause
	// for n rows, or "" if n < 0 (no limit).
	LimitClause(n int) string

	// SupportsCascade reports whether DDL cascade is available (unused by
	// this core directly; exposed for completeness of the dialect
	// contract).
	SupportsCascade() bool

	// MaxJoinsPerSelect is the dialect's default join-count ceiling,
	// overridable by config.Config.MaxJoinsPerStatement.
	MaxJoinsPerSelect() int

	// RegexOperator names the operator the dialect uses for regex
	// matching. The text-predicate mapping renders LIKE patterns when
	// this operator is LIKE-style, and regex patterns with this operator
	// otherwise.
	RegexOperator() string

	// ScratchTableName returns a fresh, dialect-safe name for a temporary
	// table backing a large IN-list.
	ScratchTableName(seed string) string
}
