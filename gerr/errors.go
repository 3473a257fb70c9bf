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

// Package gerr defines the named error kinds surfaced by the compilation
// core, per the error handling design: structural errors are fatal to the
// traversal, ExecutionError is surfaced unchanged, and UnrecognizedStep is
// never returned to a caller (it is a pushdown boundary, not a failure).
package gerr

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrUnrecognizedStep marks a step the strategy rewriter could neither
	// absorb nor safely skip. Callers never see this: the rewriter ends
	// the fold at such a step without raising it.
	ErrUnrecognizedStep = errors.NewKind("unrecognized step %T at depth %d")

	// ErrTopologyMiss means a label or column referenced while resolving a
	// replaced-step tree against the catalog has no backing table.
	ErrTopologyMiss = errors.NewKind("no table for label %q")

	// ErrColumnMiss means a column referenced by an absorbed filter does
	// not exist on the table a replaced-step resolved to.
	ErrColumnMiss = errors.NewKind("no column %q on table %q")

	// ErrInvalidState means execution was attempted while the owning
	// transaction is mid-batch-stream.
	ErrInvalidState = errors.NewKind("execution attempted during mid-batch-stream transaction")

	// ErrDialectRejection means SQL generation exceeded a dialect limit
	// that splitting cannot work around.
	ErrDialectRejection = errors.NewKind("statement exceeds dialect limit: %s")

	// ErrExecutionError wraps a backend failure surfaced during streaming.
	ErrExecutionError = errors.NewKind("backend execution failed: %s")
)
