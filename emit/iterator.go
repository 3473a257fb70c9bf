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

package emit

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dolthub/vitess/go/sqltypes"

	"github.com/prabu701/sqlg/gerr"
)

type state int

const (
	stateInit state = iota
	stateStreaming
	stateDone
	stateFailed
)

// Iterator drives a Statement to completion through an INIT/STREAMING/
// DONE/FAILED state machine. It is not safe for concurrent use by more
// than one goroutine at a time: execution is single-threaded per
// traversal.
type Iterator struct {
	mu    sync.Mutex
	stmt  Statement
	exec  Executor
	state state
	err   error

	cursors []*partitionCursor
	closed  bool
}

type partitionCursor struct {
	partition  Partition
	index      int
	cursor     RowCursor
	idColIndex int

	headRow   []interface{}
	headValid bool
	exhausted bool
}

// NewIterator builds an iterator over stmt's partitions, executed via
// exec. No query runs until the first call to Next.
func NewIterator(stmt Statement, exec Executor) *Iterator {
	return &Iterator{stmt: stmt, exec: exec, state: stateInit}
}

// Next advances the iterator and returns the next Emit, or io.EOF once
// every partition is exhausted. An underlying error transitions the
// iterator permanently to FAILED and is surfaced once; subsequent calls
// return the same error.
func (it *Iterator) Next(ctx context.Context) (*Emit, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	switch it.state {
	case stateFailed:
		return nil, it.err
	case stateDone:
		return nil, io.EOF
	}

	if it.state == stateInit {
		if err := it.start(ctx); err != nil {
			return nil, it.fail(ctx, err)
		}
		it.state = stateStreaming
	}

	chosen, err := it.pickNext(ctx)
	if err != nil {
		return nil, it.fail(ctx, err)
	}
	if chosen == nil {
		if err := it.teardown(ctx); err != nil {
			return nil, it.fail(ctx, err)
		}
		it.state = stateDone
		return nil, io.EOF
	}

	row := chosen.headRow
	chosen.headValid = false
	return decodeRow(chosen.partition, row), nil
}

// start opens one result-set handle per partition, after running each
// partition's scratch-table setup.
func (it *Iterator) start(ctx context.Context) error {
	it.cursors = make([]*partitionCursor, 0, len(it.stmt.Partitions))
	for i, p := range it.stmt.Partitions {
		for _, scratch := range p.ScratchTables {
			for _, setup := range scratch.Setup {
				if err := it.exec.Exec(ctx, setup); err != nil {
					return err
				}
			}
		}
		cur, err := it.exec.Query(ctx, p.SQL)
		if err != nil {
			return err
		}
		idColIndex := -1
		for j, a := range p.Aliases {
			if a.Alias == p.RootIDAlias {
				idColIndex = j
				break
			}
		}
		it.cursors = append(it.cursors, &partitionCursor{partition: p, index: i, cursor: cur, idColIndex: idColIndex})
	}
	return nil
}

// pickNext fills every cursor's head buffer and returns the one with the
// smallest root-id value, ties broken by partition order, merging rows
// across partitions by their first-column identifier. Returns nil when
// every cursor is exhausted.
func (it *Iterator) pickNext(ctx context.Context) (*partitionCursor, error) {
	for _, pc := range it.cursors {
		if pc.exhausted || pc.headValid {
			continue
		}
		row, err := pc.cursor.Next(ctx)
		if err == io.EOF {
			pc.exhausted = true
			continue
		}
		if err != nil {
			return nil, err
		}
		pc.headRow = row
		pc.headValid = true
	}

	var best *partitionCursor
	for _, pc := range it.cursors {
		if !pc.headValid {
			continue
		}
		if best == nil || compareIDs(pc.idValue(), best.idValue()) < 0 {
			best = pc
		}
	}
	return best, nil
}

func (pc *partitionCursor) idValue() interface{} {
	if pc.idColIndex < 0 || pc.idColIndex >= len(pc.headRow) {
		return nil
	}
	return pc.headRow[pc.idColIndex]
}

// teardown closes every open cursor and drops every scratch table this
// statement created, as happens when the iterator reaches DONE or
// FAILED.
func (it *Iterator) teardown(ctx context.Context) error {
	var firstErr error
	for _, pc := range it.cursors {
		if pc.cursor != nil {
			if err := pc.cursor.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
			pc.cursor = nil
		}
	}
	for _, p := range it.stmt.Partitions {
		for _, scratch := range p.ScratchTables {
			if err := it.exec.Exec(ctx, scratch.Drop); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (it *Iterator) fail(ctx context.Context, err error) error {
	_ = it.teardown(ctx)
	it.state = stateFailed
	it.err = gerr.ErrExecutionError.New(err.Error())
	return it.err
}

// Reset returns the iterator to INIT, releasing the underlying result
// sets (best-effort) so a subsequent Next restarts execution from
// scratch.
func (it *Iterator) Reset(ctx context.Context) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.closed {
		return fmt.Errorf("emit: iterator closed")
	}
	err := it.teardown(ctx)
	it.cursors = nil
	it.state = stateInit
	it.err = nil
	return err
}

// Close releases every statement handle permanently; any in-flight
// result set is cancelled best-effort. The iterator is unusable after
// Close.
func (it *Iterator) Close(ctx context.Context) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.closed {
		return nil
	}
	it.closed = true
	err := it.teardown(ctx)
	it.state = stateDone
	return err
}

// compareIDs orders two decoded id values for the cross-partition merge.
// Values outside the handful of column types the catalog issues fall
// back to a string comparison so the merge stays total.
func compareIDs(a, b interface{}) int {
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	case int:
		if bv, ok := b.(int); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	}
	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

// decodeRow groups row's values by node index (per p.Aliases) into one
// Element per participating table, in tree-traversal order, and attaches
// the traversal-labels recorded for that node.
func decodeRow(p Partition, row []interface{}) *Emit {
	var order []int
	elems := map[int]*Element{}
	fallbackLabel := map[int]string{}

	for i, a := range p.Aliases {
		if i >= len(row) {
			break
		}
		elem, ok := elems[a.NodeIndex]
		if !ok {
			elem = &Element{IsEdge: a.IsEdge, Properties: map[string]interface{}{}, PropertyTypes: map[string]sqltypes.Type{}}
			elems[a.NodeIndex] = elem
			fallbackLabel[a.NodeIndex] = a.Table.Label
			order = append(order, a.NodeIndex)
		}
		value := row[i]
		switch {
		case a.Column == a.Table.IDColumn:
			elem.ID = value
		case a.Table.LabelColumn != "" && a.Column == a.Table.LabelColumn:
			elem.Label = fmt.Sprintf("%v", value)
		default:
			elem.Properties[a.Column] = value
			elem.PropertyTypes[a.Column] = a.VitessType
		}
	}

	path := make([]Element, 0, len(order))
	labels := make([][]string, 0, len(order))
	for _, idx := range order {
		elem := elems[idx]
		if elem.Label == "" {
			elem.Label = fallbackLabel[idx]
		}
		path = append(path, *elem)
		labels = append(labels, p.NodeLabels[idx])
	}
	return &Emit{Path: path, Labels: labels}
}
