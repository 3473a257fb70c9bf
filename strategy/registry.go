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

package strategy

import "fmt"

// Pass is a named rewrite pass, ordered relative to others by the rules
// named in RunsAfter/RunsBefore. Only "pushdown" (the rewriter in this
// package) is implemented; Registry exists to state its ordering
// constraint declaratively, the way a rule-based query analyzer states
// its own rule batches (run-once-before-default / default / run-once-
// after-all).
type Pass struct {
	Name       string
	RunsAfter  []string
	RunsBefore []string
}

// Registry holds the declared passes and can report them in a valid
// order.
type Registry struct {
	passes map[string]Pass
	order  []string
}

// NewRegistry returns a registry seeded with this package's pushdown
// pass: it must run after child-traversal inlining and before
// vertex-to-edge restructuring.
func NewRegistry() *Registry {
	r := &Registry{passes: map[string]Pass{}}
	r.Register(Pass{
		Name:       "pushdown",
		RunsAfter:  []string{"inline-child-traversals"},
		RunsBefore: []string{"restructure-vertex-edge-nav"},
	})
	return r
}

// Register adds a pass. Names in RunsAfter/RunsBefore that aren't
// registered are treated as external passes owned by the host framework
// and are ignored for ordering purposes within this registry.
func (r *Registry) Register(p Pass) {
	r.passes[p.Name] = p
	r.order = nil
}

// Order returns the registered pass names in an order that satisfies
// every RunsAfter/RunsBefore constraint between them, or an error if the
// constraints are contradictory.
func (r *Registry) Order() ([]string, error) {
	if r.order != nil {
		return r.order, nil
	}

	remaining := map[string]bool{}
	for name := range r.passes {
		remaining[name] = true
	}

	var order []string
	for len(remaining) > 0 {
		progressed := false
		for name := range remaining {
			if r.ready(name, remaining) {
				order = append(order, name)
				delete(remaining, name)
				progressed = true
			}
		}
		if !progressed {
			return nil, fmt.Errorf("strategy: contradictory pass ordering among %v", keys(remaining))
		}
	}

	r.order = order
	return order, nil
}

// ready reports whether name can be placed next: no pass it RunsAfter is
// still remaining, and no remaining pass declares it must run before name.
// RunsAfter/RunsBefore entries naming an unregistered pass are assumed
// owned by the host framework and satisfied externally.
func (r *Registry) ready(name string, remaining map[string]bool) bool {
	for _, after := range r.passes[name].RunsAfter {
		if remaining[after] {
			return false
		}
	}
	for other, pending := range remaining {
		if !pending || other == name {
			continue
		}
		for _, before := range r.passes[other].RunsBefore {
			if before == name {
				return false
			}
		}
	}
	return true
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
