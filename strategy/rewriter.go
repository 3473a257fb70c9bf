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

// Package strategy implements the pushdown rewriter: it walks a host
// step pipeline, folds the eligible prefix into a compiled source step
// carrying a replaced-step tree, and rewires labels so downstream
// references still resolve: absorb filters into the table they apply
// to, split handled from unhandled predicates, and rebind whatever
// structural position a removed step's references depended on.
package strategy

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/prabu701/sqlg/plan"
	"github.com/prabu701/sqlg/predicate"
	"github.com/prabu701/sqlg/traversal"
)

var tracer = otel.Tracer("github.com/prabu701/sqlg/strategy")

// CompiledSourceStep replaces the folded prefix of a pipeline. It behaves
// as the original source step to anything downstream that only cares
// about labels, but carries the replaced-step tree the SQL builder and
// result emitter consume.
type CompiledSourceStep struct {
	travLabels []string
	Original   *traversal.SourceStep
	Tree       *plan.ReplacedStepTree
}

func (c *CompiledSourceStep) Labels() []string      { return c.travLabels }
func (c *CompiledSourceStep) AddLabel(label string) { c.travLabels = append(c.travLabels, label) }
func (c *CompiledSourceStep) String() string         { return "compiledSource(" + c.Original.String() + ")" }

// GetReplacedSteps returns every replaced-step in the tree, in depth-first
// order, for diagnostics.
func (c *CompiledSourceStep) GetReplacedSteps() []*plan.ReplacedStep {
	var out []*plan.ReplacedStep
	_ = c.Tree.WalkDepthFirst(func(_ int, step *plan.ReplacedStep) error {
		out = append(out, step)
		return nil
	})
	return out
}

// GetReplacedStepTree exposes the built tree read-only, for later
// strategies that need to reason about what was absorbed.
func (c *CompiledSourceStep) GetReplacedStepTree() *plan.ReplacedStepTree { return c.Tree }

// InstallStrategies applies the rewriter to p and to every child pipeline
// reachable from it. It is idempotent: a pipeline whose first step is
// already a *CompiledSourceStep is left untouched.
func InstallStrategies(log *logrus.Entry, p *traversal.Pipeline) error {
	for _, sub := range p.AllPipelines() {
		if _, err := Compile(log, sub); err != nil {
			return err
		}
	}
	return nil
}

// Compile folds the eligible prefix of p into a CompiledSourceStep and
// returns it, or returns nil if nothing could be folded (p is left
// unchanged in that case). It never returns gerr.ErrUnrecognizedStep:
// hitting an unrecognized step simply ends the fold.
func Compile(log *logrus.Entry, p *traversal.Pipeline) (*CompiledSourceStep, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	_, span := tracer.Start(context.Background(), "strategy.Compile")
	defer span.End()

	if len(p.Steps) == 0 {
		return nil, nil
	}
	if compiled, ok := p.Steps[0].(*CompiledSourceStep); ok {
		return compiled, nil
	}
	source, ok := p.Steps[0].(*traversal.SourceStep)
	if !ok {
		log.Debug("strategy: first step is not a source step, leaving pipeline unchanged")
		return nil, nil
	}

	tree := plan.NewReplacedStepTree()
	rootKind := plan.KindSourceV
	if source.Kind == traversal.ElementEdge {
		rootKind = plan.KindSourceE
	}
	cursor := tree.AddReplaced(&plan.ReplacedStep{Kind: rootKind})
	for _, l := range source.Labels() {
		tree.AddLabel(cursor, l)
	}

	pos := 1
	var survivors []traversal.Step
	folded := false

	for {
		absorbedFilters := absorbFiltersAndOrders(tree, &cursor, p, &pos, &survivors, log)
		folded = folded || absorbedFilters

		if pos >= len(p.Steps) {
			break
		}
		if props, ok := p.Steps[pos].(*traversal.PropertiesStep); ok {
			handle := tree.AddReplaced(&plan.ReplacedStep{Kind: plan.KindProperties, TargetLabels: append([]string(nil), props.Names...)})
			for _, l := range props.Labels() {
				tree.AddLabel(handle, l)
			}
			cursor = handle
			folded = true
			pos++
			continue
		}

		nav, ok := p.Steps[pos].(*traversal.NavStep)
		if !ok {
			log.WithField("step", p.Steps[pos]).Debug("strategy: unrecognized or blocking step, stopping fold")
			break
		}
		kind, ok := navKind(nav)
		if !ok {
			break
		}

		handle := tree.AddReplaced(&plan.ReplacedStep{Kind: kind, TargetLabels: append([]string(nil), nav.Labels_...)})
		for _, l := range nav.Labels() {
			tree.AddLabel(handle, l)
		}
		cursor = handle
		folded = true
		pos++
	}

	if !folded {
		return nil, nil
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}

	compiled := &CompiledSourceStep{Original: source, Tree: tree}
	newSteps := make([]traversal.Step, 0, 1+len(survivors)+len(p.Steps)-pos)
	newSteps = append(newSteps, compiled)
	newSteps = append(newSteps, survivors...)
	newSteps = append(newSteps, p.Steps[pos:]...)
	p.Steps = newSteps

	log.WithField("replacedSteps", len(compiled.GetReplacedSteps())).Debug("strategy: folded pipeline prefix")
	return compiled, nil
}

// absorbFiltersAndOrders absorbs every foldable filter step, skips over
// identity steps (recording them as survivors so downstream label
// references keep resolving), and folds in a trivially-orderable order()
// step, stopping at the first step it cannot absorb or skip.
func absorbFiltersAndOrders(
	tree *plan.ReplacedStepTree,
	cursor *int,
	p *traversal.Pipeline,
	pos *int,
	survivors *[]traversal.Step,
	log *logrus.Entry,
) bool {
	absorbed := false
	for *pos < len(p.Steps) {
		switch st := p.Steps[*pos].(type) {
		case *traversal.FilterStep:
			if _, ok := predicate.Classify(st.Containers); !ok {
				return absorbed
			}
			tree.AddFilter(*cursor, st.Containers...)
			for _, l := range st.Labels() {
				tree.AddLabel(*cursor, l)
			}
			if len(st.Labels()) > 0 {
				id := traversal.NewIdentityStep()
				for _, l := range st.Labels() {
					id.AddLabel(l)
				}
				*survivors = append(*survivors, id)
			}
			absorbed = true
			*pos++
		case *traversal.IdentityStep:
			*survivors = append(*survivors, st)
			*pos++
		case *traversal.OrderStep:
			if !st.Trivial {
				return absorbed
			}
			tree.Get(*cursor).OrderBy = &plan.OrderSpec{Key: st.Key, Ascending: st.Ascending}
			absorbed = true
			*pos++
		default:
			return absorbed
		}
	}
	return absorbed
}

func navKind(n *traversal.NavStep) (plan.StepKind, bool) {
	switch {
	case n.Target == traversal.ElementEdge && n.Dir == traversal.DirOut:
		return plan.KindOutEdge, true
	case n.Target == traversal.ElementEdge && n.Dir == traversal.DirIn:
		return plan.KindInEdge, true
	case n.Target == traversal.ElementEdge && n.Dir == traversal.DirBoth:
		return plan.KindBothEdge, true
	case n.Target == traversal.ElementVertex && n.Dir == traversal.DirOut:
		return plan.KindOutVertex, true
	case n.Target == traversal.ElementVertex && n.Dir == traversal.DirIn:
		return plan.KindInVertex, true
	default:
		return 0, false
	}
}
