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

package traversal

// Pipeline is an ordered, mutable chain of steps. It is the in-memory
// stand-in for what the host framework would otherwise hand the compiler.
type Pipeline struct {
	Steps []Step

	// Children are nested pipelines reachable from this one (the inner
	// traversal of a repeat()/barrier step, for instance).
	// InstallStrategies recurses into each of these too.
	Children []*Pipeline
}

// NewPipeline builds a pipeline from a source step and its following
// steps, in order.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps}
}

// At returns the step at index i, or nil if out of range.
func (p *Pipeline) At(i int) Step {
	if i < 0 || i >= len(p.Steps) {
		return nil
	}
	return p.Steps[i]
}

// RemoveAt deletes the step at index i.
func (p *Pipeline) RemoveAt(i int) {
	p.Steps = append(p.Steps[:i], p.Steps[i+1:]...)
}

// InsertAt inserts step so it lands at index i.
func (p *Pipeline) InsertAt(i int, step Step) {
	p.Steps = append(p.Steps, nil)
	copy(p.Steps[i+1:], p.Steps[i:])
	p.Steps[i] = step
}

// ReplaceRange replaces steps [start:end) with a single step.
func (p *Pipeline) ReplaceRange(start, end int, step Step) {
	tail := append([]Step{}, p.Steps[end:]...)
	p.Steps = append(p.Steps[:start], step)
	p.Steps = append(p.Steps, tail...)
}

// AllPipelines yields p and every pipeline reachable from it through
// Children, depth first. InstallStrategies applies to each.
func (p *Pipeline) AllPipelines() []*Pipeline {
	out := []*Pipeline{p}
	for _, c := range p.Children {
		out = append(out, c.AllPipelines()...)
	}
	return out
}
