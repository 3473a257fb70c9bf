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

// Package sqlgctx carries the per-compile logger and tracer, in the
// style of a query engine's own request-scoped context type that bundles
// a Span helper alongside the stdlib context.
package sqlgctx

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Context bundles a stdlib context.Context with the structured logger and
// tracer a single compile-and-execute call should use throughout.
type Context struct {
	context.Context
	Log    *logrus.Entry
	tracer trace.Tracer
}

// New wraps parent with the given logger, defaulting to the standard
// logger's entry when log is nil.
func New(parent context.Context, log *logrus.Entry) *Context {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Context{Context: parent, Log: log, tracer: otel.Tracer("github.com/prabu701/sqlg")}
}

// Span starts a named span under this context and returns the child
// Context plus a finish func.
func (c *Context) Span(name string) (*Context, func()) {
	ctx, span := c.tracer.Start(c.Context, name)
	child := &Context{Context: ctx, Log: c.Log.WithField("span", name), tracer: c.tracer}
	return child, span.End
}
