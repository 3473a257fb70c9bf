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

package sqlgctx

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToStandardLoggerWhenNil(t *testing.T) {
	require := require.New(t)
	c := New(context.Background(), nil)
	require.NotNil(c.Log)
}

func TestSpanChildCarriesLoggerFieldAndParentContext(t *testing.T) {
	require := require.New(t)
	parent := New(context.Background(), logrus.NewEntry(logrus.StandardLogger()))

	child, end := parent.Span("resolve")
	require.NotNil(child)
	require.Equal("resolve", child.Log.Data["span"])
	end()

	select {
	case <-child.Done():
	default:
	}
}

func TestContextEmbedsStdlibContext(t *testing.T) {
	require := require.New(t)
	type key struct{}
	parent := context.WithValue(context.Background(), key{}, "v")
	c := New(parent, nil)
	require.Equal("v", c.Value(key{}))
}
