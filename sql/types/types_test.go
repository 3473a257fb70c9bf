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

package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestInt64Literal(t *testing.T) {
	require := require.New(t)
	lit, err := Int64.SQLLiteral(int64(42))
	require.NoError(err)
	require.Equal("42", lit)

	lit, err = Int64.SQLLiteral(42)
	require.NoError(err)
	require.Equal("42", lit)

	_, err = Int64.SQLLiteral("nope")
	require.Error(err)
}

func TestFloat64Literal(t *testing.T) {
	require := require.New(t)
	lit, err := Float64.SQLLiteral(3.5)
	require.NoError(err)
	require.Equal("3.5", lit)

	_, err = Float64.SQLLiteral(int64(1))
	require.Error(err)
}

func TestBoolLiteral(t *testing.T) {
	require := require.New(t)
	lit, err := Bool.SQLLiteral(true)
	require.NoError(err)
	require.Equal("TRUE", lit)

	lit, err = Bool.SQLLiteral(false)
	require.NoError(err)
	require.Equal("FALSE", lit)

	_, err = Bool.SQLLiteral("true")
	require.Error(err)
}

func TestDecimalLiteral(t *testing.T) {
	require := require.New(t)
	d, err := decimal.NewFromString("19.99")
	require.NoError(err)

	lit, err := Decimal.SQLLiteral(d)
	require.NoError(err)
	require.Equal("19.99", lit)

	_, err = Decimal.SQLLiteral(19.99)
	require.Error(err)
}

func TestTextLiteralEscapesQuotes(t *testing.T) {
	require := require.New(t)
	lit, err := Text.SQLLiteral("O'Brien")
	require.NoError(err)
	require.Equal("'O''Brien'", lit)

	lit, err = Text.SQLLiteral(42)
	require.NoError(err)
	require.Equal("'42'", lit)
}

func TestTimestampLiteral(t *testing.T) {
	require := require.New(t)
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	lit, err := Timestamp.SQLLiteral(at)
	require.NoError(err)
	require.Equal("'2024-01-02 03:04:05'", lit)

	_, err = Timestamp.SQLLiteral(42)
	require.Error(err)
}

func TestTypeKeywordsAndVitessMapping(t *testing.T) {
	require := require.New(t)
	require.Equal("BIGINT", Int64.String())
	require.Equal("DOUBLE PRECISION", Float64.String())
	require.Equal("BOOLEAN", Bool.String())
	require.Equal("DECIMAL", Decimal.String())
	require.Equal("TEXT", Text.String())
	require.Equal("TIMESTAMP", Timestamp.String())

	require.NotEqual(Int64.VitessType(), Text.VitessType())
}
