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

// Package types defines the closed set of column types the catalog can
// declare and the builder can render literals for: Int64, Float64, Bool,
// Decimal, Text, and Timestamp. Each wraps the vitess query type it maps
// onto at the wire level, the way the teacher's own column-type set does.
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dolthub/vitess/go/sqltypes"
	"github.com/shopspring/decimal"
)

// Type is a column's logical value shape: its SQL keyword for DDL, and
// how to render a Go value of that type as a SQL literal.
type Type interface {
	// String returns the SQL type keyword used in scratch-table DDL.
	String() string

	// SQLLiteral renders v as a literal of this type, or an error if v
	// isn't a value this type accepts.
	SQLLiteral(v interface{}) (string, error)

	// VitessType is the wire type this column type maps onto.
	VitessType() sqltypes.Type
}

type int64Type struct{}

func (int64Type) String() string { return "BIGINT" }

func (int64Type) VitessType() sqltypes.Type { return sqltypes.Int64 }

func (int64Type) SQLLiteral(v interface{}) (string, error) {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("sql/types: BIGINT literal expects an integer, got %T", v)
	}
}

type float64Type struct{}

func (float64Type) String() string { return "DOUBLE PRECISION" }

func (float64Type) VitessType() sqltypes.Type { return sqltypes.Float64 }

func (float64Type) SQLLiteral(v interface{}) (string, error) {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	default:
		return "", fmt.Errorf("sql/types: DOUBLE PRECISION literal expects a float, got %T", v)
	}
}

type boolType struct{}

func (boolType) String() string { return "BOOLEAN" }

func (boolType) VitessType() sqltypes.Type { return sqltypes.Bit }

func (boolType) SQLLiteral(v interface{}) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("sql/types: BOOLEAN literal expects a bool, got %T", v)
	}
	if b {
		return "TRUE", nil
	}
	return "FALSE", nil
}

type decimalType struct{}

func (decimalType) String() string { return "DECIMAL" }

func (decimalType) VitessType() sqltypes.Type { return sqltypes.Decimal }

func (decimalType) SQLLiteral(v interface{}) (string, error) {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return "", fmt.Errorf("sql/types: DECIMAL literal expects a decimal.Decimal, got %T", v)
	}
	return d.String(), nil
}

type textType struct{}

func (textType) String() string { return "TEXT" }

func (textType) VitessType() sqltypes.Type { return sqltypes.VarChar }

func (textType) SQLLiteral(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
}

type timestampType struct{}

func (timestampType) String() string { return "TIMESTAMP" }

func (timestampType) VitessType() sqltypes.Type { return sqltypes.Timestamp }

func (timestampType) SQLLiteral(v interface{}) (string, error) {
	switch v := v.(type) {
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05.999999999") + "'", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	default:
		return "", fmt.Errorf("sql/types: TIMESTAMP literal expects a time.Time, got %T", v)
	}
}

// The closed set of column types the catalog can declare.
var (
	Int64     Type = int64Type{}
	Float64   Type = float64Type{}
	Bool      Type = boolType{}
	Decimal   Type = decimalType{}
	Text      Type = textType{}
	Timestamp Type = timestampType{}
)
