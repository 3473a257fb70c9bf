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

package sqlbuild

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/prabu701/sqlg/dialect"
	"github.com/prabu701/sqlg/predicate"
	"github.com/prabu701/sqlg/sql/types"
	"github.com/prabu701/sqlg/traversal"
)

var comparisonSQL = map[traversal.Op]string{
	traversal.OpEq:  "=",
	traversal.OpNeq: "<>",
	traversal.OpLt:  "<",
	traversal.OpLte: "<=",
	traversal.OpGt:  ">",
	traversal.OpGte: ">=",
}

// predicateSQL renders containers (a single filter step's worth of
// has-containers, already known foldable by predicate.Classify) into one
// conjoined WHERE fragment referencing col as "alias"."column", per the
// fixed mapping. needsScratch is set when a membership
// predicate's value list is large enough to need a scratch-table join
// instead of an inline IN (...); in that case the returned fragment joins
// against the scratch table name dia returns, and the caller is
// responsible for adding that join to the statement.
func predicateSQL(colRef string, containers []traversal.HasContainer, dia dialect.Dialect, tempTableThreshold int) (whereFragment string, scratchJoin string, needsScratch bool, scratch *ScratchTableSpec, err error) {
	shape, ok := predicate.Classify(containers)
	if !ok {
		return "", "", false, nil, fmt.Errorf("sqlbuild: unfoldable predicate reached the builder: %v", containers)
	}

	switch shape {
	case predicate.ShapeComparison:
		c := containers[0]
		lit, err := literalFor(c.Value)
		if err != nil {
			return "", "", false, nil, err
		}
		return fmt.Sprintf("%s %s %s", colRef, comparisonSQL[c.Pred.Op], lit), "", false, nil, nil

	case predicate.ShapeHalfOpenRange, predicate.ShapeOpenRange:
		lo, hi := containers[0], containers[1]
		loLit, err := literalFor(lo.Value)
		if err != nil {
			return "", "", false, nil, err
		}
		hiLit, err := literalFor(hi.Value)
		if err != nil {
			return "", "", false, nil, err
		}
		return fmt.Sprintf("(%s %s %s AND %s %s %s)", colRef, comparisonSQL[lo.Pred.Op], loLit, colRef, comparisonSQL[hi.Pred.Op], hiLit), "", false, nil, nil

	case predicate.ShapeExterior:
		preds, _ := containers[0].Pred.Value.([]traversal.Predicate)
		loLit, err := literalFor(preds[0].Value)
		if err != nil {
			return "", "", false, nil, err
		}
		hiLit, err := literalFor(preds[1].Value)
		if err != nil {
			return "", "", false, nil, err
		}
		return fmt.Sprintf("(%s %s %s OR %s %s %s)", colRef, comparisonSQL[preds[0].Op], loLit, colRef, comparisonSQL[preds[1].Op], hiLit), "", false, nil, nil

	case predicate.ShapeMembership:
		return membershipSQL(colRef, containers[0], dia, tempTableThreshold)

	case predicate.ShapeText:
		frag, err := textSQL(colRef, containers[0], dia)
		return frag, "", false, nil, err

	default:
		return "", "", false, nil, fmt.Errorf("sqlbuild: unhandled predicate shape %s", shape)
	}
}

// ScratchTableSpec is the dialect-rendered setup/teardown SQL for a
// temp-table join the builder decided to use in place of a large inline
// IN (...) list. emit executes Setup before querying the partition that
// references it and Drop once the iterator reaches DONE or FAILED.
type ScratchTableSpec struct {
	Setup []string
	Drop  string
}

func membershipSQL(colRef string, c traversal.HasContainer, dia dialect.Dialect, tempTableThreshold int) (frag string, join string, needsScratch bool, scratch *ScratchTableSpec, err error) {
	values := reflect.ValueOf(c.Value)
	if values.Kind() != reflect.Slice {
		return "", "", false, nil, fmt.Errorf("sqlbuild: membership predicate value is not a list: %T", c.Value)
	}
	n := values.Len()
	negate := c.Pred.Op == traversal.OpWithout
	op := "IN"
	if negate {
		op = "NOT IN"
	}

	if n >= tempTableThreshold && tempTableThreshold > 0 {
		name := dia.ScratchTableName(c.Key)
		typeName := "TEXT"
		if n > 0 {
			typeName = sqlTypeNameFor(values.Index(0).Interface())
		}
		setup := []string{fmt.Sprintf("CREATE TEMPORARY TABLE %s (val %s)", dia.Quote(name), typeName)}
		lits := make([]string, 0, n)
		for i := 0; i < n; i++ {
			lit, err := literalFor(values.Index(i).Interface())
			if err != nil {
				return "", "", false, nil, err
			}
			lits = append(lits, fmt.Sprintf("(%s)", lit))
		}
		if n > 0 {
			setup = append(setup, fmt.Sprintf("INSERT INTO %s (val) VALUES %s", dia.Quote(name), strings.Join(lits, ", ")))
		}
		spec := &ScratchTableSpec{
			Setup: setup,
			Drop:  fmt.Sprintf("DROP TABLE %s", dia.Quote(name)),
		}
		joinSQL := fmt.Sprintf("INNER JOIN %s ON %s.val = %s", dia.Quote(name), dia.Quote(name), colRef)
		if negate {
			joinSQL = fmt.Sprintf("LEFT JOIN %s ON %s.val = %s", dia.Quote(name), dia.Quote(name), colRef)
		}
		fragment := fmt.Sprintf("%s IS NOT NULL", dia.Quote(name)+".val")
		if negate {
			fragment = fmt.Sprintf("%s IS NULL", dia.Quote(name)+".val")
		}
		return fragment, joinSQL, true, spec, nil
	}

	lits := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lit, err := literalFor(values.Index(i).Interface())
		if err != nil {
			return "", "", false, nil, err
		}
		lits = append(lits, lit)
	}
	return fmt.Sprintf("%s %s (%s)", colRef, op, strings.Join(lits, ", ")), "", false, nil, nil
}

func sqlTypeNameFor(v interface{}) string {
	switch v.(type) {
	case int, int32, int64:
		return types.Int64.String()
	case float32, float64:
		return types.Float64.String()
	case bool:
		return types.Bool.String()
	case decimal.Decimal:
		return types.Decimal.String()
	default:
		return types.Text.String()
	}
}

func textSQL(colRef string, c traversal.HasContainer, dia dialect.Dialect) (string, error) {
	value, ok := c.Value.(string)
	if !ok {
		return "", fmt.Errorf("sqlbuild: text predicate value is not a string: %T", c.Value)
	}
	regexOp := dia.RegexOperator()
	likeStyle := strings.Contains(strings.ToUpper(regexOp), "LIKE")

	switch c.Pred.Op {
	case traversal.OpContains, traversal.OpNContains:
		if likeStyle {
			return likeClause(colRef, "%"+escapeLike(value)+"%", c.Pred.Op == traversal.OpNContains), nil
		}
		return regexClause(colRef, regexOp, value, c.Pred.Op == traversal.OpNContains), nil

	case traversal.OpContainsCIS, traversal.OpNContainsCIS:
		if likeStyle {
			return fmt.Sprintf("LOWER(%s) %s LOWER('%%%s%%')", colRef, likeOp(c.Pred.Op == traversal.OpNContainsCIS), escapeLike(value)), nil
		}
		return regexClause(colRef, regexOp+"*", value, c.Pred.Op == traversal.OpNContainsCIS), nil

	case traversal.OpStartsWith, traversal.OpNStartsWith:
		if likeStyle {
			return likeClause(colRef, escapeLike(value)+"%", c.Pred.Op == traversal.OpNStartsWith), nil
		}
		return regexClause(colRef, regexOp, "^"+value, c.Pred.Op == traversal.OpNStartsWith), nil

	case traversal.OpEndsWith, traversal.OpNEndsWith:
		if likeStyle {
			return likeClause(colRef, "%"+escapeLike(value), c.Pred.Op == traversal.OpNEndsWith), nil
		}
		return regexClause(colRef, regexOp, value+"$", c.Pred.Op == traversal.OpNEndsWith), nil

	default:
		return "", fmt.Errorf("sqlbuild: unexpected text operator %s", c.Pred.Op)
	}
}

func likeOp(negate bool) string {
	if negate {
		return "NOT LIKE"
	}
	return "LIKE"
}

func likeClause(colRef, pattern string, negate bool) string {
	return fmt.Sprintf("%s %s '%s'", colRef, likeOp(negate), pattern)
}

func regexClause(colRef, op, pattern string, negate bool) string {
	if negate {
		op = "!" + op
	}
	return fmt.Sprintf("%s %s '%s'", colRef, op, pattern)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `'`, `''`)
	return r.Replace(s)
}

// literalFor renders a Go value as a SQL literal by dispatching on its
// concrete type to the matching sql/types.Type, since the builder does
// not carry the catalog's declared column type for every filter.
func literalFor(v interface{}) (string, error) {
	switch v.(type) {
	case int, int32, int64:
		return types.Int64.SQLLiteral(toInt64(v))
	case float32, float64:
		return types.Float64.SQLLiteral(v)
	case bool:
		return types.Bool.SQLLiteral(v)
	case decimal.Decimal:
		return types.Decimal.SQLLiteral(v)
	case string:
		return types.Text.SQLLiteral(v)
	default:
		return types.Text.SQLLiteral(fmt.Sprintf("%v", v))
	}
}

func toInt64(v interface{}) int64 {
	switch v := v.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}
