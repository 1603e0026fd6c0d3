/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FilterKind tags the shape of a Filter.
type FilterKind int

const (
	FilterEquals FilterKind = iota
	FilterIn
	FilterRange
	FilterIsNull
)

func (k FilterKind) String() string {
	switch k {
	case FilterEquals:
		return "equals"
	case FilterIn:
		return "in"
	case FilterRange:
		return "range"
	case FilterIsNull:
		return "is_null"
	default:
		return IllegalName
	}
}

// Filter is a single WHERE predicate on one column.
//
// Exactly one shape is meaningful per Kind:
//   - FilterEquals: Column = Value
//   - FilterIn:     Column IN (Values...)
//   - FilterRange:  Column <Op> Value
//   - FilterIsNull: Column IS NULL
//
// When Date is set the predicate compares DATE(Column) instead of the raw
// column and Value holds a normalized YYYY-MM-DD string.
type Filter struct {
	Column string
	Kind   FilterKind
	Op     Operator
	Value  any
	Values []any
	Date   bool
}

// Equals builds an equality filter.
func Equals(column string, value any) Filter {
	return Filter{Column: column, Kind: FilterEquals, Op: OpEq, Value: value}
}

// In builds a set membership filter.
func In(column string, values ...any) Filter {
	return Filter{Column: column, Kind: FilterIn, Values: values}
}

// Range builds a comparison filter.
func Range(column string, op Operator, value any) Filter {
	return Filter{Column: column, Kind: FilterRange, Op: op, Value: value}
}

// IsNull builds an IS NULL filter.
func IsNull(column string) Filter {
	return Filter{Column: column, Kind: FilterIsNull}
}

// OnDate marks the filter as a date comparison against DATE(column).
func (f Filter) OnDate() Filter {
	f.Date = true
	return f
}

func (f Filter) String() string {
	col := f.Column
	if f.Date {
		col = "DATE(" + col + ")"
	}
	switch f.Kind {
	case FilterIn:
		return fmt.Sprintf("%s IN %v", col, f.Values)
	case FilterRange:
		return fmt.Sprintf("%s %s %v", col, f.Op, f.Value)
	case FilterIsNull:
		return col + " IS NULL"
	default:
		return fmt.Sprintf("%s = %v", col, f.Value)
	}
}

const (
	nullLiteral     = "null"
	shortDateLayout = "2006-01-02"
	longDateLayout  = "2006-01-02T15:04:05.000Z"
)

var (
	longDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)
	shortDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeDate reports whether s is a recognized filter date and returns it
// as YYYY-MM-DD in UTC.
func NormalizeDate(s string) (string, bool) {
	var layout string
	switch {
	case shortDateRegex.MatchString(s):
		layout = shortDateLayout
	case longDateRegex.MatchString(s):
		layout = longDateLayout
	default:
		return "", false
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(shortDateLayout), true
}

// ParseScalarFilter turns a plain query-string value into a filter.
// Order: "null", then date, then comma list, then equality.
func ParseScalarFilter(column, raw string) Filter {
	if raw == nullLiteral {
		return IsNull(column)
	}
	if date, ok := NormalizeDate(raw); ok {
		return Equals(column, date).OnDate()
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			values = append(values, strings.TrimSpace(p))
		}
		return In(column, values...)
	}
	return Equals(column, raw)
}

// ParseOperatorFilter turns col[op]=raw into a filter. Unknown operators are
// rejected.
func ParseOperatorFilter(column, op, raw string) (Filter, error) {
	operator, ok := ParseOperator(op)
	if !ok {
		return Filter{}, fmt.Errorf("%w: unsupported operator %q on %q", ErrInvalidQuery, op, column)
	}
	if date, ok := NormalizeDate(raw); ok {
		return Range(column, operator, date).OnDate(), nil
	}
	return Range(column, operator, raw), nil
}
