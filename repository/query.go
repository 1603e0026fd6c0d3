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

package repository

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/schema"
)

// predicate is one WHERE fragment with bun placeholders.
type predicate struct {
	query string
	args  []any
}

type predicates []predicate

func (ps predicates) applySelect(q *bun.SelectQuery) *bun.SelectQuery {
	for _, p := range ps {
		q = q.Where(p.query, p.args...)
	}
	return q
}

func (ps predicates) applyUpdate(q *bun.UpdateQuery) *bun.UpdateQuery {
	for _, p := range ps {
		q = q.Where(p.query, p.args...)
	}
	return q
}

func (ps predicates) applyDelete(q *bun.DeleteQuery) *bun.DeleteQuery {
	for _, p := range ps {
		q = q.Where(p.query, p.args...)
	}
	return q
}

// queryBuilder validates column names against the bun model and renders
// filters, search, sort and condition maps into predicates.
type queryBuilder struct {
	table   *schema.Table
	dialect dialect.Name
}

func (b *queryBuilder) field(column string) (*schema.Field, error) {
	if f, ok := b.table.FieldMap[column]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: unknown column %q on %s", ErrInvalidQuery, column, b.table.Name)
}

func (b *queryBuilder) columns(columns []string) ([]string, error) {
	for _, c := range columns {
		if _, err := b.field(c); err != nil {
			return nil, err
		}
	}
	return columns, nil
}

// where renders the filters and the search of spec. The result is applied
// identically to the count and data statements.
func (b *queryBuilder) where(spec *types.QuerySpec) (predicates, error) {
	var ps predicates
	for _, f := range spec.Filters {
		p, err := b.filter(f)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
	}
	if spec.Search != nil {
		p, ok, err := b.search(spec.Search)
		if err != nil {
			return nil, err
		}
		if ok {
			ps = append(ps, p)
		}
	}
	return ps, nil
}

func (b *queryBuilder) filter(f types.Filter) (predicate, error) {
	field, err := b.field(f.Column)
	if err != nil {
		return predicate{}, err
	}
	target := "?"
	if f.Date {
		target = "DATE(?)"
	}
	col := bun.Ident(f.Column)

	switch f.Kind {
	case types.FilterEquals:
		v, err := coerce(field, f.Value, f.Date)
		if err != nil {
			return predicate{}, err
		}
		return predicate{query: target + " = ?", args: []any{col, v}}, nil
	case types.FilterIn:
		if len(f.Values) == 0 {
			return predicate{}, fmt.Errorf("%w: empty set for %q", ErrInvalidQuery, f.Column)
		}
		values := make([]any, len(f.Values))
		for i, raw := range f.Values {
			if values[i], err = coerce(field, raw, f.Date); err != nil {
				return predicate{}, err
			}
		}
		return predicate{query: target + " IN (?)", args: []any{col, bun.In(values)}}, nil
	case types.FilterRange:
		if !f.Op.IsValid() {
			return predicate{}, fmt.Errorf("%w: unsupported operator on %q", ErrInvalidQuery, f.Column)
		}
		v, err := coerce(field, f.Value, f.Date)
		if err != nil {
			return predicate{}, err
		}
		return predicate{query: target + " " + f.Op.String() + " ?", args: []any{col, v}}, nil
	case types.FilterIsNull:
		return predicate{query: "? IS NULL", args: []any{col}}, nil
	default:
		return predicate{}, fmt.Errorf("%w: unsupported filter %s on %q", ErrInvalidQuery, f.Kind, f.Column)
	}
}

// search ORs a case-insensitive substring match over the listed columns.
// The id column matches by integer equality and is skipped for non-numeric
// terms. ok is false when no column contributed a predicate.
func (b *queryBuilder) search(s *types.Search) (predicate, bool, error) {
	var (
		parts []string
		args  []any
	)
	pattern := "%" + s.Term + "%"
	for _, c := range s.Columns {
		if _, err := b.field(c); err != nil {
			return predicate{}, false, err
		}
		if c == "id" {
			n, err := strconv.ParseInt(s.Term, 10, 64)
			if err != nil {
				continue
			}
			parts = append(parts, "? = ?")
			args = append(args, bun.Ident(c), n)
			continue
		}
		if b.dialect == dialect.PG {
			parts = append(parts, "CAST(? AS TEXT) ILIKE ?")
		} else {
			parts = append(parts, "LOWER(?) LIKE LOWER(?)")
		}
		args = append(args, bun.Ident(c), pattern)
	}
	if len(parts) == 0 {
		return predicate{}, false, nil
	}
	return predicate{query: "(" + strings.Join(parts, " OR ") + ")", args: args}, true, nil
}

// order renders sort keys. Every key is followed by pk ascending as a
// tie-break; with no keys and defaultSort the newest rows come first.
func (b *queryBuilder) order(keys []types.SortKey, pk string, defaultSort bool) ([]predicate, error) {
	if len(keys) == 0 {
		if !defaultSort || pk == "" {
			return nil, nil
		}
		return []predicate{{query: "? DESC", args: []any{bun.Ident(pk)}}}, nil
	}
	out := make([]predicate, 0, len(keys)*2)
	for _, k := range keys {
		if _, err := b.field(k.Column); err != nil {
			return nil, err
		}
		out = append(out, predicate{query: "? " + k.Direction.String(), args: []any{bun.Ident(k.Column)}})
		if pk != "" && k.Column != pk {
			out = append(out, predicate{query: "? ASC", args: []any{bun.Ident(pk)}})
		}
	}
	return out, nil
}

// conditions renders an equality conjunction; nil values match IS NULL.
func (b *queryBuilder) conditions(c types.Conditions) (predicates, error) {
	ps := make(predicates, 0, len(c))
	for _, column := range c.Keys() {
		field, err := b.field(column)
		if err != nil {
			return nil, err
		}
		value := c[column]
		if value == nil {
			ps = append(ps, predicate{query: "? IS NULL", args: []any{bun.Ident(column)}})
			continue
		}
		v, err := coerce(field, value, false)
		if err != nil {
			return nil, err
		}
		ps = append(ps, predicate{query: "? = ?", args: []any{bun.Ident(column), v}})
	}
	return ps, nil
}

// assignments renders SET fragments for a patch in column order.
func (b *queryBuilder) assignments(p types.Patch) ([]predicate, error) {
	out := make([]predicate, 0, len(p))
	for _, column := range p.Keys() {
		if _, err := b.field(column); err != nil {
			return nil, err
		}
		out = append(out, predicate{query: "? = ?", args: []any{bun.Ident(column), p[column]}})
	}
	return out, nil
}

// coerce converts query-string values to the Go kind of the column so that
// numeric and boolean comparisons do not depend on driver casting. Date
// comparisons keep their normalized string.
func coerce(field *schema.Field, value any, date bool) (any, error) {
	s, ok := value.(string)
	if !ok || date {
		return value, nil
	}
	switch field.IndirectType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer for %q", ErrInvalidQuery, s, field.Name)
		}
		return n, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an unsigned integer for %q", ErrInvalidQuery, s, field.Name)
		}
		return n, nil
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number for %q", ErrInvalidQuery, s, field.Name)
		}
		return n, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean for %q", ErrInvalidQuery, s, field.Name)
		}
		return v, nil
	}
	return s, nil
}
