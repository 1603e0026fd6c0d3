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
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Reserved query-string keys; everything else is a filter.
const (
	KeyPage   = "page"
	KeyLimit  = "limit"
	KeyFields = "fields"
	KeySort   = "sort"
	KeySearch = "search"
)

func isReserved(key string) bool {
	switch key {
	case KeyPage, KeyLimit, KeyFields, KeySort, KeySearch:
		return true
	}
	return false
}

// ParseQuery builds a QuerySpec from request query parameters.
//
// Filter keys are processed in sorted order so the same query string always
// yields the same spec. Operator keys take the form col[op].
func ParseQuery(values url.Values) (*QuerySpec, error) {
	spec := &QuerySpec{}

	var err error
	if spec.Page, err = parsePositive(values, KeyPage); err != nil {
		return nil, err
	}
	if spec.Limit, err = parsePositive(values, KeyLimit); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if raw := values.Get(KeyFields); raw != "" {
		spec.Fields = splitList(raw)
	}
	if raw := values.Get(KeySort); raw != "" {
		spec.Sort = ParseSort(raw)
	}
	if raw := values.Get(KeySearch); raw != "" {
		spec.Search = ParseSearch(raw)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if !isReserved(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		raws := values[key]
		if len(raws) == 0 {
			continue
		}
		column, op, hasOp, err := splitOperatorKey(key)
		if err != nil {
			return nil, err
		}
		if hasOp {
			for _, raw := range raws {
				f, err := ParseOperatorFilter(column, op, raw)
				if err != nil {
					return nil, err
				}
				spec.Filters = append(spec.Filters, f)
			}
			continue
		}
		if len(raws) > 1 {
			members := make([]interface{}, 0, len(raws))
			for _, raw := range raws {
				members = append(members, raw)
			}
			spec.Filters = append(spec.Filters, In(column, members...))
			continue
		}
		spec.Filters = append(spec.Filters, ParseScalarFilter(column, raws[0]))
	}
	return spec, nil
}

// ParseSort turns "-price,name" into sort keys.
func ParseSort(raw string) []SortKey {
	keys := splitList(raw)
	out := make([]SortKey, 0, len(keys))
	for _, k := range keys {
		if strings.HasPrefix(k, "-") {
			if col := strings.TrimPrefix(k, "-"); col != "" {
				out = append(out, SortKey{Column: col, Direction: Desc})
			}
			continue
		}
		out = append(out, SortKey{Column: k, Direction: Asc})
	}
	return out
}

// ParseSearch turns "(username,email):adm" into a Search. Any other shape
// returns nil.
func ParseSearch(raw string) *Search {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return nil
	}
	fields, term := parts[0], parts[1]
	if len(fields) < 2 || fields[0] != '(' || fields[len(fields)-1] != ')' {
		return nil
	}
	columns := splitList(fields[1 : len(fields)-1])
	if len(columns) == 0 || term == "" {
		return nil
	}
	return &Search{Columns: columns, Term: term}
}

func parsePositive(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidQuery, key, raw)
	}
	return n, nil
}

// splitOperatorKey splits "price[gte]" into ("price", "gte", true).
func splitOperatorKey(key string) (column, op string, hasOp bool, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", false, nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", false, fmt.Errorf("%w: malformed filter key %q", ErrInvalidQuery, key)
	}
	return key[:open], key[open+1 : len(key)-1], true, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
