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
	"errors"
	"sort"
)

// ErrInvalidQuery reports a malformed query specification.
var ErrInvalidQuery = errors.New("invalid query")

// Conditions is an AND-conjunction of column equality checks.
// A nil value matches IS NULL.
type Conditions map[string]interface{}

// Patch is a set of column assignments for an update.
type Patch map[string]interface{}

// Keys returns the column names in a stable order so generated SQL is
// deterministic.
func (c Conditions) Keys() []string {
	return sortedKeys(c)
}

// Keys returns the column names in a stable order.
func (p Patch) Keys() []string {
	return sortedKeys(p)
}

// With returns a copy of c with column set to value.
func (c Conditions) With(column string, value interface{}) Conditions {
	out := make(Conditions, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[column] = value
	return out
}

// ByID is shorthand for Conditions{"id": id}.
func ByID(id int64) Conditions {
	return Conditions{"id": id}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
