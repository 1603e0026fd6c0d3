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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// Operator is a comparison used by range filters, e.g. price[gte]=10.
type Operator int

const (
	OpIllegal Operator = iota - 1
	OpEq
	OpGt
	OpGte
	OpLt
	OpLte
)

var _ BaseEnum = OpEq

var operatorNames = map[Operator]string{
	OpEq:  "eq",
	OpGt:  "gt",
	OpGte: "gte",
	OpLt:  "lt",
	OpLte: "lte",
}

var operatorSymbols = map[Operator]string{
	OpEq:  "=",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

var operatorDescs = map[Operator]string{
	OpEq:  "equal to",
	OpGt:  "greater than",
	OpGte: "greater than or equal to",
	OpLt:  "less than",
	OpLte: "less than or equal to",
}

// ParseOperator maps a query-string operator key to an Operator.
// Unknown keys return OpIllegal and false.
func ParseOperator(name string) (Operator, bool) {
	for op, n := range operatorNames {
		if n == name {
			return op, true
		}
	}
	return OpIllegal, false
}

func (o Operator) IsValid() bool {
	_, ok := operatorNames[o]
	return ok
}

func (o Operator) Number() int {
	if !o.IsValid() {
		return IllegalValue
	}
	return int(o)
}

// String returns the SQL symbol of the operator.
func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return IllegalName
}

func (o Operator) Desc() string {
	if s, ok := operatorDescs[o]; ok {
		return s
	}
	return IllegalDesc
}

// Name returns the query-string key of the operator.
func (o Operator) Name() string {
	if s, ok := operatorNames[o]; ok {
		return s
	}
	return IllegalName
}

// SortDirection is the direction of a sort key.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

func (d SortDirection) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}
