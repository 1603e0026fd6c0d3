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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tomoncle/storefront/types"
)

var (
	// ErrNotFound matches every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidQuery reports unknown columns, operators or unparsable values.
	ErrInvalidQuery = types.ErrInvalidQuery
	// ErrEmptyConditions guards writes against touching a whole table.
	ErrEmptyConditions = errors.New("conditions must not be empty")
	// ErrSoftDeleteUnsupported is returned when the table has no deleted_at column.
	ErrSoftDeleteUnsupported = errors.New("table does not support soft delete")
	// ErrNoPrimaryKey is returned for models without a single primary key column.
	ErrNoPrimaryKey = errors.New("table must have exactly one primary key column")
)

// NotFoundError is returned when an existence check fails. IDs is set by
// DeleteByIds and lists the absent ids in input order.
type NotFoundError struct {
	Table      string
	IDs        []int64
	Conditions types.Conditions
}

func (e *NotFoundError) Error() string {
	if len(e.IDs) > 0 {
		ids := make([]string, len(e.IDs))
		for i, id := range e.IDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		return fmt.Sprintf("Record(s) with ID(s) %s not found", strings.Join(ids, ", "))
	}
	return fmt.Sprintf("Record not found in %s", e.Table)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
