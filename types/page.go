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
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 30
)

// SortKey orders results by one column.
type SortKey struct {
	Column    string
	Direction SortDirection
}

// Search matches Term against any of Columns.
type Search struct {
	Columns []string
	Term    string
}

// QuerySpec describes a filtered, searched, sorted and paginated read.
// Zero Page or Limit falls back to DefaultPage and DefaultLimit.
type QuerySpec struct {
	Page    int
	Limit   int
	Fields  []string
	Sort    []SortKey
	Search  *Search
	Filters []Filter
}

// NewQuerySpec constructs a QuerySpec holding only filters.
func NewQuerySpec(filters ...Filter) *QuerySpec {
	return &QuerySpec{Filters: filters}
}

// Where appends filters and returns the spec for chaining.
func (q *QuerySpec) Where(filters ...Filter) *QuerySpec {
	q.Filters = append(q.Filters, filters...)
	return q
}

// OrderBy appends a sort key.
func (q *QuerySpec) OrderBy(column string, dir SortDirection) *QuerySpec {
	q.Sort = append(q.Sort, SortKey{Column: column, Direction: dir})
	return q
}

// Paginate sets the page window.
func (q *QuerySpec) Paginate(page, limit int) *QuerySpec {
	q.Page, q.Limit = page, limit
	return q
}

func (q *QuerySpec) GetPage() int {
	if q == nil || q.Page < 1 {
		return DefaultPage
	}
	return q.Page
}

func (q *QuerySpec) GetLimit() int {
	if q == nil || q.Limit < 1 {
		return DefaultLimit
	}
	return q.Limit
}

func (q *QuerySpec) GetOffset() int {
	return (q.GetPage() - 1) * q.GetLimit()
}

// Validate rejects page windows whose end does not fit in an int.
func (q *QuerySpec) Validate() error {
	page, limit := q.GetPage(), q.GetLimit()
	if page > math.MaxInt/limit {
		return fmt.Errorf("%w: page %d with limit %d is out of range", ErrInvalidQuery, page, limit)
	}
	return nil
}

// PaginationDetails is the paging metadata returned with every list.
type PaginationDetails struct {
	CurrentPage       int  `json:"currentPage"`
	NumOfItemsPerPage int  `json:"numOfItemsPerPage"`
	NumOfPages        int  `json:"numOfPages"`
	NextPage          *int `json:"nextPage,omitempty"`
	PreviousPage      *int `json:"previousPage,omitempty"`
	TotalNumOfItems   int  `json:"totalNumOfItems"`
}

// NewPaginationDetails computes paging metadata for a page window over total rows.
func NewPaginationDetails(page, limit, total int) PaginationDetails {
	d := PaginationDetails{
		CurrentPage:       page,
		NumOfItemsPerPage: limit,
		TotalNumOfItems:   total,
	}
	if limit < 1 {
		return d
	}
	d.NumOfPages = total / limit
	if total%limit != 0 {
		d.NumOfPages++
	}
	if page < d.NumOfPages {
		next := page + 1
		d.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		d.PreviousPage = &prev
	}
	return d
}

// Page holds one page of rows along with its pagination metadata.
type Page[T any] struct {
	Data              []*T              `json:"data"`
	PaginationDetails PaginationDetails `json:"paginationDetails"`
}

// NewEmptyPage constructs a page with no rows.
func NewEmptyPage[T any](page, limit int) *Page[T] {
	return &Page[T]{Data: make([]*T, 0), PaginationDetails: NewPaginationDetails(page, limit, 0)}
}
