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
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewPaginationDetails(t *testing.T) {
	cases := []struct {
		name               string
		page, limit, total int
		want               PaginationDetails
	}{
		{
			name: "empty", page: 1, limit: 30, total: 0,
			want: PaginationDetails{CurrentPage: 1, NumOfItemsPerPage: 30},
		},
		{
			name: "first of two", page: 1, limit: 30, total: 35,
			want: PaginationDetails{CurrentPage: 1, NumOfItemsPerPage: 30, NumOfPages: 2, NextPage: intPtr(2), TotalNumOfItems: 35},
		},
		{
			name: "last of two", page: 2, limit: 30, total: 35,
			want: PaginationDetails{CurrentPage: 2, NumOfItemsPerPage: 30, NumOfPages: 2, PreviousPage: intPtr(1), TotalNumOfItems: 35},
		},
		{
			name: "exact fit", page: 2, limit: 10, total: 20,
			want: PaginationDetails{CurrentPage: 2, NumOfItemsPerPage: 10, NumOfPages: 2, PreviousPage: intPtr(1), TotalNumOfItems: 20},
		},
		{
			name: "middle", page: 2, limit: 5, total: 11,
			want: PaginationDetails{CurrentPage: 2, NumOfItemsPerPage: 5, NumOfPages: 3, NextPage: intPtr(3), PreviousPage: intPtr(1), TotalNumOfItems: 11},
		},
		{
			name: "past the end", page: 5, limit: 10, total: 20,
			want: PaginationDetails{CurrentPage: 5, NumOfItemsPerPage: 10, NumOfPages: 2, PreviousPage: intPtr(4), TotalNumOfItems: 20},
		},
		{
			name: "page near max int", page: math.MaxInt / 4, limit: 4, total: 1,
			want: PaginationDetails{CurrentPage: math.MaxInt / 4, NumOfItemsPerPage: 4, NumOfPages: 1, PreviousPage: intPtr(math.MaxInt/4 - 1), TotalNumOfItems: 1},
		},
		{
			name: "huge limit", page: 1, limit: math.MaxInt, total: 3,
			want: PaginationDetails{CurrentPage: 1, NumOfItemsPerPage: math.MaxInt, NumOfPages: 1, TotalNumOfItems: 3},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewPaginationDetails(tc.page, tc.limit, tc.total))
		})
	}
}

func TestQuerySpecValidate(t *testing.T) {
	assert.NoError(t, (&QuerySpec{}).Validate())
	assert.NoError(t, (&QuerySpec{Page: math.MaxInt / 4, Limit: 4}).Validate())
	assert.ErrorIs(t, (&QuerySpec{Page: math.MaxInt/4 + 1, Limit: 4}).Validate(), ErrInvalidQuery)
	assert.ErrorIs(t, (&QuerySpec{Page: 2, Limit: math.MaxInt}).Validate(), ErrInvalidQuery)
}

func TestPaginationDetailsJSONOmitsAbsentPages(t *testing.T) {
	raw, err := json.Marshal(NewPaginationDetails(2, 30, 35))
	require.NoError(t, err)
	assert.JSONEq(t, `{"currentPage":2,"numOfItemsPerPage":30,"numOfPages":2,"previousPage":1,"totalNumOfItems":35}`, string(raw))
}

func TestConditionsKeysAreSorted(t *testing.T) {
	c := Conditions{"user_id": 1, "id": 2, "product_id": 3}
	assert.Equal(t, []string{"id", "product_id", "user_id"}, c.Keys())

	extended := c.With("deleted_at", nil)
	assert.Len(t, extended, 4)
	assert.Len(t, c, 3)
	assert.Equal(t, Conditions{"id": int64(7)}, ByID(7))
}
